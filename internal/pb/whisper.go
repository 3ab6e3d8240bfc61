// Package pb carries the wire messages of the Whispering RPC. The Go types
// are kept in sync with whisper.proto by hand; the gogo runtime marshals
// them through the field tags, which keeps the service free of a mandatory
// codegen step.
package pb

import (
	"github.com/gogo/protobuf/proto"
)

// WhisperRequest asks for one file to be dissected. Exactly one of FilePath
// and FileContent must be set; FileContent keeps the oneof's presence
// through nilness, so a non-nil empty slice is an explicitly empty file.
type WhisperRequest struct {
	FilePath     string   `protobuf:"bytes,1,opt,name=file_path,json=filePath,proto3" json:"file_path,omitempty"`
	FileContent  []byte   `protobuf:"bytes,2,opt,name=file_content,json=fileContent,proto3" json:"file_content,omitempty"`
	Passwords    []string `protobuf:"bytes,3,rep,name=passwords,proto3" json:"passwords,omitempty"`
	RootId       *int64   `protobuf:"varint,4,opt,name=root_id,json=rootId" json:"root_id,omitempty"`
	PdfMaxPages  *int32   `protobuf:"varint,5,opt,name=pdf_max_pages,json=pdfMaxPages" json:"pdf_max_pages,omitempty"`
	WordMaxPages *int32   `protobuf:"varint,6,opt,name=word_max_pages,json=wordMaxPages" json:"word_max_pages,omitempty"`
}

func (m *WhisperRequest) Reset()         { *m = WhisperRequest{} }
func (m *WhisperRequest) String() string { return proto.CompactTextString(m) }
func (*WhisperRequest) ProtoMessage()    {}

func (m *WhisperRequest) GetFilePath() string {
	if m != nil {
		return m.FilePath
	}
	return ""
}

func (m *WhisperRequest) GetFileContent() []byte {
	if m != nil {
		return m.FileContent
	}
	return nil
}

func (m *WhisperRequest) GetPasswords() []string {
	if m != nil {
		return m.Passwords
	}
	return nil
}

func (m *WhisperRequest) GetRootId() int64 {
	if m != nil && m.RootId != nil {
		return *m.RootId
	}
	return 0
}

func (m *WhisperRequest) GetPdfMaxPages() int32 {
	if m != nil && m.PdfMaxPages != nil {
		return *m.PdfMaxPages
	}
	return 0
}

func (m *WhisperRequest) GetWordMaxPages() int32 {
	if m != nil && m.WordMaxPages != nil {
		return *m.WordMaxPages
	}
	return 0
}

// WhisperReply carries the dissection tree, breadth-first from the root.
type WhisperReply struct {
	Tree []*Node `protobuf:"bytes,1,rep,name=tree,proto3" json:"tree,omitempty"`
}

func (m *WhisperReply) Reset()         { *m = WhisperReply{} }
func (m *WhisperReply) String() string { return proto.CompactTextString(m) }
func (*WhisperReply) ProtoMessage()    {}

func (m *WhisperReply) GetTree() []*Node {
	if m != nil {
		return m.Tree
	}
	return nil
}

// Node is one dissected item. Exactly one of File and Data is set; ParentId
// is 0 on the root.
type Node struct {
	Id       int64    `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	ParentId int64    `protobuf:"varint,2,opt,name=parent_id,json=parentId,proto3" json:"parent_id,omitempty"`
	Children []int64  `protobuf:"varint,3,rep,packed,name=children,proto3" json:"children,omitempty"`
	File     *FileMsg `protobuf:"bytes,4,opt,name=file,proto3" json:"file,omitempty"`
	Data     *DataMsg `protobuf:"bytes,5,opt,name=data,proto3" json:"data,omitempty"`
	Meta     *Meta    `protobuf:"bytes,6,opt,name=meta,proto3" json:"meta,omitempty"`
}

func (m *Node) Reset()         { *m = Node{} }
func (m *Node) String() string { return proto.CompactTextString(m) }
func (*Node) ProtoMessage()    {}

func (m *Node) GetId() int64 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *Node) GetParentId() int64 {
	if m != nil {
		return m.ParentId
	}
	return 0
}

func (m *Node) GetChildren() []int64 {
	if m != nil {
		return m.Children
	}
	return nil
}

func (m *Node) GetFile() *FileMsg {
	if m != nil {
		return m.File
	}
	return nil
}

func (m *Node) GetData() *DataMsg {
	if m != nil {
		return m.Data
	}
	return nil
}

func (m *Node) GetMeta() *Meta {
	if m != nil {
		return m.Meta
	}
	return nil
}

// FileMsg identifies a file payload. The content bytes never travel inline;
// they are written to the output directory under the node's UUID, which is
// carried as Path.
type FileMsg struct {
	Path      string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Name      string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Extension string `protobuf:"bytes,3,opt,name=extension,proto3" json:"extension,omitempty"`
	Size      int64  `protobuf:"varint,4,opt,name=size,proto3" json:"size,omitempty"`
	MimeType  string `protobuf:"bytes,5,opt,name=mime_type,json=mimeType,proto3" json:"mime_type,omitempty"`
	Md5       string `protobuf:"bytes,6,opt,name=md5,proto3" json:"md5,omitempty"`
	Sha256    string `protobuf:"bytes,7,opt,name=sha256,proto3" json:"sha256,omitempty"`
	Sha1      string `protobuf:"bytes,8,opt,name=sha1,proto3" json:"sha1,omitempty"`
}

func (m *FileMsg) Reset()         { *m = FileMsg{} }
func (m *FileMsg) String() string { return proto.CompactTextString(m) }
func (*FileMsg) ProtoMessage()    {}

// DataMsg is a typed fragment produced by an extractor.
type DataMsg struct {
	Type    string `protobuf:"bytes,1,opt,name=type,proto3" json:"type,omitempty"`
	Content []byte `protobuf:"bytes,2,opt,name=content,proto3" json:"content,omitempty"`
}

func (m *DataMsg) Reset()         { *m = DataMsg{} }
func (m *DataMsg) String() string { return proto.CompactTextString(m) }
func (*DataMsg) ProtoMessage()    {}

// Meta mirrors the node's three metadata key spaces.
type Meta struct {
	MapString map[string]string `protobuf:"bytes,1,rep,name=map_string,json=mapString,proto3" json:"map_string,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	MapNumber map[string]int64  `protobuf:"bytes,2,rep,name=map_number,json=mapNumber,proto3" json:"map_number,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	MapBool   map[string]bool   `protobuf:"bytes,3,rep,name=map_bool,json=mapBool,proto3" json:"map_bool,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
}

func (m *Meta) Reset()         { *m = Meta{} }
func (m *Meta) String() string { return proto.CompactTextString(m) }
func (*Meta) ProtoMessage()    {}

func init() {
	proto.RegisterType((*WhisperRequest)(nil), "whisper.WhisperRequest")
	proto.RegisterType((*WhisperReply)(nil), "whisper.WhisperReply")
	proto.RegisterType((*Node)(nil), "whisper.Node")
	proto.RegisterType((*FileMsg)(nil), "whisper.FileMsg")
	proto.RegisterType((*DataMsg)(nil), "whisper.DataMsg")
	proto.RegisterType((*Meta)(nil), "whisper.Meta")
	proto.RegisterMapType((map[string]string)(nil), "whisper.Meta.MapStringEntry")
	proto.RegisterMapType((map[string]int64)(nil), "whisper.Meta.MapNumberEntry")
	proto.RegisterMapType((map[string]bool)(nil), "whisper.Meta.MapBoolEntry")
}
