package server

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/pb"
)

// ReplySerializer flattens a dissection tree into the wire reply. File
// payload bytes never travel inline: they are written to the output
// directory under the node's UUID, and the UUID goes out as the wire path.
type ReplySerializer struct {
	outputDir string

	l core.Logger
}

// NewReplySerializer reads the output directory from the environment.
// Missing configuration is a hard error; the service cannot serialize file
// payloads without a sink.
func NewReplySerializer(logger core.Logger) (*ReplySerializer, error) {
	if logger == nil {
		logger = core.NewLogger()
	}
	outputDir := os.Getenv(core.EnvOutputDir)
	if outputDir == "" {
		return nil, errors.Errorf("%s must be set", core.EnvOutputDir)
	}
	return &ReplySerializer{outputDir: outputDir, l: logger}, nil
}

// Serialize walks the tree breadth-first and emits one wire node per visit.
func (srl *ReplySerializer) Serialize(root *core.Node) (*pb.WhisperReply, error) {
	reply := &pb.WhisperReply{}
	queue := []*core.Node{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		wire := &pb.Node{
			Id:   node.ID,
			Meta: wireMeta(node.Meta),
		}
		if node.Parent != nil {
			wire.ParentId = node.Parent.ID
		}
		for _, child := range node.Children {
			wire.Children = append(wire.Children, child.ID)
			queue = append(queue, child)
		}
		switch {
		case node.File != nil:
			if err := srl.writePayload(node); err != nil {
				return nil, err
			}
			wire.File = &pb.FileMsg{
				Path:      node.UUID,
				Name:      node.File.Name,
				Extension: node.File.Extension,
				Size:      node.File.Size,
				MimeType:  node.File.MimeType,
				Md5:       node.File.MD5,
				Sha256:    node.File.SHA256,
				Sha1:      node.File.SHA1,
			}
		case node.Data != nil:
			wire.Data = &pb.DataMsg{
				Type:    node.Data.Type,
				Content: node.Data.Content,
			}
		}
		reply.Tree = append(reply.Tree, wire)
	}
	srl.l.Infof("serialized %d nodes", len(reply.Tree))
	return reply, nil
}

func (srl *ReplySerializer) writePayload(node *core.Node) error {
	target := filepath.Join(srl.outputDir, node.UUID)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrap(err, "cannot create the output directory")
	}
	if err := os.WriteFile(target, node.File.Content, 0644); err != nil {
		return errors.Wrapf(err, "cannot write payload of node %d", node.ID)
	}
	return nil
}

func wireMeta(meta *core.Meta) *pb.Meta {
	if meta == nil {
		return nil
	}
	wire := &pb.Meta{
		MapString: map[string]string{},
		MapNumber: map[string]int64{},
		MapBool:   map[string]bool{},
	}
	for key, value := range meta.Strings {
		wire.MapString[key] = value
	}
	for key, value := range meta.Numbers {
		wire.MapNumber[key] = value
	}
	for key, value := range meta.Booleans {
		wire.MapBool[key] = value
	}
	return wire
}
