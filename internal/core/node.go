package core

// Symbolic types carried by Data payloads. Extractors fabricate Data children
// with one of these tags; the classifier maps them back to a Flavor.
const (
	DataTypeText        = "TEXT"
	DataTypeURL         = "URL"
	DataTypeOCR         = "OCR"
	DataTypeQRCode      = "QRCODE"
	DataTypeEmailHeader = "EMAIL_HEADER"
	DataTypeEmailText   = "EMAIL_TEXT"
	DataTypeEmailHTML   = "EMAIL_HTML"
)

const (
	// DefaultPDFMaxPages limits how many PDF pages are dissected when the
	// request does not override it.
	DefaultPDFMaxPages = 10
	// DefaultWordMaxPages limits how many Word pages are dissected when the
	// request does not override it.
	DefaultWordMaxPages = 10
)

// File is a payload backed by real bytes: an uploaded file, an archive member,
// an embedded image. Identity fields are filled by the Dissector.
type File struct {
	Path      string
	Name      string
	Extension string
	Size      int64
	MimeType  string
	MD5       string
	SHA1      string
	SHA256    string
	Content   []byte
}

// Data is a typed fragment produced by an extractor: decoded text, a URL,
// OCR output, a barcode payload.
type Data struct {
	Type    string
	Content []byte
}

// Meta carries the three independent key spaces attached to every node.
// Keys are not pre-declared; extractors publish timings, error messages and
// domain facts here.
type Meta struct {
	Strings  map[string]string
	Numbers  map[string]int64
	Booleans map[string]bool
}

// NewMeta returns an empty Meta with all three maps allocated.
func NewMeta() *Meta {
	return &Meta{
		Strings:  map[string]string{},
		Numbers:  map[string]int64{},
		Booleans: map[string]bool{},
	}
}

// AppendError records an extractor or analyzer failure under "error_message".
func (meta *Meta) AppendError(name string, err error) {
	meta.Strings["error_message"] += name + ": " + err.Error() + ";"
}

// Node is a single item in the dissection tree. It carries exactly one of
// File or Data, the metadata gathered about it, and the children derived
// from it. Parent is a lookup-only back reference; ownership always runs
// top-down through Children.
type Node struct {
	ID       int64
	UUID     string
	Parent   *Node
	Children []*Node

	File *File
	Data *Data

	// Request-scoped limits, inherited verbatim from the parent at
	// construction time. Extractors must not widen them.
	Passwords    []string
	PDFMaxPages  int
	WordMaxPages int

	Flavor Flavor
	Meta   *Meta

	// expanded is set when sibling batching already attached this node's
	// results; the per-child digest skips such nodes.
	expanded bool
}

// NewRoot constructs the root node of a request around a file payload.
func NewRoot(file *File, passwords []string, pdfMaxPages, wordMaxPages int) *Node {
	if pdfMaxPages <= 0 {
		pdfMaxPages = DefaultPDFMaxPages
	}
	if wordMaxPages <= 0 {
		wordMaxPages = DefaultWordMaxPages
	}
	return &Node{
		File:         file,
		Passwords:    passwords,
		PDFMaxPages:  pdfMaxPages,
		WordMaxPages: wordMaxPages,
	}
}

// NewFileChild fabricates a file child of parent with the inherited limits
// and a zero ID; the Dissector assigns identity during digest.
func NewFileChild(parent *Node, file *File) *Node {
	node := &Node{Parent: parent, File: file}
	node.inheritLimits(parent)
	return node
}

// NewDataChild fabricates a data child of parent with the inherited limits
// and a zero ID.
func NewDataChild(parent *Node, dataType string, content []byte) *Node {
	node := &Node{Parent: parent, Data: &Data{Type: dataType, Content: content}}
	node.inheritLimits(parent)
	return node
}

func (node *Node) inheritLimits(parent *Node) {
	node.Passwords = parent.Passwords
	node.PDFMaxPages = parent.PDFMaxPages
	node.WordMaxPages = parent.WordMaxPages
}

// Bytes returns the payload bytes regardless of the payload variant.
func (node *Node) Bytes() []byte {
	if node.File != nil {
		return node.File.Content
	}
	if node.Data != nil {
		return node.Data.Content
	}
	return nil
}

// IsFile reports whether the node carries a file payload.
func (node *Node) IsFile() bool {
	return node.File != nil
}

// Expanded reports whether sibling batching already populated this node.
func (node *Node) Expanded() bool {
	return node.expanded
}

// MarkExpanded flags the node as populated by the batch processor so that the
// per-child digest skips it.
func (node *Node) MarkExpanded() {
	node.expanded = true
}
