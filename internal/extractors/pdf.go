package extractors

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/whisperd/filewhisperer/internal/core"
)

// PDFExtractor digests PDF payloads: the text of the first PDFMaxPages
// pages, concatenated into one TEXT child emitted last, plus one file child
// per embedded page image. Encrypted documents are opened with the node's
// password candidates; exhausting them is fatal.
type PDFExtractor struct {
	l core.Logger
}

// NewPDFExtractor returns a PDFExtractor logging through logger.
func NewPDFExtractor(logger core.Logger) *PDFExtractor {
	return &PDFExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *PDFExtractor) Name() string {
	return "pdf_extractor"
}

// Extract walks the capped page range of the document.
func (exr *PDFExtractor) Extract(node *core.Node) (nodes []*core.Node, err error) {
	// The underlying parser panics on malformed structures instead of
	// returning errors; contain that to a recoverable failure.
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = errors.Errorf("pdf parsing panicked: %v", r)
		}
	}()

	content := node.Bytes()
	handed := 0
	encrypted := false
	reader, err := pdf.NewReaderEncrypted(
		bytes.NewReader(content), int64(len(content)), func() string {
			encrypted = true
			if handed >= len(node.Passwords) {
				return ""
			}
			password := node.Passwords[handed]
			handed++
			return password
		})
	if err != nil {
		if encrypted {
			node.Meta.Booleans["is_encrypted"] = true
			return nil, core.Fatal(errors.Wrap(err,
				"no supplied password decrypts the document"))
		}
		return nil, errors.Wrap(err, "cannot open pdf")
	}
	node.Meta.Booleans["is_encrypted"] = encrypted

	limit := reader.NumPage()
	if node.PDFMaxPages < limit {
		limit = node.PDFMaxPages
	}
	var text strings.Builder
	for number := 1; number <= limit; number++ {
		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			exr.l.Warnf("node[%d] pdf page %d text failed: %v", node.ID, number, err)
		} else {
			text.WriteString(pageText)
		}
		for index, image := range pageImages(page) {
			nodes = append(nodes, core.NewFileChild(node, &core.File{
				Path:    fmt.Sprintf("page_%d_image_%d.png", number, index),
				Name:    fmt.Sprintf("page_%d_image_%d.png", number, index),
				Content: image,
			}))
		}
	}
	exr.l.Infof("node[%d] pdf: %d/%d pages, %d images",
		node.ID, limit, reader.NumPage(), len(nodes))
	nodes = append(nodes, core.NewDataChild(
		node, core.DataTypeText, []byte(text.String())))
	return nodes, nil
}

// pageImages pulls the raw bytes of every image XObject referenced by the
// page's resource dictionary.
func pageImages(page pdf.Page) [][]byte {
	xobjects := page.V.Key("Resources").Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return nil
	}
	var images [][]byte
	for _, key := range xobjects.Keys() {
		object := xobjects.Key(key)
		if object.Kind() != pdf.Stream ||
			object.Key("Subtype").Name() != "Image" {
			continue
		}
		data, err := io.ReadAll(object.Reader())
		if err != nil || len(data) == 0 {
			continue
		}
		images = append(images, data)
	}
	return images
}
