package extractors

import (
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"

	"github.com/whisperd/filewhisperer/internal/core"
)

// OCRExtractor runs text recognition over an image payload. The native
// client is created on first use and kept for the extractor's lifetime; it
// is not reentrant, so a mutex serializes access when the registry is shared
// between engine instances. Sibling batching routes grouped images to the
// dedicated worker pool instead.
type OCRExtractor struct {
	l core.Logger

	mu     sync.Mutex
	client *gosseract.Client
}

// NewOCRExtractor returns an OCRExtractor logging through logger.
func NewOCRExtractor(logger core.Logger) *OCRExtractor {
	return &OCRExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *OCRExtractor) Name() string {
	return "ocr_extractor"
}

// Extract emits one OCR data child with the newline-joined recognized
// lines, or nothing when the image carries no text.
func (exr *OCRExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	text, err := exr.recognize(node.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "recognition failed")
	}
	text = normalizeOCRText(text)
	if text == "" {
		return nil, nil
	}
	exr.l.Debugf("node[%d] ocr produced %d bytes", node.ID, len(text))
	return []*core.Node{
		core.NewDataChild(node, core.DataTypeOCR, []byte(text)),
	}, nil
}

func (exr *OCRExtractor) recognize(content []byte) (string, error) {
	exr.mu.Lock()
	defer exr.mu.Unlock()
	if exr.client == nil {
		exr.client = gosseract.NewClient()
	}
	if err := exr.client.SetImageFromBytes(content); err != nil {
		return "", err
	}
	return exr.client.Text()
}

// normalizeOCRText trims every recognized line and drops the empty ones.
func normalizeOCRText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
