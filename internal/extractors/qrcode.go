package extractors

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/pkg/errors"

	"github.com/whisperd/filewhisperer/internal/core"
)

// QRCodeExtractor decodes two-dimensional and one-dimensional barcodes from
// an image payload and emits one QRCODE data child per detected symbol.
type QRCodeExtractor struct {
	l core.Logger
}

// NewQRCodeExtractor returns a QRCodeExtractor logging through logger.
func NewQRCodeExtractor(logger core.Logger) *QRCodeExtractor {
	return &QRCodeExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *QRCodeExtractor) Name() string {
	return "qrcode_extractor"
}

// onedReaders returns the one-dimensional readers applied after the QR pass,
// in scan order.
func onedReaders() []gozxing.Reader {
	return []gozxing.Reader{
		oned.NewMultiFormatUPCEANReader(nil),
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
		oned.NewITFReader(),
	}
}

// Extract decodes the image and scans it with the multi-symbol QR reader
// first, then the one-dimensional readers. A scan that finds nothing is not
// an error.
func (exr *QRCodeExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	img, _, err := image.Decode(bytes.NewReader(node.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode image")
	}
	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, errors.Wrap(err, "cannot binarize image")
	}

	seen := map[string]bool{}
	var nodes []*core.Node
	emit := func(text string) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		nodes = append(nodes, core.NewDataChild(
			node, core.DataTypeQRCode, []byte(text)))
	}
	if results, err := qrcode.NewQRCodeMultiReader().DecodeMultiple(bitmap, nil); err == nil {
		for _, result := range results {
			emit(result.GetText())
		}
	}
	for _, reader := range onedReaders() {
		if result, err := reader.Decode(bitmap, nil); err == nil {
			emit(result.GetText())
		}
	}
	exr.l.Debugf("node[%d] barcodes: %d symbols", node.ID, len(nodes))
	return nodes, nil
}
