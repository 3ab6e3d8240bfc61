package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/test"
)

func imageNode(content []byte) *core.Node {
	node := core.NewRoot(&core.File{Name: "pic.png", Content: content}, nil, 0, 0)
	node.Flavor = core.FlavorImage
	node.Meta = core.NewMeta()
	return node
}

func TestQRCodeExtractor(t *testing.T) {
	node := imageNode(test.QRCodePNG("hello"))
	extractor := NewQRCodeExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, core.DataTypeQRCode, children[0].Data.Type)
	assert.Equal(t, "hello", string(children[0].Bytes()))
}

func TestQRCodeExtractorOneDimensional(t *testing.T) {
	node := imageNode(test.BarcodePNG("FW-0042"))
	extractor := NewQRCodeExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, core.DataTypeQRCode, children[0].Data.Type)
	assert.Equal(t, "FW-0042", string(children[0].Bytes()))
}

func TestQRCodeExtractorBlankImage(t *testing.T) {
	node := imageNode(test.PNG(64, 64))
	extractor := NewQRCodeExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestQRCodeExtractorCorruptImage(t *testing.T) {
	node := imageNode([]byte("not an image at all"))
	extractor := NewQRCodeExtractor(core.NewLogger())
	_, err := extractor.Extract(node)
	assert.Error(t, err)
	assert.False(t, core.IsFatal(err))
}
