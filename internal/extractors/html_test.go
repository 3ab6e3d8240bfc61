package extractors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/whisperd/filewhisperer/internal/core"
)

func parseHTML(t *testing.T, content string) *html.Node {
	doc, err := html.Parse(strings.NewReader(content))
	require.NoError(t, err)
	return doc
}

func TestVisibleText(t *testing.T) {
	doc := parseHTML(t,
		`<p>hi <a href='https://x'>x</a></p><script>var a = 1;</script>`+
			`<style>p { color: red }</style>`)
	assert.Equal(t, "hi x", VisibleText(doc))
}

func TestDocumentURLsAttributes(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<a href="https://a.test">a</a>
		<img src="https://img.test/1.png" srcset="https://img.test/2.png 1x, https://img.test/3.png 2x">
		<script src="https://js.test/app.js"></script>
		<iframe src="https://frame.test"></iframe>
		<form action="https://form.test/submit"></form>
		<div data-src="https://lazy.test/pic.jpg"></div>
		<a href="https://a.test">duplicate</a>
	</body></html>`)
	assert.Equal(t, []string{
		"https://a.test",
		"https://img.test/1.png",
		"https://img.test/2.png",
		"https://img.test/3.png",
		"https://js.test/app.js",
		"https://frame.test",
		"https://form.test/submit",
		"https://lazy.test/pic.jpg",
	}, DocumentURLs(doc))
}

func TestDocumentURLsMetaAndStyles(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta http-equiv="refresh" content="0; url=https://next.test/page">
		<meta property="og:image" content="https://og.test/cover.jpg">
		<style>.hero { background: url('https://css.test/bg.png') }</style>
	</head><body>
		<div style="background-image: url(https://inline.test/i.gif)"></div>
		<svg><image xlink:href="https://svg.test/vec.svg"></image></svg>
	</body></html>`)
	assert.Equal(t, []string{
		"https://next.test/page",
		"https://og.test/cover.jpg",
		"https://css.test/bg.png",
		"https://inline.test/i.gif",
		"https://svg.test/vec.svg",
	}, DocumentURLs(doc))
}

func TestInlineImages(t *testing.T) {
	doc := parseHTML(t,
		`<img src="data:image/png;base64,aGVsbG8="><img src="https://x.test/a.png">`)
	images := InlineImages(doc)
	require.Len(t, images, 1)
	assert.Equal(t, []byte("hello"), images[0])
}

func TestHTMLExtractor(t *testing.T) {
	root := core.NewRoot(&core.File{
		Name: "page.html",
		Content: []byte(`<p>hi <a href='https://x'>x</a></p>` +
			`<img src='data:image/png;base64,AAAA'>`),
	}, nil, 0, 0)
	root.Meta = core.NewMeta()

	extractor := NewHTMLExtractor(core.NewLogger())
	children, err := extractor.Extract(root)
	require.NoError(t, err)
	require.Len(t, children, 3)

	assert.Equal(t, core.DataTypeText, children[0].Data.Type)
	assert.Equal(t, "hi x", string(children[0].Bytes()))
	assert.Equal(t, core.DataTypeURL, children[1].Data.Type)
	assert.Equal(t, "https://x", string(children[1].Bytes()))
	require.NotNil(t, children[2].File)
	assert.Equal(t, []byte{0, 0, 0}, children[2].File.Content)
}
