package extractors

import (
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/whisperd/filewhisperer/internal/core"
)

// tagURLAttrs maps each tag to the attributes which may carry a URL.
var tagURLAttrs = map[string][]string{
	"a":      {"href"},
	"img":    {"src", "srcset"},
	"script": {"src", "data-main"},
	"link":   {"href"},
	"iframe": {"src"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
	"track":  {"src"},
	"form":   {"action"},
	"input":  {"src"},
	"object": {"data"},
	"embed":  {"src"},
}

var (
	cssURLPattern     = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)
	metaRefreshTarget = regexp.MustCompile(`(?i)url=([^;]+)`)
)

// HTMLExtractor parses an HTML payload and emits the visible text, every
// discovered URL and every base64 inline image as children.
type HTMLExtractor struct {
	l core.Logger
}

// NewHTMLExtractor returns an HTMLExtractor logging through logger.
func NewHTMLExtractor(logger core.Logger) *HTMLExtractor {
	return &HTMLExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *HTMLExtractor) Name() string {
	return "html_extractor"
}

// Extract emits, in order: one TEXT data child with the collapsed visible
// text, one URL data child per discovered URL, and one file child per
// base64-encoded inline image.
func (exr *HTMLExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	doc, err := html.Parse(strings.NewReader(string(node.Bytes())))
	if err != nil {
		return nil, err
	}
	nodes := []*core.Node{
		core.NewDataChild(node, core.DataTypeText, []byte(VisibleText(doc))),
	}
	for _, url := range DocumentURLs(doc) {
		nodes = append(nodes, core.NewDataChild(node, core.DataTypeURL, []byte(url)))
	}
	images := InlineImages(doc)
	exr.l.Debugf("node[%d] html: %d urls, %d inline images",
		node.ID, len(nodes)-1, len(images))
	for _, content := range images {
		nodes = append(nodes, core.NewFileChild(node, &core.File{Content: content}))
	}
	return nodes, nil
}

// VisibleText returns the document's text content with whitespace collapsed,
// skipping script and style elements.
func VisibleText(doc *html.Node) string {
	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			words = append(words, strings.Fields(n.Data)...)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.Join(words, " ")
}

// DocumentURLs collects the distinct URLs of the document in DOM order,
// covering tag attributes, meta redirects and OpenGraph images, lazy-load
// data-src attributes, SVG image references, and url(...) occurrences in
// inline styles and style elements.
func DocumentURLs(doc *html.Node) []string {
	seen := map[string]bool{}
	var urls []string
	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		// data: URIs are payloads, not references; inline images are
		// collected separately.
		if candidate == "" || seen[candidate] || strings.HasPrefix(candidate, "data:") {
			return
		}
		seen[candidate] = true
		urls = append(urls, candidate)
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrs := attributeMap(n)
			for _, name := range tagURLAttrs[n.Data] {
				value := attrs[name]
				if value == "" {
					continue
				}
				if name == "srcset" {
					// srcset holds "img1.jpg 1x, img2.jpg 2x" descriptors.
					for _, part := range strings.Split(value, ",") {
						fields := strings.Fields(part)
						if len(fields) > 0 {
							add(fields[0])
						}
					}
					continue
				}
				add(value)
			}
			switch n.Data {
			case "meta":
				if strings.EqualFold(strings.TrimSpace(attrs["property"]), "og:image") {
					add(attrs["content"])
				}
				if strings.EqualFold(attrs["http-equiv"], "refresh") {
					if m := metaRefreshTarget.FindStringSubmatch(attrs["content"]); m != nil {
						add(m[1])
					}
				}
			case "image":
				add(attrs["xlink:href"])
				add(attrs["href"])
			case "style":
				for _, m := range cssURLPattern.FindAllStringSubmatch(textContent(n), -1) {
					add(m[1])
				}
			}
			if value := attrs["data-src"]; value != "" {
				add(value)
			}
			if style := attrs["style"]; style != "" {
				for _, m := range cssURLPattern.FindAllStringSubmatch(style, -1) {
					add(m[1])
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return urls
}

// InlineImages returns the decoded bytes of every img tag whose src is a
// base64 data URI, in DOM order. Undecodable candidates are skipped.
func InlineImages(doc *html.Node) [][]byte {
	var images [][]byte
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			src := attributeMap(n)["src"]
			if strings.HasPrefix(src, "data:") {
				if idx := strings.Index(src, ";base64,"); idx >= 0 {
					decoded, err := base64.StdEncoding.DecodeString(src[idx+len(";base64,"):])
					if err == nil {
						images = append(images, decoded)
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return images
}

func attributeMap(n *html.Node) map[string]string {
	attrs := map[string]string{}
	for _, attr := range n.Attr {
		key := attr.Key
		if attr.Namespace != "" {
			key = attr.Namespace + ":" + attr.Key
		}
		attrs[key] = attr.Val
	}
	return attrs
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}
