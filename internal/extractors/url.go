package extractors

import (
	"regexp"

	"github.com/whisperd/filewhisperer/internal/core"
)

// urlPattern is left-anchored on the scheme and consumes until a character
// which cannot be part of a URL: whitespace, quotes, angle brackets, braces,
// the full-width comma or the Chinese enumeration comma.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>{}` + "、，" + `]+`)

// URLExtractor finds http(s) URLs in the decoded payload text and emits one
// URL data child per distinct URL, in first-occurrence order.
type URLExtractor struct {
	l core.Logger
}

// NewURLExtractor returns a URLExtractor logging through logger.
func NewURLExtractor(logger core.Logger) *URLExtractor {
	return &URLExtractor{l: logger}
}

// Name identifies the extractor in timing and error meta keys.
func (exr *URLExtractor) Name() string {
	return "url_extractor"
}

// Extract decodes the payload bytes as UTF-8 best-effort and fabricates one
// child per unique URL.
func (exr *URLExtractor) Extract(node *core.Node) ([]*core.Node, error) {
	text := string(node.Bytes())
	urls := FindURLs(text)
	exr.l.Debugf("node[%d] found %d urls", node.ID, len(urls))
	var nodes []*core.Node
	for _, url := range urls {
		nodes = append(nodes, core.NewDataChild(node, core.DataTypeURL, []byte(url)))
	}
	return nodes, nil
}

// FindURLs returns the distinct URLs of text in first-occurrence order.
func FindURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := map[string]bool{}
	var urls []string
	for _, url := range matches {
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}
