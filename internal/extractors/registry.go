// Package extractors contains the per-flavor extractor set of the dissection
// engine: given one node, an extractor fabricates zero or more child nodes
// and may publish facts into the node's metadata. The underlying codecs
// (archive decoders, PDF parser, OCR engine, barcode reader) are external
// libraries; this package owns the node-level contracts around them.
package extractors

import (
	"github.com/whisperd/filewhisperer/internal/core"
)

// DefaultRegistry builds the production flavor registry: the ordered
// analyzers and extractors applied to every flavor. The registry is sealed;
// alternate sets (e.g. a different OCR engine) are assembled by callers and
// injected into the engine, never patched in afterwards.
func DefaultRegistry(logger core.Logger) *core.Registry {
	if logger == nil {
		logger = core.NewLogger()
	}
	registry := core.NewRegistry()
	registry.RegisterExtractor(core.FlavorTextPlain, NewURLExtractor(logger))
	registry.RegisterExtractor(core.FlavorTextHTML, NewHTMLExtractor(logger))
	registry.RegisterAnalyzer(core.FlavorCompressedFile, NewArchiveAnalyzer(logger))
	registry.RegisterExtractor(core.FlavorCompressedFile, NewArchiveExtractor(logger))
	registry.RegisterExtractor(core.FlavorImage, NewQRCodeExtractor(logger))
	registry.RegisterExtractor(core.FlavorImage, NewOCRExtractor(logger))
	registry.RegisterExtractor(core.FlavorDoc, NewWordExtractor(logger))
	registry.RegisterExtractor(core.FlavorDocx, NewWordExtractor(logger))
	registry.RegisterExtractor(core.FlavorPDF, NewPDFExtractor(logger))
	registry.RegisterExtractor(core.FlavorEmail, NewEmailExtractor(logger))
	return registry.Seal()
}
