package filewhisperer

import (
	"time"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/extractors"
)

// Flavor labels what a node's payload is and drives extractor dispatch.
type Flavor = core.Flavor

const (
	// FlavorOther marks payloads nothing is registered for; such nodes are
	// leaves.
	FlavorOther = core.FlavorOther
	// FlavorTextPlain marks plain text payloads.
	FlavorTextPlain = core.FlavorTextPlain
	// FlavorTextHTML marks HTML payloads.
	FlavorTextHTML = core.FlavorTextHTML
	// FlavorImage marks image payloads.
	FlavorImage = core.FlavorImage
	// FlavorCompressedFile marks archive payloads.
	FlavorCompressedFile = core.FlavorCompressedFile
	// FlavorDoc marks legacy Word documents.
	FlavorDoc = core.FlavorDoc
	// FlavorDocx marks OOXML Word documents.
	FlavorDocx = core.FlavorDocx
	// FlavorPDF marks PDF documents.
	FlavorPDF = core.FlavorPDF
	// FlavorEmail marks RFC 822 messages.
	FlavorEmail = core.FlavorEmail
)

// Node is a single item in the dissection tree.
type Node = core.Node

// File is a payload backed by real bytes.
type File = core.File

// Data is a typed fragment produced by an extractor.
type Data = core.Data

// Meta carries a node's three metadata key spaces.
type Meta = core.Meta

// Logger is the logging interface used across the engine.
type Logger = core.Logger

// Analyzer inspects one node and mutates only its metadata.
type Analyzer = core.Analyzer

// Extractor fabricates child nodes out of one node's payload.
type Extractor = core.Extractor

// Registry is the immutable flavor-to-extractors dispatch table.
type Registry = core.Registry

// Dissector is the recursive dissection engine.
type Dissector = core.Dissector

// EnginePool is a bounded pool of reusable Dissector instances.
type EnginePool = core.EnginePool

// BatchProcessor runs same-flavor sibling groups through worker pools.
type BatchProcessor = core.BatchProcessor

// NewLogger returns the default logger, which writes to standard error.
func NewLogger() Logger {
	return core.NewLogger()
}

// NewRoot constructs the root node of a dissection around a file payload.
func NewRoot(file *File, passwords []string, pdfMaxPages, wordMaxPages int) *Node {
	return core.NewRoot(file, passwords, pdfMaxPages, wordMaxPages)
}

// NewRegistry returns an empty registry to assemble a custom extractor set.
func NewRegistry() *Registry {
	return core.NewRegistry()
}

// DefaultRegistry builds the production extractor set.
func DefaultRegistry(logger Logger) *Registry {
	return extractors.DefaultRegistry(logger)
}

// NewDissector creates an engine around a sealed registry. batch may be nil
// to disable sibling batching.
func NewDissector(registry *Registry, batch *BatchProcessor, logger Logger) *Dissector {
	return core.NewDissector(registry, batch, logger)
}

// NewEnginePool creates size engines with factory and an admission timeout.
func NewEnginePool(size int, timeout time.Duration,
	factory func() *Dissector) *EnginePool {
	return core.NewEnginePool(size, timeout, factory)
}
