package core

import (
	"time"

	"github.com/pkg/errors"
)

// Dissector recursively digests a node: assigns identity, classifies, runs
// analyzers and extractors, attaches children and recurses. Instances are
// not safe for concurrent use; the EnginePool guarantees exclusivity.
type Dissector struct {
	registry *Registry
	batch    *BatchProcessor
	root     *Node

	l Logger
}

// NewDissector creates an engine around a sealed registry. batch may be nil
// to disable sibling batching.
func NewDissector(registry *Registry, batch *BatchProcessor, logger Logger) *Dissector {
	if logger == nil {
		logger = NewLogger()
	}
	return &Dissector{registry: registry, batch: batch, l: logger}
}

// Root returns the root node recorded by the first Digest call.
func (d *Dissector) Root() *Node {
	return d.root
}

// Reset drops the per-request state. The pool calls it at release; no
// request state may survive across acquisitions.
func (d *Dissector) Reset() {
	d.root = nil
}

// Digest populates the subtree rooted at node in place. It returns an error
// only for fatal extractor failures, which abort the whole request.
func (d *Dissector) Digest(node *Node) error {
	if d.root == nil && node.Parent == nil {
		d.root = node
	}
	if node.UUID == "" {
		d.identify(node)
	}

	for _, analyzer := range d.registry.Analyzers(node.Flavor) {
		start := time.Now()
		err := analyzer.Analyze(node)
		node.Meta.Numbers["microsecond_"+analyzer.Name()] = time.Since(start).Microseconds()
		if err != nil {
			node.Meta.AppendError(analyzer.Name(), err)
		}
	}

	var children []*Node
	for _, extractor := range d.registry.Extractors(node.Flavor) {
		start := time.Now()
		extracted, err := extractor.Extract(node)
		node.Meta.Numbers["microsecond_"+extractor.Name()] = time.Since(start).Microseconds()
		if err != nil {
			if IsFatal(err) {
				return errors.Wrapf(err, "%s failed", extractor.Name())
			}
			node.Meta.AppendError(extractor.Name(), err)
			continue
		}
		children = append(children, extracted...)
	}
	node.Children = children

	// Children must be classified before sibling batching can group them by
	// flavor, and before any of them is digested (the parent invariant).
	for _, child := range children {
		d.identify(child)
	}
	if d.batch != nil {
		d.batch.Process(children)
	}

	for _, child := range children {
		if child.Expanded() {
			// Batching attached this child's results; only the results
			// themselves are digested.
			for _, grand := range child.Children {
				if err := d.Digest(grand); err != nil {
					return err
				}
			}
			continue
		}
		if err := d.Digest(child); err != nil {
			return err
		}
	}
	return nil
}

// identify assigns uuid and id, computes payload identity and classifies
// the node. After identify the node's flavor, hashes and size are final.
func (d *Dissector) identify(node *Node) {
	node.UUID = NewUUID()
	if node.ID == 0 {
		node.ID = NextID()
	}
	if node.Meta == nil {
		node.Meta = NewMeta()
	}
	switch {
	case node.File != nil:
		file := node.File
		file.MimeType = DetectMime(file.Content)
		file.Extension = FileExtension(file.Name)
		HashFile(file)
		node.Flavor = ClassifyFile(file.MimeType, file.Extension)
	case node.Data != nil:
		DetectEncoding(node.Meta, node.Data.Content)
		node.Flavor = ClassifyData(node.Data.Type)
	}
	if _, exists := node.Meta.Strings["error_message"]; !exists {
		node.Meta.Strings["error_message"] = ""
	}
}
