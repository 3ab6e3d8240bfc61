package core

// Analyzer inspects a node and mutates its Meta only. Analyzers never
// produce children and their failures never abort a request.
type Analyzer interface {
	// Name identifies the analyzer in timing and error meta keys.
	Name() string
	// Analyze publishes facts about the node into node.Meta.
	Analyze(node *Node) error
}

// Extractor derives child nodes from a node. Side effects are limited to the
// input node's Meta. A returned error is recoverable unless wrapped with
// Fatal; fatal errors abort the whole request.
type Extractor interface {
	// Name identifies the extractor in timing and error meta keys.
	Name() string
	// Extract returns the fabricated children in emission order. Every child
	// must reference node as its parent, inherit the request limits and
	// carry a zero ID.
	Extract(node *Node) ([]*Node, error)
}

// Registry is the immutable per-engine mapping from a Flavor to the ordered
// analyzers and extractors which apply to it. It is built once at engine
// construction; per-instance overrides happen through constructor injection,
// never through globals.
type Registry struct {
	analyzers  map[Flavor][]Analyzer
	extractors map[Flavor][]Extractor
	sealed     bool
}

// NewRegistry returns an empty registry ready for registration.
func NewRegistry() *Registry {
	return &Registry{
		analyzers:  map[Flavor][]Analyzer{},
		extractors: map[Flavor][]Extractor{},
	}
}

// RegisterAnalyzer appends an analyzer to the flavor's ordered list.
func (registry *Registry) RegisterAnalyzer(flavor Flavor, analyzer Analyzer) {
	if registry.sealed {
		panic("registering an analyzer in a sealed registry")
	}
	registry.analyzers[flavor] = append(registry.analyzers[flavor], analyzer)
}

// RegisterExtractor appends an extractor to the flavor's ordered list.
// Extractors run in registration order; their outputs are concatenated.
func (registry *Registry) RegisterExtractor(flavor Flavor, extractor Extractor) {
	if registry.sealed {
		panic("registering an extractor in a sealed registry")
	}
	registry.extractors[flavor] = append(registry.extractors[flavor], extractor)
}

// Seal freezes the registry. Engines only accept sealed registries.
func (registry *Registry) Seal() *Registry {
	registry.sealed = true
	return registry
}

// Analyzers returns the ordered analyzers registered for the flavor.
func (registry *Registry) Analyzers(flavor Flavor) []Analyzer {
	return registry.analyzers[flavor]
}

// Extractors returns the ordered extractors registered for the flavor.
func (registry *Registry) Extractors(flavor Flavor) []Extractor {
	return registry.extractors[flavor]
}
