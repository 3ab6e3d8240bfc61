package core

import (
	"sync"
	"time"

	"github.com/Jeffail/tunny"
)

// BatchTask is the payload submitted to a batch worker. Only the bytes and
// the inherited page limits cross the pool boundary; nodes never do.
type BatchTask struct {
	Content      []byte
	PDFMaxPages  int
	WordMaxPages int
}

// BatchResult is what a batch worker returns for one task.
type BatchResult struct {
	Text     string
	Strings  map[string]string
	Numbers  map[string]int64
	Booleans map[string]bool
	Err      error
}

// WorkerFactory creates one batch worker. Each worker owns its heavy engine
// and initializes it exactly once; the pool guarantees a worker-held engine
// has exclusive access for the duration of a task.
type WorkerFactory func() tunny.Worker

// Deadlines for collecting a batch, per pool kind.
var batchDeadlines = map[BatchKind]time.Duration{
	BatchOCR:  120 * time.Second,
	BatchWord: 300 * time.Second,
	BatchPDF:  300 * time.Second,
}

var flavorKinds = map[Flavor]BatchKind{
	FlavorImage: BatchOCR,
	FlavorDoc:   BatchWord,
	FlavorDocx:  BatchWord,
	FlavorPDF:   BatchPDF,
}

var kindDataTypes = map[BatchKind]string{
	BatchOCR:  DataTypeOCR,
	BatchWord: DataTypeText,
	BatchPDF:  DataTypeText,
}

// BatchProcessor groups same-flavor siblings and runs them through
// process-level worker pools. Pools are shared across engine instances;
// result nodes are fabricated on the calling side so that IDs stay
// allocated by the main dissector.
type BatchProcessor struct {
	pools map[BatchKind]*tunny.Pool

	l Logger
}

// NewBatchProcessor builds the enabled pools out of config, using the
// factory registered for each kind. Kinds without a factory stay disabled.
func NewBatchProcessor(config BatchConfig, factories map[BatchKind]WorkerFactory,
	logger Logger) *BatchProcessor {
	if logger == nil {
		logger = NewLogger()
	}
	bp := &BatchProcessor{pools: map[BatchKind]*tunny.Pool{}, l: logger}
	for kind, kc := range config.Kinds {
		if !kc.Enabled {
			continue
		}
		factory, exists := factories[kind]
		if !exists {
			continue
		}
		bp.pools[kind] = tunny.New(kc.Workers, factory)
	}
	return bp
}

// Enabled reports whether the kind has a running pool.
func (bp *BatchProcessor) Enabled(kind BatchKind) bool {
	_, exists := bp.pools[kind]
	return exists
}

// Close shuts every pool down gracefully.
func (bp *BatchProcessor) Close() {
	for _, pool := range bp.pools {
		pool.Close()
	}
}

// Process partitions the just-classified children by flavor and submits
// every group of two or more to the flavor's pool. Siblings of different
// flavors never share a group even when their flavors map to the same pool
// kind. Successful children are marked expanded with their result nodes
// attached; failed or timed-out children fall through to the regular
// per-child digest. Ordering inside a batch is unspecified, the result maps
// back to its owning child by identity.
func (bp *BatchProcessor) Process(children []*Node) {
	groups := map[Flavor][]*Node{}
	for _, child := range children {
		kind, eligible := flavorKinds[child.Flavor]
		if !eligible || !bp.Enabled(kind) {
			continue
		}
		groups[child.Flavor] = append(groups[child.Flavor], child)
	}
	for flavor, group := range groups {
		if len(group) < 2 {
			continue
		}
		bp.processGroup(flavorKinds[flavor], group)
	}
}

func (bp *BatchProcessor) processGroup(kind BatchKind, group []*Node) {
	pool := bp.pools[kind]
	deadline := batchDeadlines[kind]
	start := time.Now()
	bp.l.Infof("submitting %d %s tasks to the batch pool", len(group), kind)

	completed := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, node := range group {
		wg.Add(1)
		go func(node *Node) {
			defer wg.Done()
			payload, err := pool.ProcessTimed(BatchTask{
				Content:      node.Bytes(),
				PDFMaxPages:  node.PDFMaxPages,
				WordMaxPages: node.WordMaxPages,
			}, deadline)
			if err != nil {
				bp.l.Warnf("%s batch task for node %d failed: %v", kind, node.ID, err)
				return
			}
			result, ok := payload.(BatchResult)
			if !ok || result.Err != nil {
				bp.l.Warnf("%s batch task for node %d failed: %v", kind, node.ID, result.Err)
				return
			}
			bp.attach(kind, node, result)
			mu.Lock()
			completed++
			mu.Unlock()
		}(node)
	}
	wg.Wait()
	bp.l.Infof("batch %s processing completed: %d/%d successful in %s",
		kind, completed, len(group), time.Since(start))
}

// attach fabricates the same result nodes the in-process extractor would
// have emitted and appends them to the owning child. The child is marked
// expanded so that the per-child digest skips it.
func (bp *BatchProcessor) attach(kind BatchKind, node *Node, result BatchResult) {
	node.MarkExpanded()
	if result.Text == "" {
		return
	}
	child := NewDataChild(node, kindDataTypes[kind], []byte(result.Text))
	child.Meta = NewMeta()
	for key, value := range result.Strings {
		child.Meta.Strings[key] = value
	}
	for key, value := range result.Numbers {
		child.Meta.Numbers[key] = value
	}
	for key, value := range result.Booleans {
		child.Meta.Booleans[key] = value
	}
	node.Children = append(node.Children, child)
}
