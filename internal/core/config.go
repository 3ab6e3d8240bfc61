package core

import (
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Environment variable names forming the configuration surface.
const (
	// EnvOutputDir is the required directory into which file payload bytes
	// are written, keyed by node UUID.
	EnvOutputDir = "FILE_WHISPERER_OUTPUT_DIR"
	// EnvDebugBackupDir optionally mirrors every incoming file before
	// processing, with a timestamp-prefixed filename.
	EnvDebugBackupDir = "FILE_WHISPERER_DEBUG_BACKUP_DIR"
	// EnvGRPCMaxWorkers sizes the RPC worker pool.
	EnvGRPCMaxWorkers = "GRPC_MAX_WORKERS"
	// EnvTreePoolSize sizes the engine pool.
	EnvTreePoolSize = "TREE_POOL_SIZE"
	// EnvTreePoolAcquireTimeout is the seconds to wait for a free engine.
	EnvTreePoolAcquireTimeout = "TREE_POOL_ACQUIRE_TIMEOUT"
)

// DefaultAcquireTimeout bounds EnginePool.Acquire when the environment does
// not override it.
const DefaultAcquireTimeout = 3 * time.Second

// ScaleWorkers interprets a worker-count setting relative to the CPU count:
// a negative value multiplies the CPU count by its magnitude, a fraction in
// (0, 1) multiplies the CPU count, a value >= 1 is the exact count and zero
// collapses to one. The result is never below one.
func ScaleWorkers(value float64) int {
	cpus := float64(runtime.NumCPU())
	var workers float64
	switch {
	case value < 0:
		workers = cpus * math.Abs(value)
	case value == 0:
		workers = 1
	case value < 1:
		workers = cpus * value
	default:
		workers = value
	}
	if workers < 1 {
		workers = 1
	}
	return int(workers)
}

// WorkersFromEnv reads a worker-count environment variable and applies the
// ScaleWorkers interpretation, falling back to def when unset or malformed.
func WorkersFromEnv(name string, def int, logger Logger) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if logger != nil {
			logger.Warnf("invalid value %q for %s, using default %d", raw, name, def)
		}
		return def
	}
	return ScaleWorkers(value)
}

// AcquireTimeoutFromEnv reads TREE_POOL_ACQUIRE_TIMEOUT in seconds.
func AcquireTimeoutFromEnv(logger Logger) time.Duration {
	raw := os.Getenv(EnvTreePoolAcquireTimeout)
	if raw == "" {
		return DefaultAcquireTimeout
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds <= 0 {
		if logger != nil {
			logger.Warnf("invalid value %q for %s, using default %s",
				raw, EnvTreePoolAcquireTimeout, DefaultAcquireTimeout)
		}
		return DefaultAcquireTimeout
	}
	return time.Duration(seconds * float64(time.Second))
}

// BatchKind names one heavy processing pool.
type BatchKind string

// The batch pool kinds accepted by the configuration surface. Only ocr,
// word and pdf are wired to sibling batching today; html and archive are
// accepted for forward compatibility.
const (
	BatchOCR     BatchKind = "ocr"
	BatchWord    BatchKind = "word"
	BatchPDF     BatchKind = "pdf"
	BatchHTML    BatchKind = "html"
	BatchArchive BatchKind = "archive"
)

// KindConfig is the per-pool slice of the batch configuration.
type KindConfig struct {
	Enabled bool
	Workers int
}

// BatchConfig enumerates every batch pool with its enablement and size.
type BatchConfig struct {
	Kinds map[BatchKind]KindConfig
}

var batchDefaults = map[BatchKind]KindConfig{
	BatchOCR:     {Enabled: true, Workers: 2},
	BatchWord:    {Enabled: false, Workers: 1},
	BatchPDF:     {Enabled: false, Workers: 1},
	BatchHTML:    {Enabled: false, Workers: 1},
	BatchArchive: {Enabled: false, Workers: 1},
}

// LoadBatchConfig reads FILEWHISPERER_<KIND>_POOL_ENABLED and
// FILEWHISPERER_<KIND>_POOL_WORKERS for every pool kind.
func LoadBatchConfig(logger Logger) BatchConfig {
	config := BatchConfig{Kinds: map[BatchKind]KindConfig{}}
	for kind, defaults := range batchDefaults {
		upper := strings.ToUpper(string(kind))
		kc := defaults
		if raw := os.Getenv("FILEWHISPERER_" + upper + "_POOL_ENABLED"); raw != "" {
			kc.Enabled = strings.EqualFold(raw, "true")
		}
		if raw := os.Getenv("FILEWHISPERER_" + upper + "_POOL_WORKERS"); raw != "" {
			workers, err := strconv.Atoi(raw)
			if err != nil || workers < 1 {
				if logger != nil {
					logger.Warnf("invalid workers count %q for %s pool, using default %d",
						raw, kind, defaults.Workers)
				}
			} else {
				kc.Workers = workers
			}
		}
		config.Kinds[kind] = kc
		if kc.Enabled && logger != nil {
			logger.Infof("batch pool %q enabled with %d workers", kind, kc.Workers)
		}
	}
	return config
}
