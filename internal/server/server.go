// Package server hosts the dissection engine behind the Whispering RPC: it
// validates requests, admits them through a bounded worker pool, borrows an
// engine from the pool for the duration of one dissection and serializes
// the resulting tree.
package server

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Jeffail/tunny"
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/pb"
)

// MaxMessageSize is advertised in both directions.
const MaxMessageSize = 50 * 1024 * 1024

// memoryFilePath names the root of requests that inline their bytes.
const memoryFilePath = "memory_file"

// WhisperService implements pb.WhisperServer on top of an EnginePool.
type WhisperService struct {
	engines    *core.EnginePool
	serializer *ReplySerializer
	workers    *tunny.Pool
	backupDir  string

	l core.Logger
}

type whisperOutcome struct {
	reply *pb.WhisperReply
	err   error
}

// NewWhisperService assembles the service around the engine pool and the
// serializer. The admission pool is sized by GRPC_MAX_WORKERS with the CPU
// count as the default.
func NewWhisperService(engines *core.EnginePool, serializer *ReplySerializer,
	logger core.Logger) *WhisperService {
	if logger == nil {
		logger = core.NewLogger()
	}
	service := &WhisperService{
		engines:    engines,
		serializer: serializer,
		backupDir:  os.Getenv(core.EnvDebugBackupDir),
		l:          logger,
	}
	workers := core.WorkersFromEnv(core.EnvGRPCMaxWorkers, runtime.NumCPU(), logger)
	service.workers = tunny.NewFunc(workers, func(payload interface{}) interface{} {
		reply, err := service.process(payload.(*pb.WhisperRequest))
		return whisperOutcome{reply: reply, err: err}
	})
	logger.Infof("request admission pool sized to %d workers", workers)
	return service
}

// Close shuts the admission pool down.
func (s *WhisperService) Close() {
	s.workers.Close()
}

// Whispering dissects one file and returns its tree.
func (s *WhisperService) Whispering(ctx context.Context,
	request *pb.WhisperRequest) (*pb.WhisperReply, error) {
	hasPath := request.GetFilePath() != ""
	// A non-nil empty slice is an explicitly-set empty file; the oneof on
	// the wire preserves that presence.
	hasContent := request.GetFileContent() != nil
	if hasPath == hasContent {
		return nil, status.Error(codes.InvalidArgument,
			"exactly one of file_path and file_content must be set")
	}

	payload, err := s.workers.ProcessCtx(ctx, request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	outcome := payload.(whisperOutcome)
	if outcome.err != nil {
		s.l.Errorf("request failed: %v", outcome.err)
		return nil, status.Error(codes.Internal, outcome.err.Error())
	}
	return outcome.reply, nil
}

func (s *WhisperService) process(request *pb.WhisperRequest) (*pb.WhisperReply, error) {
	file, err := s.loadSource(request)
	if err != nil {
		return nil, err
	}
	s.mirror(file.Name, file.Content)

	root := core.NewRoot(file, request.GetPasswords(),
		int(request.GetPdfMaxPages()), int(request.GetWordMaxPages()))
	if request.RootId != nil {
		// The caller owns this id namespace; the value is used verbatim.
		root.ID = request.GetRootId()
	}

	engine, err := s.engines.Acquire()
	if err != nil {
		return nil, err
	}
	defer s.engines.Release(engine)

	if err := engine.Digest(root); err != nil {
		return nil, err
	}
	return s.serializer.Serialize(root)
}

// loadSource materializes the request's file: a memory-mapped read for path
// requests, the inline bytes otherwise.
func (s *WhisperService) loadSource(request *pb.WhisperRequest) (*core.File, error) {
	if path := request.GetFilePath(); path != "" {
		reader, err := mmap.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot map %s", path)
		}
		defer reader.Close()
		content := make([]byte, reader.Len())
		if len(content) > 0 {
			if _, err := reader.ReadAt(content, 0); err != nil && err != io.EOF {
				return nil, errors.Wrapf(err, "cannot read %s", path)
			}
		}
		return &core.File{
			Path:    path,
			Name:    filepath.Base(path),
			Content: content,
		}, nil
	}
	return &core.File{
		Path:    memoryFilePath,
		Name:    memoryFilePath,
		Content: request.GetFileContent(),
	}, nil
}

// mirror backs the incoming payload up with a timestamp-prefixed name. It is
// a debugging aid; failures are logged and ignored.
func (s *WhisperService) mirror(name string, content []byte) {
	if s.backupDir == "" {
		return
	}
	stamp := time.Now().Format("20060102_150405.000000000")
	target := filepath.Join(s.backupDir, stamp+"_"+name)
	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		s.l.Warnf("cannot create the backup directory: %v", err)
		return
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		s.l.Warnf("cannot mirror %s: %v", name, err)
	}
}

// NewGRPCServer builds the gRPC server with the advertised message limits
// and the service registered.
func NewGRPCServer(service *WhisperService) *grpc.Server {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(MaxMessageSize),
		grpc.MaxSendMsgSize(MaxMessageSize),
	)
	pb.RegisterWhisperServer(srv, service)
	return srv
}
