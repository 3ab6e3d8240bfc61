package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/extractors"
	"github.com/whisperd/filewhisperer/internal/pb"
)

func newTestService(t *testing.T) *WhisperService {
	t.Setenv(core.EnvOutputDir, t.TempDir())
	serializer, err := NewReplySerializer(nil)
	require.NoError(t, err)

	registry := extractors.DefaultRegistry(nil)
	engines := core.NewEnginePool(1, time.Second, func() *core.Dissector {
		return core.NewDissector(registry, nil, nil)
	})
	service := NewWhisperService(engines, serializer, nil)
	t.Cleanup(service.Close)
	return service
}

func TestWhisperingRejectsEmptyRequest(t *testing.T) {
	service := newTestService(t)
	_, err := service.Whispering(context.Background(), &pb.WhisperRequest{})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestWhisperingRejectsBothSources(t *testing.T) {
	service := newTestService(t)
	_, err := service.Whispering(context.Background(), &pb.WhisperRequest{
		FilePath:    "/tmp/whatever",
		FileContent: []byte("bytes"),
	})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestWhisperingInlineContent(t *testing.T) {
	service := newTestService(t)
	reply, err := service.Whispering(context.Background(), &pb.WhisperRequest{
		FileContent: []byte("visit https://a.test and http://b.test/x"),
	})
	require.NoError(t, err)
	require.Len(t, reply.Tree, 3)

	root := reply.Tree[0]
	require.NotNil(t, root.File)
	assert.Equal(t, memoryFilePath, root.File.Name)
	assert.NotEmpty(t, root.File.Path)
	assert.NotEmpty(t, root.File.Md5)
	assert.Equal(t, "text/plain", root.File.MimeType)
	require.Len(t, root.Children, 2)

	urls := []string{
		string(reply.Tree[1].Data.Content),
		string(reply.Tree[2].Data.Content),
	}
	assert.Equal(t, []string{"https://a.test", "http://b.test/x"}, urls)
	for _, wire := range reply.Tree[1:] {
		assert.Equal(t, core.DataTypeURL, wire.Data.Type)
		assert.Equal(t, root.Id, wire.ParentId)
	}
}

func TestWhisperingFilePath(t *testing.T) {
	service := newTestService(t)
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain words"), 0644))

	reply, err := service.Whispering(context.Background(), &pb.WhisperRequest{
		FilePath: path,
	})
	require.NoError(t, err)
	require.NotEmpty(t, reply.Tree)
	root := reply.Tree[0]
	require.NotNil(t, root.File)
	assert.Equal(t, "input.txt", root.File.Name)
	assert.Equal(t, int64(len("plain words")), root.File.Size)
}

func TestWhisperingEmptyContent(t *testing.T) {
	service := newTestService(t)
	reply, err := service.Whispering(context.Background(), &pb.WhisperRequest{
		FileContent: []byte{},
	})
	require.NoError(t, err)
	require.Len(t, reply.Tree, 1)
	root := reply.Tree[0]
	require.NotNil(t, root.File)
	assert.Equal(t, int64(0), root.File.Size)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", root.File.Md5)
	assert.Empty(t, root.Children)
}

func TestWhisperingRootID(t *testing.T) {
	service := newTestService(t)
	rootID := int64(424242)
	reply, err := service.Whispering(context.Background(), &pb.WhisperRequest{
		FileContent: []byte("nothing interesting"),
		RootId:      &rootID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, reply.Tree)
	assert.Equal(t, rootID, reply.Tree[0].Id)
}

func TestWhisperingMissingFile(t *testing.T) {
	service := newTestService(t)
	_, err := service.Whispering(context.Background(), &pb.WhisperRequest{
		FilePath: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}
