package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	name string
	err  error
}

func (a *stubAnalyzer) Name() string             { return a.name }
func (a *stubAnalyzer) Analyze(node *Node) error { return a.err }

type stubExtractor struct {
	name    string
	extract func(node *Node) ([]*Node, error)
}

func (e *stubExtractor) Name() string { return e.name }
func (e *stubExtractor) Extract(node *Node) ([]*Node, error) {
	return e.extract(node)
}

func textRoot(content string) *Node {
	return NewRoot(&File{Name: "input.txt", Content: []byte(content)}, nil, 0, 0)
}

func TestDigestIdentifiesRoot(t *testing.T) {
	registry := NewRegistry()
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := textRoot("hello")
	require.NoError(t, engine.Digest(root))

	assert.Same(t, root, engine.Root())
	assert.NotEmpty(t, root.UUID)
	assert.NotZero(t, root.ID)
	assert.Equal(t, FlavorTextPlain, root.Flavor)
	assert.Equal(t, "text/plain", root.File.MimeType)
	assert.Equal(t, "txt", root.File.Extension)
	assert.Equal(t, int64(5), root.File.Size)
	assert.NotEmpty(t, root.File.MD5)
	assert.Contains(t, root.Meta.Strings, "error_message")
	assert.Empty(t, root.Children)
}

func TestDigestKeepsPresetRootID(t *testing.T) {
	registry := NewRegistry()
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := textRoot("hello")
	root.ID = 777
	require.NoError(t, engine.Digest(root))
	assert.Equal(t, int64(777), root.ID)
}

func TestDigestRunsAnalyzersAndRecordsFailures(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterAnalyzer(FlavorTextPlain, &stubAnalyzer{name: "ok"})
	registry.RegisterAnalyzer(FlavorTextPlain,
		&stubAnalyzer{name: "broken", err: errors.New("nope")})
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := textRoot("hello")
	require.NoError(t, engine.Digest(root))

	assert.Contains(t, root.Meta.Numbers, "microsecond_ok")
	assert.Contains(t, root.Meta.Numbers, "microsecond_broken")
	assert.Equal(t, "broken: nope;", root.Meta.Strings["error_message"])
}

func TestDigestAttachesAndRecurses(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterExtractor(FlavorTextPlain, &stubExtractor{
		name: "splitter",
		extract: func(node *Node) ([]*Node, error) {
			if node.Parent != nil {
				return nil, nil
			}
			return []*Node{
				NewDataChild(node, DataTypeText, []byte("first")),
				NewDataChild(node, DataTypeText, []byte("second")),
			}, nil
		},
	})
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := NewRoot(&File{Name: "in.txt", Content: []byte("hello")},
		[]string{"pw"}, 4, 6)
	require.NoError(t, engine.Digest(root))

	require.Len(t, root.Children, 2)
	seen := map[int64]bool{root.ID: true}
	for _, child := range root.Children {
		assert.Same(t, root, child.Parent)
		assert.NotEmpty(t, child.UUID)
		assert.False(t, seen[child.ID])
		seen[child.ID] = true
		assert.Equal(t, FlavorTextPlain, child.Flavor)
		assert.Equal(t, []string{"pw"}, child.Passwords)
		assert.Equal(t, 4, child.PDFMaxPages)
		assert.Equal(t, 6, child.WordMaxPages)
		assert.Contains(t, child.Meta.Strings, "error_message")
	}
	assert.Equal(t, []byte("first"), root.Children[0].Bytes())
	assert.Equal(t, []byte("second"), root.Children[1].Bytes())
	assert.Contains(t, root.Meta.Numbers, "microsecond_splitter")
}

func TestDigestRecoverableExtractorFailure(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterExtractor(FlavorTextPlain, &stubExtractor{
		name: "flaky",
		extract: func(node *Node) ([]*Node, error) {
			return nil, errors.New("transient")
		},
	})
	registry.RegisterExtractor(FlavorTextPlain, &stubExtractor{
		name: "steady",
		extract: func(node *Node) ([]*Node, error) {
			if node.Parent != nil {
				return nil, nil
			}
			return []*Node{NewDataChild(node, DataTypeURL, []byte("https://x"))}, nil
		},
	})
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := textRoot("hello")
	require.NoError(t, engine.Digest(root))

	// The failure is recorded and the remaining extractors still run.
	assert.Equal(t, "flaky: transient;", root.Meta.Strings["error_message"])
	require.Len(t, root.Children, 1)
	assert.Equal(t, DataTypeURL, root.Children[0].Data.Type)
}

func TestDigestFatalExtractorFailure(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterExtractor(FlavorTextPlain, &stubExtractor{
		name: "doomed",
		extract: func(node *Node) ([]*Node, error) {
			return nil, Fatal(errors.New("cannot decrypt"))
		},
	})
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := textRoot("hello")
	err := engine.Digest(root)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "doomed")
	assert.Contains(t, err.Error(), "cannot decrypt")
}

func TestDissectorReset(t *testing.T) {
	registry := NewRegistry()
	registry.Seal()
	engine := NewDissector(registry, nil, nil)
	root := textRoot("hello")
	require.NoError(t, engine.Digest(root))
	engine.Reset()
	assert.Nil(t, engine.Root())
}
