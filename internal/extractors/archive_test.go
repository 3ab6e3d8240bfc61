package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperd/filewhisperer/internal/core"
	"github.com/whisperd/filewhisperer/internal/test"
)

func archiveNode(t *testing.T, name string, content []byte,
	passwords ...string) *core.Node {
	node := core.NewRoot(&core.File{
		Name:      name,
		Extension: core.FileExtension(name),
		Content:   content,
	}, passwords, 0, 0)
	node.Meta = core.NewMeta()
	return node
}

func TestArchiveExtractorZip(t *testing.T) {
	content := test.Zip(
		test.Entry{Name: "a.txt", Content: []byte("hello")},
		test.Entry{Name: "b.txt", Content: []byte("world")},
	)
	node := archiveNode(t, "two.zip", content)
	extractor := NewArchiveExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "a.txt", children[0].File.Path)
	assert.Equal(t, "hello", string(children[0].Bytes()))
	assert.Equal(t, "b.txt", children[1].File.Path)
	assert.Equal(t, "world", string(children[1].Bytes()))
	assert.NotContains(t, node.Meta.Strings, "correct_password")
}

func TestArchiveExtractorEncryptedZip(t *testing.T) {
	content := test.EncryptedZip("abcd",
		test.Entry{Name: "secret.txt", Content: []byte("classified")})
	node := archiveNode(t, "locked.zip", content, "wrong", "abcd")
	extractor := NewArchiveExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "classified", string(children[0].Bytes()))
	assert.Equal(t, "abcd", node.Meta.Strings["correct_password"])
}

func TestArchiveExtractorPasswordExhaustion(t *testing.T) {
	content := test.EncryptedZip("abcd",
		test.Entry{Name: "secret.txt", Content: []byte("classified")})
	node := archiveNode(t, "locked.zip", content, "wrong")
	extractor := NewArchiveExtractor(core.NewLogger())
	_, err := extractor.Extract(node)
	require.Error(t, err)
	assert.True(t, core.IsFatal(err))
}

func TestArchiveExtractorEncryptedNoPasswords(t *testing.T) {
	content := test.EncryptedZip("abcd",
		test.Entry{Name: "secret.txt", Content: []byte("classified")})
	node := archiveNode(t, "locked.zip", content)
	extractor := NewArchiveExtractor(core.NewLogger())
	_, err := extractor.Extract(node)
	require.Error(t, err)
	assert.True(t, core.IsFatal(err))
}

func TestArchiveExtractorTar(t *testing.T) {
	content := test.Tar(
		test.Entry{Name: "dir/a.txt", Content: []byte("hello")},
	)
	node := archiveNode(t, "files.tar", content)
	extractor := NewArchiveExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "dir/a.txt", children[0].File.Path)
	assert.Equal(t, "a.txt", children[0].File.Name)
	assert.Equal(t, "hello", string(children[0].Bytes()))
}

func TestArchiveExtractorGzip(t *testing.T) {
	content := test.Gzip("notes.txt", []byte("compressed words"))
	node := archiveNode(t, "notes.txt.gz", content)
	extractor := NewArchiveExtractor(core.NewLogger())
	children, err := extractor.Extract(node)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "notes.txt", children[0].File.Path)
	assert.Equal(t, "compressed words", string(children[0].Bytes()))
}

func TestArchiveExtractorGarbage(t *testing.T) {
	node := archiveNode(t, "broken.zip", []byte("this is not an archive"))
	extractor := NewArchiveExtractor(core.NewLogger())
	_, err := extractor.Extract(node)
	require.Error(t, err)
	assert.True(t, core.IsFatal(err))
}

func TestArchiveAnalyzerZip(t *testing.T) {
	content := test.Zip(
		test.Entry{Name: "a.txt", Content: []byte("hello")},
		test.Entry{Name: "b.txt", Content: []byte("world")},
	)
	node := archiveNode(t, "two.zip", content)
	analyzer := NewArchiveAnalyzer(core.NewLogger())
	require.NoError(t, analyzer.Analyze(node))
	assert.Equal(t, int64(2), node.Meta.Numbers["items_count"])
	assert.Equal(t, int64(2), node.Meta.Numbers["files_count"])
	assert.Equal(t, int64(0), node.Meta.Numbers["folders_count"])
	assert.Equal(t, int64(10), node.Meta.Numbers["size"])
	assert.Equal(t, int64(1), node.Meta.Numbers["volumes_count"])
	assert.False(t, node.Meta.Booleans["is_multi_volume"])
	assert.False(t, node.Meta.Booleans["is_encrypted"])
}

func TestArchiveAnalyzerEncryptedZip(t *testing.T) {
	content := test.EncryptedZip("abcd",
		test.Entry{Name: "secret.txt", Content: []byte("classified")})
	node := archiveNode(t, "locked.zip", content)
	analyzer := NewArchiveAnalyzer(core.NewLogger())
	require.NoError(t, analyzer.Analyze(node))
	assert.True(t, node.Meta.Booleans["is_encrypted"])
	assert.Equal(t, int64(1), node.Meta.Numbers["files_count"])
}

func TestArchiveAnalyzerTar(t *testing.T) {
	content := test.Tar(test.Entry{Name: "a.txt", Content: []byte("12345")})
	node := archiveNode(t, "one.tar", content)
	analyzer := NewArchiveAnalyzer(core.NewLogger())
	require.NoError(t, analyzer.Analyze(node))
	assert.Equal(t, int64(1), node.Meta.Numbers["files_count"])
	assert.Equal(t, int64(5), node.Meta.Numbers["size"])
}
