package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootDefaults(t *testing.T) {
	root := NewRoot(&File{Name: "a.txt"}, nil, 0, 0)
	assert.Equal(t, DefaultPDFMaxPages, root.PDFMaxPages)
	assert.Equal(t, DefaultWordMaxPages, root.WordMaxPages)
	assert.Nil(t, root.Parent)
}

func TestNewRootExplicitLimits(t *testing.T) {
	root := NewRoot(&File{}, []string{"secret"}, 2, 5)
	assert.Equal(t, 2, root.PDFMaxPages)
	assert.Equal(t, 5, root.WordMaxPages)
	assert.Equal(t, []string{"secret"}, root.Passwords)
}

func TestChildrenInheritLimits(t *testing.T) {
	root := NewRoot(&File{}, []string{"a", "b"}, 3, 7)
	fileChild := NewFileChild(root, &File{Name: "inner.bin"})
	dataChild := NewDataChild(root, DataTypeText, []byte("x"))
	for _, child := range []*Node{fileChild, dataChild} {
		assert.Equal(t, root.Passwords, child.Passwords)
		assert.Equal(t, 3, child.PDFMaxPages)
		assert.Equal(t, 7, child.WordMaxPages)
		assert.Equal(t, root, child.Parent)
		assert.Equal(t, int64(0), child.ID)
	}
}

func TestNodeBytes(t *testing.T) {
	file := &Node{File: &File{Content: []byte("file")}}
	data := &Node{Data: &Data{Content: []byte("data")}}
	assert.Equal(t, []byte("file"), file.Bytes())
	assert.Equal(t, []byte("data"), data.Bytes())
	assert.Nil(t, (&Node{}).Bytes())
	assert.True(t, file.IsFile())
	assert.False(t, data.IsFile())
}

func TestMetaAppendError(t *testing.T) {
	meta := NewMeta()
	meta.AppendError("first", assert.AnError)
	meta.AppendError("second", assert.AnError)
	assert.Equal(t,
		"first: "+assert.AnError.Error()+";second: "+assert.AnError.Error()+";",
		meta.Strings["error_message"])
}

func TestMarkExpanded(t *testing.T) {
	node := &Node{}
	assert.False(t, node.Expanded())
	node.MarkExpanded()
	assert.True(t, node.Expanded())
}
