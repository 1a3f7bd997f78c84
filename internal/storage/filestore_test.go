package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore_SaveOpenRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.Save("doc.pdf", strings.NewReader("contents")))
	assert.True(t, store.Exists("doc.pdf"))

	f, err := store.Open("doc.pdf")
	assert.NoError(t, err)
	data, _ := io.ReadAll(f)
	f.Close()
	assert.Equal(t, "contents", string(data))

	assert.NoError(t, store.Remove("doc.pdf"))
	assert.False(t, store.Exists("doc.pdf"))
}

func TestFileStore_SaveReplacesExisting(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.Save("avatar.png", strings.NewReader("old")))
	assert.NoError(t, store.Save("avatar.png", strings.NewReader("new")))

	f, err := store.Open("avatar.png")
	assert.NoError(t, err)
	data, _ := io.ReadAll(f)
	f.Close()
	assert.Equal(t, "new", string(data))
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	assert.Error(t, store.Save("../escape.txt", strings.NewReader("x")))
	_, err = store.Open("a/b.txt")
	assert.Error(t, err)
	assert.False(t, store.Exists(""))
}

func TestFileStore_RemoveMissingIsNoError(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)
	assert.NoError(t, store.Remove("never-there.bin"))
}
