package covers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCovers_SaveCover(t *testing.T) {
	store, err := NewCovers(t.TempDir())
	assert.NoError(t, err)

	t.Run("writes the file", func(t *testing.T) {
		err := store.SaveCover([]byte("img"), "a.jpg")

		assert.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(store.folderPath, "a.jpg"))
		assert.NoError(t, err)
		assert.Equal(t, []byte("img"), data)
	})

	t.Run("rejects duplicate filename", func(t *testing.T) {
		assert.NoError(t, store.SaveCover([]byte("img"), "b.jpg"))
		assert.ErrorIs(t, store.SaveCover([]byte("img"), "b.jpg"), ErrFileExists)
	})

	t.Run("rejects empty image", func(t *testing.T) {
		assert.ErrorIs(t, store.SaveCover(nil, "c.jpg"), ErrInvalidImage)
	})

	t.Run("rejects empty filename", func(t *testing.T) {
		assert.ErrorIs(t, store.SaveCover([]byte("img"), ""), ErrInvalidFileName)
	})
}

func TestCovers_DeleteCover(t *testing.T) {
	store, err := NewCovers(t.TempDir())
	assert.NoError(t, err)

	t.Run("deletes an existing file", func(t *testing.T) {
		assert.NoError(t, store.SaveCover([]byte("img"), "a.jpg"))
		assert.NoError(t, store.DeleteCover("a.jpg"))
		assert.ErrorIs(t, store.DeleteCover("a.jpg"), ErrFileNotExists)
	})

	t.Run("rejects empty filename", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteCover(""), ErrInvalidFileName)
	})
}
