package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tempchat/model"
	"tempchat/provider/testutil"
	"tempchat/storage"
)

func newTestComposer(t *testing.T) (*Composer, *storage.PreviewStore, *testutil.RecordingNotifier) {
	t.Helper()

	store, err := storage.NewPreviewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	notifier := &testutil.RecordingNotifier{}
	c := NewComposer(store, notifier, zap.NewNop(), nil)
	return &c, store, notifier
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, testutil.TestPNG(4, 3), 0o600))
	return path
}

func TestComposerSelectImage(t *testing.T) {
	c, store, notifier := newTestComposer(t)

	require.True(t, c.SelectImage(writeImage(t, "cat.png")))

	att := c.Attachment()
	require.NotNil(t, att)
	assert.Equal(t, "cat.png", att.Name)
	assert.Equal(t, 4, att.Width)
	assert.True(t, store.Has(c.Preview()))
	assert.Equal(t, 1, store.Live())
	assert.Empty(t, notifier.Notifications())
	assert.True(t, c.CanSubmit())
}

func TestComposerReplaceReleasesPrevious(t *testing.T) {
	c, store, _ := newTestComposer(t)

	require.True(t, c.SelectImage(writeImage(t, "first.png")))
	first := c.Preview()

	require.True(t, c.SelectImage(writeImage(t, "second.png")))

	assert.Equal(t, "second.png", c.Attachment().Name)
	assert.False(t, store.Has(first))
	assert.Equal(t, 1, store.Live())
}

func TestComposerRejectsKeepPriorAttachment(t *testing.T) {
	c, store, notifier := newTestComposer(t)
	require.True(t, c.SelectImage(writeImage(t, "keep.png")))
	kept := c.Preview()

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

		assert.False(t, c.SelectImage(path))
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "huge.png")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, f.Truncate(model.MaxImageBytes+1))
		require.NoError(t, f.Close())

		assert.False(t, c.SelectImage(path))
	})

	seen := notifier.Notifications()
	require.Len(t, seen, 2)
	assert.Equal(t, "Invalid file type", seen[0].Title)
	assert.Equal(t, "Please select an image file", seen[0].Description)
	assert.Equal(t, "File too large", seen[1].Title)
	for _, n := range seen {
		assert.Equal(t, model.VariantDestructive, n.Variant)
	}

	assert.Equal(t, "keep.png", c.Attachment().Name)
	assert.Equal(t, kept, c.Preview())
	assert.Equal(t, 1, store.Live())
}

func TestComposerRemoveAttachment(t *testing.T) {
	c, store, _ := newTestComposer(t)
	require.True(t, c.SelectImage(writeImage(t, "cat.png")))

	c.RemoveAttachment()

	assert.Nil(t, c.Attachment())
	assert.True(t, c.Preview().IsZero())
	assert.Equal(t, 0, store.Live())
	assert.False(t, c.CanSubmit())
}

func TestComposerTakeHandsOffPreview(t *testing.T) {
	c, store, _ := newTestComposer(t)
	c.textarea.SetValue("what is this?")
	require.True(t, c.SelectImage(writeImage(t, "cat.png")))

	text, att, preview := c.Take()

	assert.Equal(t, "what is this?", text)
	require.NotNil(t, att)
	assert.True(t, store.Has(preview), "handed-off preview stays alive")
	assert.Equal(t, 1, store.Live())

	assert.Empty(t, c.Value())
	assert.Nil(t, c.Attachment())
	assert.True(t, c.Preview().IsZero())
	assert.False(t, c.CanSubmit())
}

func TestComposerCanSubmit(t *testing.T) {
	c, _, _ := newTestComposer(t)

	assert.False(t, c.CanSubmit())

	c.textarea.SetValue("   \n  ")
	assert.False(t, c.CanSubmit(), "whitespace only")

	c.textarea.SetValue(" hi ")
	assert.True(t, c.CanSubmit())

	c.ClearText()
	assert.False(t, c.CanSubmit())
}

func TestComposerWithoutStore(t *testing.T) {
	c := NewComposer(nil, nil, nil, nil)

	require.True(t, c.SelectImage(writeImage(t, "cat.png")))
	assert.True(t, c.Preview().IsZero())

	c.RemoveAttachment()
	assert.Nil(t, c.Attachment())
}
