package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := NewGormStore(db)
	require.NoError(t, err)
	return store
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "posts", "post_1", map[string]any{"title": "Hello", "tags": []any{"a"}})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "posts", "post_1")
	require.NoError(t, err)
	assert.Equal(t, "post_1", doc.ID)
	assert.Equal(t, "Hello", doc.Data["title"])
}

func TestSetReplacesWholeDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "settings", "stats", map[string]any{"peopleHelped": 10, "stale": true}))
	require.NoError(t, store.Set(ctx, "settings", "stats", map[string]any{"peopleHelped": 20}))

	doc, err := store.Get(ctx, "settings", "stats")
	require.NoError(t, err)
	assert.NotContains(t, doc.Data, "stale", "Set must replace, not merge")
	assert.EqualValues(t, 20, doc.Data["peopleHelped"])
}

func TestUpdateMerges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "posts", "post_1", map[string]any{"title": "Old", "date": "Jan 1, 2025"}))
	require.NoError(t, store.Update(ctx, "posts", "post_1", map[string]any{"title": "New"}))

	doc, err := store.Get(ctx, "posts", "post_1")
	require.NoError(t, err)
	assert.Equal(t, "New", doc.Data["title"])
	assert.Equal(t, "Jan 1, 2025", doc.Data["date"], "untouched keys survive a merge")
}

func TestUpdateMissingDocument(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), "posts", "missing", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "posts", "post_1", map[string]any{"title": "Hello"}))
	require.NoError(t, store.Delete(ctx, "posts", "post_1"))

	_, err := store.Get(ctx, "posts", "post_1")
	assert.ErrorIs(t, err, ErrNotFound, "a deleted document is not found, not a transport error")

	// Deleting again is a no-op, not an error.
	assert.NoError(t, store.Delete(ctx, "posts", "post_1"))
}

func TestListReturnsAllDocumentsWithIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "posts", "post_1", map[string]any{"title": "first"}))
	require.NoError(t, store.Set(ctx, "posts", "post_2", map[string]any{"title": "second"}))
	require.NoError(t, store.Set(ctx, "settings", "stats", map[string]any{"peopleHelped": 1}))

	docs, err := store.List(ctx, "posts")
	require.NoError(t, err)
	require.Len(t, docs, 2, "other collections must not leak in")
	assert.Equal(t, "post_1", docs[0].ID)
	assert.Equal(t, "post_2", docs[1].ID)
}
