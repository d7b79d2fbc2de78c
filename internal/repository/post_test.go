package repository

import (
	"context"
	"testing"
	"time"

	"verdant/internal/docstore"
	"verdant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) docstore.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := docstore.NewGormStore(db)
	require.NoError(t, err)
	return store
}

// newPostRepoAt returns a repository whose clock is pinned to the given time.
func newPostRepoAt(t *testing.T, store docstore.Store, at time.Time) *postRepository {
	t.Helper()
	return &postRepository{store: store, now: func() time.Time { return at }}
}

func TestCreateThenGetByID(t *testing.T) {
	store := newTestStore(t)
	createdAt := time.Date(2025, time.January, 1, 15, 4, 5, 0, time.UTC)
	repo := newPostRepoAt(t, store, createdAt)
	ctx := context.Background()

	created, err := repo.Create(ctx, PostFields{
		Title:       "First light",
		Author:      "Ada",
		Description: "Kickoff post",
		Content:     "Hello\nworld",
		Emoji:       "🌱",
		Tags:        "a, b ,, c",
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Jan 1, 2025", got.Date)
	assert.Equal(t, []string{"a", "b", "c"}, got.Tags)
	assert.Equal(t, "First light", got.Title)
}

func TestUpdateNeverChangesDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	repo := newPostRepoAt(t, store, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	created, err := repo.Create(ctx, PostFields{Title: "Original", Author: "Ada"})
	require.NoError(t, err)

	// Edit weeks later through a repository with an advanced clock.
	later := newPostRepoAt(t, store, time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, later.Update(ctx, created.ID, PostFields{Title: "Edited", Author: "Ada"}))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, "Jan 1, 2025", got.Date, "edits must not overwrite the creation date")
	assert.Equal(t, "2025-03-09T12:00:00Z", got.UpdatedAt)
}

func TestUpdateMissingPost(t *testing.T) {
	repo := NewPostRepository(newTestStore(t))

	err := repo.Update(context.Background(), "post_missing", PostFields{Title: "x"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDeleteThenGetByIDIsNotFound(t *testing.T) {
	repo := NewPostRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, PostFields{Title: "Ephemeral"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code, "a deleted post is not found, not a transport error")
}

func TestListAllSortsByDescendingDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	jan := newPostRepoAt(t, store, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	feb := newPostRepoAt(t, store, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))

	_, err := jan.Create(ctx, PostFields{Title: "January post"})
	require.NoError(t, err)
	_, err = feb.Create(ctx, PostFields{Title: "February post"})
	require.NoError(t, err)

	posts, err := jan.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "February post", posts[0].Title)
	assert.Equal(t, "January post", posts[1].Title)
}

func TestListAllKeepsStoreOrderForEqualDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	repo := newPostRepoAt(t, store, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	first, err := repo.Create(ctx, PostFields{Title: "first"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, PostFields{Title: "second"})
	require.NoError(t, err)

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
}

func TestCreateAcceptsEmptyFields(t *testing.T) {
	// Absent fields are an accepted weakness of the product: the post is
	// stored as-is and renders empty, rather than being rejected.
	repo := NewPostRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, PostFields{})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Author)
	assert.Empty(t, got.Tags)
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	repo := newPostRepoAt(t, newTestStore(t), time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Same pinned clock for every create: the random suffix must still keep
	// ids distinct within a single millisecond.
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := repo.Create(ctx, PostFields{Title: "burst"})
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}
