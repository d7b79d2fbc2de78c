// Package repository translates between application actions and document
// store calls. It is the only write path into the store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"verdant/internal/cache"
	"verdant/internal/docstore"
	"verdant/internal/middleware"
	"verdant/internal/models"

	"github.com/google/uuid"
)

const postsCollection = "posts"

// PostFields is the raw form payload for a post. Tags arrive as the
// operator typed them: one comma-separated string.
type PostFields struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Emoji       string `json:"emoji"`
	Tags        string `json:"tags"`
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	ListAll(ctx context.Context) ([]*models.Post, error)
	Create(ctx context.Context, fields PostFields) (*models.Post, error)
	Update(ctx context.Context, id string, fields PostFields) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
}

type postRepository struct {
	store docstore.Store
	now   func() time.Time
}

// NewPostRepository creates a new post repository backed by the given store.
func NewPostRepository(store docstore.Store) PostRepository {
	return &postRepository{store: store, now: time.Now}
}

// newPostID generates a collection-unique id. The millisecond prefix keeps
// ids roughly sortable by creation; the random suffix removes the collision
// window of a purely timestamp-based key.
func newPostID(now time.Time) string {
	return fmt.Sprintf("post_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func (r *postRepository) ListAll(ctx context.Context) ([]*models.Post, error) {
	middleware.DocstoreOps.WithLabelValues(postsCollection, "list").Inc()

	var posts []*models.Post
	err := cache.Aside(ctx, cache.PostsListKey(), &posts, cache.PostsListTTL, func() error {
		docs, err := r.store.List(ctx, postsCollection)
		if err != nil {
			return err
		}
		posts = make([]*models.Post, 0, len(docs))
		for _, doc := range docs {
			p, err := postFromDocument(doc)
			if err != nil {
				return err
			}
			posts = append(posts, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first. Stable sort keeps store iteration order for equal dates,
	// which only carry day granularity.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreationDate().After(posts[j].CreationDate())
	})
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, fields PostFields) (*models.Post, error) {
	middleware.DocstoreOps.WithLabelValues(postsCollection, "create").Inc()

	now := r.now()
	post := &models.Post{
		ID:          newPostID(now),
		Title:       fields.Title,
		Author:      fields.Author,
		Description: fields.Description,
		Content:     fields.Content,
		Emoji:       fields.Emoji,
		Tags:        models.ParseTags(fields.Tags),
		Date:        now.Format(models.DateFormat),
		UpdatedAt:   now.UTC().Format(time.RFC3339),
	}

	data, err := postToData(post)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, postsCollection, post.ID, data); err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, post.ID)
	return post, nil
}

// Update merges the edited fields into the stored document and refreshes
// updatedAt. The creation date is deliberately never part of the payload.
func (r *postRepository) Update(ctx context.Context, id string, fields PostFields) error {
	middleware.DocstoreOps.WithLabelValues(postsCollection, "update").Inc()

	partial := map[string]any{
		"title":       fields.Title,
		"author":      fields.Author,
		"description": fields.Description,
		"content":     fields.Content,
		"emoji":       fields.Emoji,
		"tags":        models.ParseTags(fields.Tags),
		"updatedAt":   r.now().UTC().Format(time.RFC3339),
	}

	if err := r.store.Update(ctx, postsCollection, id, partial); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.NewNotFoundError("Post")
		}
		return err
	}

	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	middleware.DocstoreOps.WithLabelValues(postsCollection, "delete").Inc()

	if err := r.store.Delete(ctx, postsCollection, id); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	middleware.DocstoreOps.WithLabelValues(postsCollection, "get").Inc()

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		doc, err := r.store.Get(ctx, postsCollection, id)
		if err != nil {
			return err
		}
		p, err := postFromDocument(doc)
		if err != nil {
			return err
		}
		post = *p
		return nil
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, err
	}
	return &post, nil
}

// postToData converts a post into the stored document shape, dropping the id
// which lives in the document key.
func postToData(p *models.Post) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	delete(data, "id")
	return data, nil
}

func postFromDocument(doc docstore.Document) (*models.Post, error) {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, err
	}
	var p models.Post
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	p.ID = doc.ID
	return &p, nil
}
