// Package render turns posts and settings into the HTML fragments the
// public site and admin console ship. Every function here is a pure
// transform; handlers decide where the output goes.
package render

import (
	"fmt"
	"strings"

	"verdant/internal/models"
)

// DefaultEmoji stands in for posts saved without one.
const DefaultEmoji = "📝"

// Post content is operator-authored and rendered verbatim. Only operators
// can write, so the trust boundary is the admin login, not this package.

func emojiOrDefault(emoji string) string {
	if emoji == "" {
		return DefaultEmoji
	}
	return emoji
}

func tagSpans(tags []string, class string) string {
	var b strings.Builder
	for _, tag := range tags {
		fmt.Fprintf(&b, `<span class=%q>%s</span>`, class, tag)
	}
	return b.String()
}

// BlogCard renders one post card for the public blog grid.
func BlogCard(post *models.Post) string {
	return fmt.Sprintf(`
        <div class="blog-card" data-post-id="%s">
            <div class="blog-image">%s</div>
            <div class="blog-content">
                <div class="blog-meta">
                    <span>📅 %s</span>
                    <span>✍️ %s</span>
                </div>
                <h3>%s</h3>
                <p>%s</p>
                %s
            </div>
        </div>`,
		post.ID, emojiOrDefault(post.Emoji), post.Date, post.Author,
		post.Title, post.Description, tagSpans(post.Tags, "blog-tag"))
}

// EmptyState renders the placeholder shown when no posts exist yet.
func EmptyState() string {
	return `
        <div class="blog-empty">
            <div class="blog-empty-emoji">📝</div>
            <p>No blog posts yet. Check back soon!</p>
        </div>`
}

// ErrorPanel renders the failure placeholder for a grid that could not load.
func ErrorPanel(message string) string {
	return fmt.Sprintf(`
        <div class="blog-error">
            <div class="blog-error-emoji">⚠️</div>
            <p>%s</p>
        </div>`, message)
}

// PostGrid renders the full blog grid, falling back to the empty state when
// there are no posts. Posts are rendered in the order given; the repository
// owns sorting.
func PostGrid(posts []*models.Post) string {
	if len(posts) == 0 {
		return EmptyState()
	}
	var b strings.Builder
	for _, post := range posts {
		b.WriteString(BlogCard(post))
	}
	return b.String()
}

// Modal renders the full-post overlay. Newlines in the body become <br>
// tags so plain-text paragraphs survive the transfer to markup.
func Modal(post *models.Post) string {
	content := strings.ReplaceAll(post.Content, "\n", "<br>")
	return fmt.Sprintf(`
        <div class="blog-modal">
            <div class="blog-modal-content">
                <button class="blog-close-btn">✕</button>
                <h1>%s %s</h1>
                <div class="blog-modal-meta">
                    <span>📅 %s</span> · <span>✍️ %s</span>
                </div>
                <div class="blog-modal-tags">%s</div>
                <div class="blog-modal-content-text">%s</div>
            </div>
        </div>`,
		emojiOrDefault(post.Emoji), post.Title, post.Date, post.Author,
		tagSpans(post.Tags, "blog-tag"), content)
}

// AdminPostCard renders one post card for the admin console list, with the
// view, edit, and delete actions wired by post id.
func AdminPostCard(post *models.Post) string {
	return fmt.Sprintf(`
        <div class="admin-post-card" data-post-id="%s">
            <div class="post-card-header">
                <div class="post-card-emoji">%s</div>
                <div class="post-card-title">
                    <h3>%s</h3>
                    <div class="post-card-meta">
                        <span>📅 %s</span> · <span>✍️ %s</span>
                    </div>
                </div>
            </div>
            <div class="post-card-body">
                <p class="post-card-description">%s</p>
                <div class="post-card-tags">%s</div>
                <div class="post-card-actions">
                    <button class="btn btn-secondary" data-action="view">View</button>
                    <button class="btn" data-action="edit">Edit</button>
                    <button class="btn btn-danger" data-action="delete">Delete</button>
                </div>
            </div>
        </div>`,
		post.ID, emojiOrDefault(post.Emoji), post.Title, post.Date,
		post.Author, post.Description, tagSpans(post.Tags, "tag"))
}

// AdminPostList renders the admin console post list. An empty list returns
// "" so the console can show its own empty state.
func AdminPostList(posts []*models.Post) string {
	var b strings.Builder
	for _, post := range posts {
		b.WriteString(AdminPostCard(post))
	}
	return b.String()
}
