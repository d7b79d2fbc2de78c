// Package seed creates demo content for development environments. It is
// never wired into the server; the seed command drives it explicitly.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"verdant/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

var emojis = []string{"🌱", "🚀", "📝", "💡", "🌍", "🤝", "🎉", "🔧"}

var tagPool = []string{
	"updates", "community", "impact", "stories", "events",
	"volunteering", "behind-the-scenes", "announcements",
}

// Factory builds demo posts and settings through the same repositories the
// server uses, so seeded data obeys the real write paths.
type Factory struct {
	posts    repository.PostRepository
	settings repository.SettingsRepository
	rand     *rand.Rand
}

// NewFactory creates a factory bound to the given repositories.
func NewFactory(posts repository.PostRepository, settings repository.SettingsRepository) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		posts:    posts,
		settings: settings,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildPostFields generates one plausible post payload.
func (f *Factory) BuildPostFields() repository.PostFields {
	tagCount := 1 + f.rand.Intn(3)
	tags := make([]string, 0, tagCount)
	for _, i := range f.rand.Perm(len(tagPool))[:tagCount] {
		tags = append(tags, tagPool[i])
	}

	return repository.PostFields{
		Title:       strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Author:      gofakeit.Name(),
		Description: gofakeit.Sentence(12),
		Content:     gofakeit.Paragraph(2, 4, 8, "\n"),
		Emoji:       emojis[f.rand.Intn(len(emojis))],
		Tags:        strings.Join(tags, ", "),
	}
}

// SeedPosts creates count demo posts.
func (f *Factory) SeedPosts(ctx context.Context, count int) error {
	for i := 0; i < count; i++ {
		if _, err := f.posts.Create(ctx, f.BuildPostFields()); err != nil {
			return fmt.Errorf("seeding post %d: %w", i+1, err)
		}
	}
	return nil
}

// SeedSettings writes a populated settings singleton.
func (f *Factory) SeedSettings(ctx context.Context) error {
	_, err := f.settings.Save(ctx, repository.SettingsFields{
		PeopleHelped:        100 + f.rand.Intn(900),
		NextApplicationDate: fmt.Sprintf("%s %d", gofakeit.MonthString(), time.Now().Year()+1),
		DiscordLink:         "https://discord.gg/" + gofakeit.LetterN(8),
		GoogleFormsLink:     "https://forms.gle/" + gofakeit.LetterN(12),
	})
	return err
}
