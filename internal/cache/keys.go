package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix = "post:%s"
	postsListKey  = "posts:all"
	settingsKey   = "settings:stats"
)

const (
	// PostTTL bounds staleness of individual post reads.
	PostTTL = 30 * time.Minute
	// PostsListTTL is short since the public grid is the hottest read.
	PostsListTTL = 5 * time.Minute
	// SettingsTTL covers the singleton settings document.
	SettingsTTL = 10 * time.Minute
)

func PostKey(id string) string {
	return fmt.Sprintf(postKeyPrefix, id)
}

func PostsListKey() string {
	return postsListKey
}

func SettingsKey() string {
	return settingsKey
}

// Invalidate drops a key, best-effort.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached post and the list it appears in.
func InvalidatePost(ctx context.Context, id string) {
	Invalidate(ctx, PostKey(id))
	Invalidate(ctx, postsListKey)
}

// InvalidateSettings drops the cached settings singleton.
func InvalidateSettings(ctx context.Context) {
	Invalidate(ctx, settingsKey)
}
