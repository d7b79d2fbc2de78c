package notifications

import (
	"context"
	"encoding/json"

	"verdant/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Update channels. One per content surface so subscribers could split
// later; today the hub forwards both to everyone.
const (
	postsChannel    = "site:updates:posts"
	settingsChannel = "site:updates:settings"
	sessionChannel  = "site:updates:session"
)

// Notifier publishes content update events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a notifier. A nil client turns every method into a
// no-op, matching the cache layer's degraded mode.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) publish(ctx context.Context, channel, kind, id string) error {
	if n.rdb == nil {
		return nil
	}
	payload, _ := json.Marshal(map[string]string{"type": kind, "id": id})
	return n.rdb.Publish(ctx, channel, string(payload)).Err()
}

// PublishPostChange announces that a post was created, updated, or deleted.
func (n *Notifier) PublishPostChange(ctx context.Context, postID string) error {
	return n.publish(ctx, postsChannel, "posts_changed", postID)
}

// PublishSettingsChange announces that the site settings singleton changed.
func (n *Notifier) PublishSettingsChange(ctx context.Context) error {
	return n.publish(ctx, settingsChannel, "settings_changed", "")
}

// PublishSessionChange announces that the operator session opened or closed.
func (n *Notifier) PublishSessionChange(ctx context.Context, signedIn bool) error {
	kind := "signed_out"
	if signedIn {
		kind = "signed_in"
	}
	return n.publish(ctx, sessionChannel, kind, "")
}

// StartSubscriber subscribes to the update channels and calls onMessage for
// each event. Each delivery recovers from handler panics on its own, so one
// bad payload cannot kill the feed.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "site:updates:*")
	ch := sub.Channel()

	go func() {
		for msg := range ch {
			deliver(onMessage, msg.Channel, msg.Payload)
		}
	}()

	return nil
}

func deliver(onMessage func(channel, payload string), channel, payload string) {
	defer func() {
		if r := recover(); r != nil {
			middleware.Logger.Error("update handler panicked", "panic", r, "channel", channel)
		}
	}()
	onMessage(channel, payload)
}
