package server

import (
	"context"
	"encoding/json"

	"verdant/internal/middleware"
	"verdant/internal/render"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// CounterUpgrade guards /ws/counter against plain HTTP requests.
func (s *Server) CounterUpgrade() fiber.Handler {
	return upgradeRequired
}

// UpdatesUpgrade guards /ws/updates against plain HTTP requests.
func (s *Server) UpdatesUpgrade() fiber.Handler {
	return upgradeRequired
}

func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

type counterFrame struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// CounterStreamHandler plays the people-helped animation to one visitor.
// Each connection is its own view entry, so each gets a fresh animator.
func (s *Server) CounterStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = conn.Close() }()

		settings, err := s.settingsRepo.Get(ctx)
		target := s.config.PeopleHelpedFallback
		if err == nil && settings.PeopleHelped > 0 {
			target = settings.PeopleHelped
		}

		animator := &render.Animator{}
		frames := animator.EnterView(ctx, target)
		if frames == nil {
			return
		}

		// Cancel the stream as soon as the visitor goes away.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for value := range frames {
			payload, _ := json.Marshal(counterFrame{Type: "counter", Value: value})
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	})
}

// UpdatesHandler attaches one visitor to the live content update feed.
func (s *Server) UpdatesHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"live updates unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(conn)
		if err != nil {
			middleware.Logger.Warn("failed to register update stream", "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
