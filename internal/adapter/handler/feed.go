package handler

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/aftab6393/finmini/internal/core/feed"
)

// FeedHandler streams simulated price ticks to websocket clients. The
// ticks are cosmetic and never alter catalog prices.
type FeedHandler struct {
	Broadcaster *feed.Broadcaster
}

// Upgrade gates the websocket route on a proper upgrade request.
func (h *FeedHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream handles GET /ws/prices.
func (h *FeedHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ticks, cancel := h.Broadcaster.Subscribe()
		defer cancel()

		slog.Info("price feed client connected", "remote", conn.RemoteAddr().String())

		for tick := range ticks {
			if err := conn.WriteJSON(tick); err != nil {
				slog.Info("price feed client disconnected", "remote", conn.RemoteAddr().String())
				return
			}
		}
	})
}
