package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/adapter/middleware"
	"github.com/aftab6393/finmini/internal/core/domain"
)

// WatchlistStore is what the watchlist endpoints need from storage.
type WatchlistStore interface {
	ToggleWatch(ctx context.Context, accountID, productID uuid.UUID) (bool, error)
	Watchlist(ctx context.Context, accountID uuid.UUID) ([]domain.Product, error)
}

type WatchlistHandler struct {
	Store WatchlistStore
}

// Toggle handles POST /api/users/watchlist/:productId. Calling it twice
// with the same product returns the watchlist to its original state.
func (h *WatchlistHandler) Toggle(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	added, err := h.Store.ToggleWatch(c.Context(), accountID, productID)
	if err != nil {
		slog.Error("failed to toggle watchlist", "error", err, "account_id", accountID, "product_id", productID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update watchlist"})
	}

	state := "removed"
	message := "Removed from watchlist"
	if added {
		state = "added"
		message = "Added to watchlist"
	}
	return c.JSON(fiber.Map{"state": state, "message": message})
}

// Get handles GET /api/users/watchlist. Entries whose product no longer
// exists are skipped, not errored.
func (h *WatchlistHandler) Get(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	products, err := h.Store.Watchlist(c.Context(), accountID)
	if err != nil {
		slog.Error("failed to fetch watchlist", "error", err, "account_id", accountID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch watchlist"})
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(fiber.Map{"watchlist": products})
}
