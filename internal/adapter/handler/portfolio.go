package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/adapter/middleware"
	"github.com/aftab6393/finmini/internal/core/domain"
	"github.com/aftab6393/finmini/internal/core/portfolio"
)

// PortfolioService derives the account's holdings summary.
type PortfolioService interface {
	Summarize(ctx context.Context, accountID uuid.UUID) (*portfolio.Summary, error)
}

type PortfolioHandler struct {
	Service PortfolioService
}

// Summary handles GET /api/users/portfolio.
func (h *PortfolioHandler) Summary(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	summary, err := h.Service.Summarize(c.Context(), accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": domain.ErrAccountNotFound.Error()})
	}
	if err != nil {
		slog.Error("failed to build portfolio summary", "error", err, "account_id", accountID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not build portfolio"})
	}

	return c.JSON(summary)
}
