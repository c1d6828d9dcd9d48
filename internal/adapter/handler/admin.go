package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// AdminStore is what the admin views need from storage.
type AdminStore interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAll(ctx context.Context) ([]domain.Transaction, error)
}

type AdminHandler struct {
	Store AdminStore
}

// Users handles GET /api/admin/users. Password hashes never serialize
// (json:"-" on the domain type).
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	accounts, err := h.Store.ListAccounts(c.Context())
	if err != nil {
		slog.Error("failed to list accounts", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch users"})
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return c.JSON(fiber.Map{"users": accounts})
}

// Transactions handles GET /api/admin/transactions.
func (h *AdminHandler) Transactions(c *fiber.Ctx) error {
	transactions, err := h.Store.ListAll(c.Context())
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch transactions"})
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}
