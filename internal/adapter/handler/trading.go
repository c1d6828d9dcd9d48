package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/adapter/middleware"
	"github.com/aftab6393/finmini/internal/core/domain"
	"github.com/aftab6393/finmini/internal/core/trading"
)

// TradingService executes purchases and serves purchase history.
type TradingService interface {
	Buy(ctx context.Context, accountID, productID uuid.UUID, rawUnits string) (*trading.BuyResult, error)
	History(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

type TradingHandler struct {
	Service TradingService
}

// BuyRequest accepts units as either a JSON number or a string; both
// forms occur in the wild and both must reject non-numeric input.
type BuyRequest struct {
	ProductID string          `json:"product_id"`
	Units     json.RawMessage `json:"units"`
}

// Buy handles POST /api/transactions/buy for the authenticated account.
func (h *TradingHandler) Buy(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	var req BuyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	result, err := h.Service.Buy(c.Context(), accountID, productID, rawUnitsString(req.Units))
	if err != nil {
		return tradingError(c, err, accountID, productID)
	}

	return c.JSON(fiber.Map{
		"message":        "Purchase successful",
		"transaction":    result.Transaction,
		"wallet_balance": result.WalletBalance,
	})
}

// History handles GET /api/users/me/transactions.
func (h *TradingHandler) History(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	transactions, err := h.Service.History(c.Context(), accountID)
	if err != nil {
		slog.Error("failed to fetch history", "error", err, "account_id", accountID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch history"})
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}

// rawUnitsString unwraps the raw JSON units value into the string the
// trading service parses. A quoted value loses its quotes; everything
// else passes through verbatim.
func rawUnitsString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			return unquoted
		}
	}
	return s
}

// tradingError maps domain sentinels to status codes and stable bodies.
func tradingError(c *fiber.Ctx, err error, accountID, productID uuid.UUID) error {
	switch {
	case errors.Is(err, domain.ErrInvalidUnits):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": domain.ErrInvalidUnits.Error(), "code": "invalid_units"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": domain.ErrProductNotFound.Error(), "code": "product_not_found"})
	case errors.Is(err, domain.ErrAccountNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": domain.ErrAccountNotFound.Error(), "code": "account_not_found"})
	case errors.Is(err, domain.ErrInsufficientFunds):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": domain.ErrInsufficientFunds.Error(), "code": "insufficient_funds"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"error": domain.ErrConflict.Error(), "code": "conflict"})
	default:
		slog.Error("purchase failed", "error", err, "account_id", accountID, "product_id", productID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Purchase failed", "code": "internal"})
	}
}
