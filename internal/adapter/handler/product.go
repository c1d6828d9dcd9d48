package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// ProductCatalog is what the catalog endpoints need from storage.
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type ProductHandler struct {
	Catalog ProductCatalog
}

// List returns the whole catalog.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(c.Context())
	if err != nil {
		slog.Error("failed to list products", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(products)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	product, err := h.Catalog.GetProduct(c.Context(), id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": domain.ErrProductNotFound.Error()})
	}
	if err != nil {
		slog.Error("failed to fetch product", "error", err, "product_id", id)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch product"})
	}
	return c.JSON(product)
}
