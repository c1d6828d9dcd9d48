package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/core/domain"
	"github.com/aftab6393/finmini/internal/core/security"
)

const (
	// AccountIDKey is the locals key carrying the authenticated account id.
	AccountIDKey = "account_id"
	// RoleKey is the locals key carrying the authenticated role.
	RoleKey = "role"
)

// Protected verifies the bearer token and stores the caller's identity in
// the request locals. Handlers only ever see the account id resolved
// here; there is no process-wide session state.
func Protected(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid header format"})
		}

		accountID, role, err := security.ParseToken(secret, parts[1])
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		c.Locals(AccountIDKey, accountID)
		c.Locals(RoleKey, role)

		return c.Next()
	}
}

// AdminOnly rejects callers whose token does not carry the admin role.
// Must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(RoleKey).(domain.Role)
		if !ok || role != domain.RoleAdmin {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		return c.Next()
	}
}

// AccountID extracts the authenticated account id set by Protected.
func AccountID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(AccountIDKey).(uuid.UUID)
	return id, ok
}
