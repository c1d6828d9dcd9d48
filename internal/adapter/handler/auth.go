package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/core/domain"
	"github.com/aftab6393/finmini/internal/core/security"
)

// AccountStore is what the auth flow needs from storage.
type AccountStore interface {
	CreateAccount(ctx context.Context, name, email, passwordHash, pan, kycImage string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type AuthHandler struct {
	Accounts  AccountStore
	Secret    []byte
	TokenTTL  time.Duration
	UploadDir string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account from a multipart form (name, email,
// password, pan, optional kycImage file) and returns a signed token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	pan := strings.ToUpper(strings.TrimSpace(c.FormValue("pan")))

	if name == "" || email == "" || password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Name, email and password are required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email address"})
	}
	if len(password) < 8 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Password must be at least 8 characters long"})
	}
	if !domain.ValidPAN(pan) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid PAN format"})
	}

	kycImage := ""
	if file, err := c.FormFile("kycImage"); err == nil && file != nil {
		dest := filepath.Join(h.UploadDir, uuid.New().String()+filepath.Ext(file.Filename))
		if err := c.SaveFile(file, dest); err != nil {
			slog.Error("failed to save KYC upload", "error", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not store KYC image"})
		}
		kycImage = dest
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	account, err := h.Accounts.CreateAccount(c.Context(), name, email, hash, pan, kycImage)
	if errors.Is(err, domain.ErrEmailTaken) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": domain.ErrEmailTaken.Error()})
	}
	if err != nil {
		slog.Error("failed to create account", "error", err, "email", email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	slog.Info("account created", "id", account.ID, "email", email)

	return h.respondWithToken(c, http.StatusCreated, account)
}

// Login checks credentials and returns a signed token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	account, err := h.Accounts.GetByEmail(c.Context(), email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// Same response as a wrong password so accounts cannot be probed.
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": domain.ErrInvalidCredentials.Error()})
	}
	if err != nil {
		slog.Error("failed to fetch account", "error", err, "email", email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
	}

	if !security.CheckPassword(req.Password, account.PasswordHash) {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": domain.ErrInvalidCredentials.Error()})
	}

	return h.respondWithToken(c, http.StatusOK, account)
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, status int, account *domain.Account) error {
	token, err := security.NewToken(h.Secret, account.ID, account.Role, h.TokenTTL)
	if err != nil {
		slog.Error("failed to sign token", "error", err, "account_id", account.ID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not issue token"})
	}

	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":             account.ID,
			"name":           account.Name,
			"email":          account.Email,
			"wallet_balance": account.WalletBalance,
			"role":           account.Role,
		},
	})
}
