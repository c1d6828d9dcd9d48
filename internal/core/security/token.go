package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// Claims carries the authenticated account through a signed token. The
// account id travels with every request instead of living in any shared
// process state.
type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs a token for the given account, valid for ttl.
func NewToken(secret []byte, accountID uuid.UUID, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: accountID.String(),
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry of a token and returns the
// account id and role it carries.
func ParseToken(secret []byte, raw string) (uuid.UUID, domain.Role, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid token: %w", err)
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid token subject: %w", err)
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return uuid.Nil, "", fmt.Errorf("invalid token role %q", claims.Role)
	}

	return accountID, role, nil
}
