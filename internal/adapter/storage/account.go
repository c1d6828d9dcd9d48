package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aftab6393/finmini/internal/core/domain"
)

const accountColumns = `id, name, email, password_hash, pan, kyc_image, wallet_balance, role, created_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount registers a new account with the fixed starting balance.
func (r *AccountRepository) CreateAccount(ctx context.Context, name, email, passwordHash, pan, kycImage string) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (name, email, password_hash, pan, kyc_image, wallet_balance, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns

	row := r.db.QueryRow(ctx, query, name, email, passwordHash, pan, kycImage,
		domain.StartingBalance, domain.RoleStandard)

	acc, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return acc, nil
}

// GetByID fetches a single account.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return acc, nil
}

// GetByEmail fetches an account for credential checks.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	acc, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return acc, nil
}

// ListAccounts returns every account, newest first. Admin view.
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// ToggleWatch flips membership of productID in the account's watchlist.
// Returns true when the product was added, false when removed.
func (r *AccountRepository) ToggleWatch(ctx context.Context, accountID, productID uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin watchlist toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM watchlist WHERE account_id = $1 AND product_id = $2`,
		accountID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle watchlist: %w", err)
	}

	added := false
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO watchlist (account_id, product_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			accountID, productID)
		if err != nil {
			return false, fmt.Errorf("failed to toggle watchlist: %w", err)
		}
		added = true
	}

	return added, tx.Commit(ctx)
}

// Watchlist resolves the account's watched products. The join silently
// skips entries whose product no longer exists.
func (r *AccountRepository) Watchlist(ctx context.Context, accountID uuid.UUID) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.category, p.price_per_unit, p.metric, p.description, p.price_history, p.created_at
		FROM watchlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.account_id = $1
		ORDER BY w.created_at DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlist: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.PAN,
		&acc.KYCImage, &acc.WalletBalance, &acc.Role, &acc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
