package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aftab6393/finmini/internal/core/domain"
)

const transactionColumns = `id, account_id, product_id, units, price_at_purchase, total_amount, created_at`

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ExecuteBuy debits the wallet and appends the purchase to the ledger in
// one transaction. The account row is locked for the duration of the
// check-and-commit, so two concurrent buys against the same account can
// never both pass the funds check against a stale balance. Either both
// effects commit or neither does.
func (r *LedgerRepository) ExecuteBuy(ctx context.Context, accountID uuid.UUID, product *domain.Product, units, total decimal.Decimal) (*domain.Transaction, decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to begin purchase: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT wallet_balance FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, decimal.Zero, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to lock account: %w", err)
	}

	if balance.LessThan(total) {
		return nil, decimal.Zero, domain.ErrInsufficientFunds
	}
	newBalance := balance.Sub(total)

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET wallet_balance = $1 WHERE id = $2`,
		newBalance, accountID)
	if err != nil {
		return nil, decimal.Zero, wrapConflict(err, "failed to debit wallet")
	}

	purchase := &domain.Transaction{
		AccountID:       accountID,
		ProductID:       product.ID,
		Units:           units,
		PriceAtPurchase: product.PricePerUnit,
		TotalAmount:     total,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (account_id, product_id, units, price_at_purchase, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		purchase.AccountID, purchase.ProductID, purchase.Units,
		purchase.PriceAtPurchase, purchase.TotalAmount,
	).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return nil, decimal.Zero, wrapConflict(err, "failed to record transaction")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, decimal.Zero, wrapConflict(err, "failed to commit purchase")
	}

	return purchase, newBalance, nil
}

// ListByAccount returns the account's purchases, newest first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE account_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListAll returns every transaction, newest first. Admin view.
func (r *LedgerRepository) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(&t.ID, &t.AccountID, &t.ProductID, &t.Units,
			&t.PriceAtPurchase, &t.TotalAmount, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// wrapConflict maps serialization and deadlock failures to ErrConflict so
// the caller knows the whole operation is safe to retry.
func wrapConflict(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", msg, err)
}
