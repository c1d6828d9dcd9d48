package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aftab6393/finmini/internal/adapter/storage"
	"github.com/aftab6393/finmini/internal/core/config"
	"github.com/aftab6393/finmini/internal/core/domain"
	"github.com/aftab6393/finmini/internal/core/security"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	ctx := context.Background()
	catalogRepo := storage.NewCatalogRepository(dbPool)
	accountRepo := storage.NewAccountRepository(dbPool)

	existing, err := catalogRepo.ListProducts(ctx)
	if err != nil {
		slog.Error("failed to check catalog", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		slog.Info("catalog already seeded", "products", len(existing))
	} else {
		for _, p := range seedProducts() {
			created, err := catalogRepo.CreateProduct(ctx, &p)
			if err != nil {
				slog.Error("failed to seed product", "error", err, "name", p.Name)
				os.Exit(1)
			}
			slog.Info("product seeded", "id", created.ID, "name", created.Name)
		}
	}

	seedAccount(ctx, accountRepo, dbPool, "Demo Investor", "test@demo.com", "password123", "ABCDE1234F", domain.RoleStandard, decimal.NewFromInt(100000))
	seedAccount(ctx, accountRepo, dbPool, "Admin User", "admin@finmini.com", "admin123!", "FGHIJ5678K", domain.RoleAdmin, decimal.NewFromInt(500000))

	slog.Info("seeding complete")
}

func seedAccount(ctx context.Context, repo *storage.AccountRepository, db *pgxpool.Pool, name, email, password, pan string, role domain.Role, balance decimal.Decimal) {
	hash, err := security.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	account, err := repo.CreateAccount(ctx, name, email, hash, pan, "")
	if errors.Is(err, domain.ErrEmailTaken) {
		slog.Info("account already seeded", "email", email)
		return
	}
	if err != nil {
		slog.Error("failed to seed account", "error", err, "email", email)
		os.Exit(1)
	}

	if _, err := db.Exec(ctx,
		`UPDATE accounts SET role = $1, wallet_balance = $2 WHERE id = $3`,
		role, balance, account.ID); err != nil {
		slog.Error("failed to adjust seeded account", "error", err, "email", email)
		os.Exit(1)
	}

	slog.Info("account seeded", "id", account.ID, "email", email, "role", role)
}

func seedProducts() []domain.Product {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	history := func(values ...string) []decimal.Decimal {
		out := make([]decimal.Decimal, len(values))
		for i, v := range values {
			out[i] = d(v)
		}
		return out
	}

	return []domain.Product{
		{
			Name:         "Reliance Industries Ltd",
			Category:     domain.CategoryStock,
			PricePerUnit: d("2847.50"),
			Metric:       "P/E Ratio: 25.8",
			Description:  "Leading conglomerate in petrochemicals, oil & gas, and retail sectors.",
			PriceHistory: history("2650", "2720", "2780", "2810", "2847"),
		},
		{
			Name:         "Tata Consultancy Services",
			Category:     domain.CategoryStock,
			PricePerUnit: d("3945.75"),
			Metric:       "P/E Ratio: 28.4",
			Description:  "Global IT services and consulting leader with strong international presence.",
			PriceHistory: history("3800", "3850", "3900", "3920", "3945"),
		},
		{
			Name:         "HDFC Bank Ltd",
			Category:     domain.CategoryStock,
			PricePerUnit: d("1687.20"),
			Metric:       "P/E Ratio: 19.6",
			Description:  "Premier private sector bank with robust digital banking platform.",
			PriceHistory: history("1620", "1640", "1665", "1680", "1687"),
		},
		{
			Name:         "Infosys Ltd",
			Category:     domain.CategoryStock,
			PricePerUnit: d("1789.40"),
			Metric:       "P/E Ratio: 22.1",
			Description:  "Global technology services company specializing in consulting and outsourcing.",
			PriceHistory: history("1720", "1745", "1760", "1775", "1789"),
		},
		{
			Name:         "SBI BlueChip Fund",
			Category:     domain.CategoryMutualFund,
			PricePerUnit: d("68.42"),
			Metric:       "1Y Return: 18.5%",
			Description:  "Large-cap equity fund investing in fundamentally strong blue-chip companies.",
			PriceHistory: history("58", "62", "65", "67", "68"),
		},
		{
			Name:         "HDFC Balanced Advantage Fund",
			Category:     domain.CategoryMutualFund,
			PricePerUnit: d("45.89"),
			Metric:       "1Y Return: 14.2%",
			Description:  "Dynamic asset allocation fund adjusting equity-debt mix with market conditions.",
			PriceHistory: history("40", "42", "44", "45", "46"),
		},
		{
			Name:         "Axis Small Cap Fund",
			Category:     domain.CategoryMutualFund,
			PricePerUnit: d("82.15"),
			Metric:       "1Y Return: 25.7%",
			Description:  "Small-cap equity fund focusing on high-growth potential companies.",
			PriceHistory: history("65", "70", "75", "79", "82"),
		},
	}
}
