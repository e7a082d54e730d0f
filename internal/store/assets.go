package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/orangebank/backend/internal/models"
)

// PostgresCatalog implements AssetCatalog. Price updates append to the
// stock_prices history inside one transaction.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

const stockColumns = `id, name, sector, current_price, daily_variation, updated_at`

func (c *PostgresCatalog) ListStocks(ctx context.Context) ([]models.Stock, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stocks := []models.Stock{}
	for rows.Next() {
		var s models.Stock
		if err := rows.Scan(&s.ID, &s.Name, &s.Sector, &s.CurrentPrice, &s.DailyVariation, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

func (c *PostgresCatalog) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	var s models.Stock
	err := c.db.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, symbol).
		Scan(&s.ID, &s.Name, &s.Sector, &s.CurrentPrice, &s.DailyVariation, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *PostgresCatalog) ListFixedIncomes(ctx context.Context) ([]models.FixedIncome, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, type, rate, rate_type, maturity, minimum_investment
		FROM fixed_incomes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.FixedIncome{}
	for rows.Next() {
		var f models.FixedIncome
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.Rate, &f.RateType, &f.Maturity, &f.MinimumInvestment); err != nil {
			return nil, err
		}
		assets = append(assets, f)
	}
	return assets, rows.Err()
}

func (c *PostgresCatalog) GetFixedIncome(ctx context.Context, id string) (*models.FixedIncome, error) {
	var f models.FixedIncome
	err := c.db.QueryRowContext(ctx, `
		SELECT id, name, type, rate, rate_type, maturity, minimum_investment
		FROM fixed_incomes WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Type, &f.Rate, &f.RateType, &f.Maturity, &f.MinimumInvestment)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *PostgresCatalog) UpdateStockPrice(ctx context.Context, symbol string, price float64) (*models.Stock, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var s models.Stock
	err = tx.QueryRowContext(ctx, `
		UPDATE stocks SET current_price = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+stockColumns, symbol, price).
		Scan(&s.ID, &s.Name, &s.Sector, &s.CurrentPrice, &s.DailyVariation, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_prices (stock_id, price, created_at) VALUES ($1, $2, NOW())`,
		symbol, price); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *PostgresCatalog) StockPrices(ctx context.Context, symbol string) ([]models.StockPrice, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, stock_id, price, created_at
		FROM stock_prices WHERE stock_id = $1
		ORDER BY created_at DESC`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := []models.StockPrice{}
	for rows.Next() {
		var p models.StockPrice
		if err := rows.Scan(&p.ID, &p.StockID, &p.Price, &p.CreatedAt); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
