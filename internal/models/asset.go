package models

import "time"

// Stock is a read-only catalog entry; the ledger engine never mutates it.
type Stock struct {
	ID             string    `json:"symbol" db:"id"`
	Name           string    `json:"name" db:"name"`
	Sector         string    `json:"sector" db:"sector"`
	CurrentPrice   float64   `json:"current_price" db:"current_price"`
	DailyVariation float64   `json:"daily_variation" db:"daily_variation"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// FixedIncome is a fixed-income instrument (CDB, Tesouro Direto). Rate is an
// annual percentage; Quantity on purchase orders is the invested amount in
// currency, not a share count.
type FixedIncome struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Type              string    `json:"type" db:"type"`
	Rate              float64   `json:"rate" db:"rate"`
	RateType          string    `json:"rate_type" db:"rate_type"`
	Maturity          time.Time `json:"maturity" db:"maturity"`
	MinimumInvestment float64   `json:"minimum_investment" db:"minimum_investment"`
}

// StockPrice is one point of a stock's price history.
type StockPrice struct {
	ID        int       `json:"id" db:"id"`
	StockID   string    `json:"stock_id" db:"stock_id"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
