package services

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangebank/backend/internal/middleware"
	"github.com/orangebank/backend/internal/models"
)

func newMarketRouter(f *ledgerFixture, userID int) http.Handler {
	ms := NewMarketService(f.catalog, f.engine)
	r := chi.NewRouter()
	if userID != 0 {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
			})
		})
	}
	r.Get("/market/stocks", ms.ListStocks)
	r.Post("/market/stocks/buy", ms.BuyStock)
	r.Post("/market/stocks/sell", ms.SellStock)
	r.Get("/market/stocks/{symbol}", ms.GetStock)
	r.Get("/market/stocks/{symbol}/history", ms.GetStockHistory)
	r.Patch("/market/stocks/{symbol}/price", ms.UpdateStockPrice)
	r.Get("/market/fixed-incomes", ms.ListFixedIncomes)
	r.Post("/market/fixed-incomes/buy", ms.BuyFixedIncome)
	r.Post("/market/fixed-incomes/sell", ms.SellFixedIncome)
	return r
}

func TestMarketService_Catalog(t *testing.T) {
	f := newLedgerFixture(t)
	router := newMarketRouter(f, 0)

	t.Run("lists stocks", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/market/stocks", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var stocks []models.Stock
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&stocks))
		require.Len(t, stocks, 1)
		assert.Equal(t, "AAPL", stocks[0].ID)
	})

	t.Run("lists fixed incomes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/market/fixed-incomes", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var assets []models.FixedIncome
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&assets))
		require.Len(t, assets, 1)
		assert.Equal(t, "CDB001", assets[0].ID)
	})

	t.Run("gets one stock", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/market/stocks/AAPL", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var stock models.Stock
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&stock))
		assert.Equal(t, 150.25, stock.CurrentPrice)
	})

	t.Run("unknown stock", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/market/stocks/NOPE", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Stock not found", decodeErrorResponse(t, rec).Error)
	})
}

func TestMarketService_UpdateStockPrice(t *testing.T) {
	f := newLedgerFixture(t)
	router := newMarketRouter(f, 0)

	t.Run("updates the price and invalidates the listing cache", func(t *testing.T) {
		// prime the cache
		rec := doJSON(t, router, http.MethodGet, "/market/stocks", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodPatch, "/market/stocks/AAPL/price", `{"price": 200}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var stock models.Stock
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&stock))
		assert.Equal(t, 200.0, stock.CurrentPrice)

		// listing must reflect the new price, not the cached one
		rec = doJSON(t, router, http.MethodGet, "/market/stocks", "")
		var stocks []models.Stock
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&stocks))
		require.Len(t, stocks, 1)
		assert.Equal(t, 200.0, stocks[0].CurrentPrice)
	})

	t.Run("price history records the change", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/market/stocks/AAPL/history", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var prices []models.StockPrice
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&prices))
		require.NotEmpty(t, prices)
		assert.Equal(t, 200.0, prices[0].Price)
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/market/stocks/AAPL/price", `{"price": -1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/market/stocks/NOPE/price", `{"price": 10}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("history for unknown symbol", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/market/stocks/NOPE/history", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMarketService_Trading(t *testing.T) {
	f := newLedgerFixture(t)
	user := f.addUser(t, "alice", "12345678901")
	account := f.addAccount(t, user.ID, models.InvestmentAccount, 5000)
	router := newMarketRouter(f, user.ID)

	t.Run("buy stock settles against the investment account", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/market/stocks/buy", `{"assetSymbol": "AAPL", "quantity": 10}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var tx models.Transaction
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&tx))
		assert.InDelta(t, 1517.525, tx.Amount, 1e-9)
		assert.Equal(t, models.TransactionAssetPurchase, tx.Type)
		assert.InDelta(t, 5000-1517.525, f.balance(t, account.ID), 1e-9)
	})

	t.Run("sell stock credits the net proceeds", func(t *testing.T) {
		before := f.balance(t, account.ID)
		rec := doJSON(t, router, http.MethodPost, "/market/stocks/sell", `{"assetSymbol": "AAPL", "quantity": 5}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var tx models.Transaction
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&tx))
		assert.InDelta(t, 739.98125, tx.Amount, 1e-9)
		assert.InDelta(t, before+739.98125, f.balance(t, account.ID), 1e-9)
	})

	t.Run("fixed income below minimum maps to 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/market/fixed-incomes/buy", `{"assetSymbol": "CDB001", "quantity": 500}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BELOW_MINIMUM_INVESTMENT", decodeErrorResponse(t, rec).Code)
	})

	t.Run("fixed income redemption", func(t *testing.T) {
		before := f.balance(t, account.ID)
		rec := doJSON(t, router, http.MethodPost, "/market/fixed-incomes/sell", `{"assetSymbol": "CDB001", "quantity": 1000}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var tx models.Transaction
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&tx))
		assert.InDelta(t, 1048.75, tx.Amount, 1e-9)
		assert.InDelta(t, before+1048.75, f.balance(t, account.ID), 1e-9)
	})

	t.Run("unknown asset maps to 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/market/stocks/buy", `{"assetSymbol": "NOPE", "quantity": 1}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ASSET_NOT_FOUND", decodeErrorResponse(t, rec).Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		anon := newMarketRouter(f, 0)
		rec := doJSON(t, anon, http.MethodPost, "/market/stocks/buy", `{"assetSymbol": "AAPL", "quantity": 1}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
