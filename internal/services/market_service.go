package services

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/orangebank/backend/internal/middleware"
	"github.com/orangebank/backend/internal/models"
	"github.com/orangebank/backend/internal/store"
)

const (
	stocksCacheKey       = "stocks"
	fixedIncomesCacheKey = "fixed_incomes"
)

// MarketService exposes the asset catalog and trading endpoints. Catalog
// listings are cached briefly; anything that settles money goes straight
// through the ledger engine.
type MarketService struct {
	catalog   store.AssetCatalog
	ledger    *LedgerService
	cache     *cache.Cache
	validator *ValidationHelper
}

func NewMarketService(catalog store.AssetCatalog, ledgerService *LedgerService) *MarketService {
	return &MarketService{
		catalog:   catalog,
		ledger:    ledgerService,
		cache:     cache.New(30*time.Second, time.Minute),
		validator: NewValidationHelper(),
	}
}

type tradeRequest struct {
	AssetSymbol string  `json:"assetSymbol" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
}

type updatePriceRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// ListStocks lists the stock catalog
// @Summary List stocks
// @Description List all stocks with their current prices
// @Tags market
// @Produce json
// @Success 200 {array} models.Stock
// @Router /market/stocks [get]
func (ms *MarketService) ListStocks(w http.ResponseWriter, r *http.Request) {
	if cached, found := ms.cache.Get(stocksCacheKey); found {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cached)
		return
	}

	stocks, err := ms.catalog.ListStocks(r.Context())
	if err != nil {
		log.Printf("[MARKET] Failed to list stocks: %v", err)
		SendErrorResponse(w, "Failed to fetch stocks", http.StatusInternalServerError, nil)
		return
	}
	ms.cache.Set(stocksCacheKey, stocks, cache.DefaultExpiration)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stocks)
}

// GetStock retrieves one stock
// @Summary Get stock by symbol
// @Description Retrieve a stock with its current price
// @Tags market
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Success 200 {object} models.Stock
// @Failure 404 {object} ErrorResponse
// @Router /market/stocks/{symbol} [get]
func (ms *MarketService) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	stock, err := ms.catalog.GetStock(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendErrorResponse(w, "Stock not found", http.StatusNotFound, nil)
			return
		}
		SendErrorResponse(w, "Failed to fetch stock", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stock)
}

// GetStockHistory returns a stock's recorded prices
// @Summary Get stock price history
// @Description List recorded price points for a stock, newest first
// @Tags market
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Success 200 {array} models.StockPrice
// @Failure 404 {object} ErrorResponse
// @Router /market/stocks/{symbol}/history [get]
func (ms *MarketService) GetStockHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if _, err := ms.catalog.GetStock(r.Context(), symbol); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendErrorResponse(w, "Stock not found", http.StatusNotFound, nil)
			return
		}
		SendErrorResponse(w, "Failed to fetch stock", http.StatusInternalServerError, nil)
		return
	}

	prices, err := ms.catalog.StockPrices(r.Context(), symbol)
	if err != nil {
		SendErrorResponse(w, "Failed to fetch price history", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prices)
}

// UpdateStockPrice sets a stock's current price
// @Summary Update stock price
// @Description Set a stock's current price and append it to the price history
// @Tags market
// @Accept json
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Param price body updatePriceRequest true "New price"
// @Success 200 {object} models.Stock
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /market/stocks/{symbol}/price [patch]
func (ms *MarketService) UpdateStockPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req updatePriceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ms.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	stock, err := ms.catalog.UpdateStockPrice(r.Context(), symbol, req.Price)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendErrorResponse(w, "Stock not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[MARKET] Failed to update price for %s: %v", symbol, err)
		SendErrorResponse(w, "Failed to update price", http.StatusInternalServerError, nil)
		return
	}
	ms.cache.Delete(stocksCacheKey)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stock)
}

// ListFixedIncomes lists the fixed-income catalog
// @Summary List fixed-income assets
// @Description List all fixed-income instruments with their rates
// @Tags market
// @Produce json
// @Success 200 {array} models.FixedIncome
// @Router /market/fixed-incomes [get]
func (ms *MarketService) ListFixedIncomes(w http.ResponseWriter, r *http.Request) {
	if cached, found := ms.cache.Get(fixedIncomesCacheKey); found {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cached)
		return
	}

	assets, err := ms.catalog.ListFixedIncomes(r.Context())
	if err != nil {
		SendErrorResponse(w, "Failed to fetch fixed income assets", http.StatusInternalServerError, nil)
		return
	}
	ms.cache.Set(fixedIncomesCacheKey, assets, cache.DefaultExpiration)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

// BuyStock purchases stock shares
// @Summary Buy stock
// @Description Buy shares with the authenticated user's investment account; a 1% brokerage fee applies
// @Tags market
// @Accept json
// @Produce json
// @Param order body tradeRequest true "Order details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /market/stocks/buy [post]
func (ms *MarketService) BuyStock(w http.ResponseWriter, r *http.Request) {
	ms.trade(w, r, ClassStock, false)
}

// SellStock sells stock shares
// @Summary Sell stock
// @Description Sell shares from the authenticated user's investment account; 15% tax applies to the gain
// @Tags market
// @Accept json
// @Produce json
// @Param order body tradeRequest true "Order details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /market/stocks/sell [post]
func (ms *MarketService) SellStock(w http.ResponseWriter, r *http.Request) {
	ms.trade(w, r, ClassStock, true)
}

// BuyFixedIncome invests in a fixed-income asset
// @Summary Buy fixed income
// @Description Invest in a fixed-income asset; quantity is the invested amount in currency
// @Tags market
// @Accept json
// @Produce json
// @Param order body tradeRequest true "Order details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /market/fixed-incomes/buy [post]
func (ms *MarketService) BuyFixedIncome(w http.ResponseWriter, r *http.Request) {
	ms.trade(w, r, ClassFixedIncome, false)
}

// SellFixedIncome redeems a fixed-income position
// @Summary Sell fixed income
// @Description Redeem a fixed-income position; 22% tax applies to the accrued gain
// @Tags market
// @Accept json
// @Produce json
// @Param order body tradeRequest true "Order details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /market/fixed-incomes/sell [post]
func (ms *MarketService) SellFixedIncome(w http.ResponseWriter, r *http.Request) {
	ms.trade(w, r, ClassFixedIncome, true)
}

func (ms *MarketService) trade(w http.ResponseWriter, r *http.Request, class AssetClass, sell bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req tradeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ms.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var (
		tx  *models.Transaction
		err error
	)
	if sell {
		tx, err = ms.ledger.SettleAssetSale(r.Context(), userID, class, req.AssetSymbol, req.Quantity)
	} else {
		tx, err = ms.ledger.SettleAssetPurchase(r.Context(), userID, class, req.AssetSymbol, req.Quantity)
	}
	if err != nil {
		SendLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}
