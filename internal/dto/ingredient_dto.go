package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateIngredientRequest struct {
	Name         string          `json:"name"           validate:"required,min=1,max=120"`
	StrengthPct  float64         `json:"strength_pct"   validate:"gte=0,lte=100"`
	UnitVolumeML float64         `json:"unit_volume_ml" validate:"required,gt=0"`
	Quantity     int             `json:"quantity"       validate:"min=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"     validate:"min=0"`
}

// AdjustStockRequest carries a signed delta: restock = positive,
// consumption = negative. Zero is rejected by the service.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredientResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	StrengthPct   float64         `json:"strength_pct"`
	UnitVolumeML  float64         `json:"unit_volume_ml"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalVolumeML float64         `json:"total_volume_ml"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

type StockMovementResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Delta          int     `json:"delta"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Reason         string  `json:"reason,omitempty"`
	SaleID         *string `json:"sale_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type LowStockAlertResponse struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Threshold    int    `json:"threshold"`
}

// StockValuationLine is one row of the valuation report: quantity × unit price.
type StockValuationLine struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Value        decimal.Decimal `json:"value"`
}

type StockValuationResponse struct {
	Lines      []StockValuationLine `json:"lines"`
	TotalValue decimal.Decimal      `json:"total_value"`
}

// PriceLookupResponse is returned by the public price endpoint (no auth).
type PriceLookupResponse struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
