package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SellCocktailRequest struct {
	CocktailID string `json:"cocktail_id" validate:"required,uuid"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type SellIngredientRequest struct {
	IngredientID  string  `json:"ingredient_id" validate:"required,uuid"`
	Quantity      int     `json:"quantity"      validate:"required,min=1"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Limit int `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"` // "ingredient" | "cocktail"
	ItemID     string          `json:"item_id"`
	Item       string          `json:"item"` // resolved name, falls back to the raw id
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  string          `json:"created_at"`
}

type SalesReportResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	SaleCount    int64           `json:"sale_count"`
	Sales        []SaleResponse  `json:"sales"` // newest first
}
