package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CocktailLineRequest is one recipe line. Line order in the request is
// preserved and drives the availability check's short-circuit order.
type CocktailLineRequest struct {
	IngredientID string  `json:"ingredient_id" validate:"required,uuid"`
	VolumeML     float64 `json:"volume_ml"     validate:"required,gt=0"`
}

type CreateCocktailRequest struct {
	Name  string                `json:"name"  validate:"required,min=1,max=120"`
	Price decimal.Decimal       `json:"price" validate:"min=0"`
	Lines []CocktailLineRequest `json:"lines" validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CocktailLineResponse struct {
	IngredientID string  `json:"ingredient_id"`
	Ingredient   string  `json:"ingredient"`
	VolumeML     float64 `json:"volume_ml"`
}

// CocktailResponse carries the raw recipe plus the two derived values,
// computed fresh from current ingredient state on every read.
type CocktailResponse struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Price              decimal.Decimal        `json:"price"`
	BlendedStrengthPct float64                `json:"blended_strength_pct"`
	TotalVolumeML      float64                `json:"total_volume_ml"`
	Lines              []CocktailLineResponse `json:"lines"`
}

type AvailabilityResponse struct {
	CocktailID string `json:"cocktail_id"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"` // first failing line, recipe order
}
