package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SaleKindIngredient = "ingredient"
	SaleKindCocktail   = "cocktail"
)

// Sale is one append-only ledger entry. Rows are never updated or deleted.
// ItemID references an ingredient or a cocktail by id only — names are
// resolved at report time.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind       string          `gorm:"not null;index"` // "ingredient" | "cocktail"
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"` // always 1 for cocktail sales
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time       `gorm:"index"`
}
