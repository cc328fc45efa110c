package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cocktail is a named composite product defined by required volumes of
// ingredients. Immutable after creation. Blended strength and total volume are
// never stored — they are recomputed from live ingredient rows on every read.
type Cocktail struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Lines []CocktailIngredient `gorm:"foreignKey:CocktailID"`
}

// CocktailIngredient is one recipe line. Position preserves the submission
// order, which drives the short-circuit order of the availability check.
type CocktailIngredient struct {
	CocktailID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VolumeML     float64   `gorm:"not null"`
	Position     int       `gorm:"not null"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// TableName overrides GORM's pluralization (cocktail_ingredients, not
// cocktail_ingrediences).
func (CocktailIngredient) TableName() string { return "cocktail_ingredients" }
