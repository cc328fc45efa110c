package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every quantity change on an ingredient. One row is
// written inside the same transaction as the change itself (sale, restock, or
// manual adjustment), so the movement history never disagrees with the ledger.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredientID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"not null"` // "sale" | "restock" | "manual_adjustment"
	Delta          int       `gorm:"not null"` // positive = intake, negative = depletion
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string
	SaleID         *uuid.UUID `gorm:"type:uuid"` // set for movements caused by a sale
	CreatedAt      time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}
