package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a stocked, purchasable liquid item. Quantity counts whole
// physical units of UnitVolumeML each; it is only ever mutated through signed
// deltas and must never rest below zero. There is no delete or price-update
// operation for ingredients.
type Ingredient struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string          `gorm:"uniqueIndex;not null"`
	StrengthPct  float64         `gorm:"type:decimal(5,2);not null"`
	UnitVolumeML float64         `gorm:"not null"`
	Quantity     int             `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalVolumeML is the volume currently on hand across all units.
func (i *Ingredient) TotalVolumeML() float64 {
	return i.UnitVolumeML * float64(i.Quantity)
}

// StockValue is quantity × unit price, used by the valuation report.
func (i *Ingredient) StockValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
