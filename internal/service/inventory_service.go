package service

import (
	"context"
	"fmt"

	"barstock/internal/dto"
	"barstock/internal/model"
	"barstock/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MovementSale    = "sale"
	MovementRestock = "restock"
	MovementManual  = "manual_adjustment"
)

// InventoryService is the business contract for the ingredient ledger:
// creation, reads, signed quantity adjustments, restocking, and the derived
// stock reports. All mutations run inside a transaction together with their
// movement record.
type InventoryService interface {
	AddIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error)
	ListIngredients(ctx context.Context) ([]dto.IngredientResponse, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.IngredientResponse, error)
	Restock(ctx context.Context, id uuid.UUID, req dto.RestockRequest) (*dto.IngredientResponse, error)
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
	LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertResponse, error)
	StockValuation(ctx context.Context) (*dto.StockValuationResponse, error)
}

type inventoryService struct {
	repo          repository.IngredientRepository
	movementRepo  repository.StockMovementRepository
	lowStockLimit int
}

func NewInventoryService(
	repo repository.IngredientRepository,
	movementRepo repository.StockMovementRepository,
	lowStockLimit int,
) InventoryService {
	return &inventoryService{repo: repo, movementRepo: movementRepo, lowStockLimit: lowStockLimit}
}

func (s *inventoryService) AddIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	// Documented invariants, enforced here as well as by the DTO tags so
	// non-HTTP callers get the same guarantees.
	if req.StrengthPct < 0 || req.StrengthPct > 100 {
		return nil, fmt.Errorf("strength_pct must be between 0 and 100, got %v", req.StrengthPct)
	}
	if req.UnitVolumeML <= 0 {
		return nil, fmt.Errorf("unit_volume_ml must be positive, got %v", req.UnitVolumeML)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: initial quantity %d", model.ErrInvalidQuantity, req.Quantity)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit_price must not be negative")
	}

	ing := &model.Ingredient{
		Name:         req.Name,
		StrengthPct:  req.StrengthPct,
		UnitVolumeML: req.UnitVolumeML,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ingredientToResponse(ing), nil
}

func (s *inventoryService) GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error) {
	ing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ingredientToResponse(ing), nil
}

func (s *inventoryService) ListIngredients(ctx context.Context) ([]dto.IngredientResponse, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.IngredientResponse, len(ingredients))
	for i := range ingredients {
		resp[i] = *ingredientToResponse(&ingredients[i])
	}
	return resp, nil
}

// AdjustQuantity applies a signed delta. The repository's guarded UPDATE is
// authoritative: a delta that would drive quantity below zero fails with
// ErrInsufficientStock and nothing is written, movement record included.
func (s *inventoryService) AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.IngredientResponse, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta must be non-zero", model.ErrInvalidQuantity)
	}
	reason := req.Reason
	if reason == "" {
		reason = "manual adjustment"
	}
	if err := s.applyDelta(ctx, id, req.Delta, MovementManual, reason, nil); err != nil {
		return nil, err
	}
	return s.GetIngredient(ctx, id)
}

// Restock increases on-hand quantity. Strictly positive; no sale record.
func (s *inventoryService) Restock(ctx context.Context, id uuid.UUID, req dto.RestockRequest) (*dto.IngredientResponse, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity %d", model.ErrInvalidQuantity, req.Quantity)
	}
	reason := fmt.Sprintf("restock +%d", req.Quantity)
	if err := s.applyDelta(ctx, id, req.Quantity, MovementRestock, reason, nil); err != nil {
		return nil, err
	}
	return s.GetIngredient(ctx, id)
}

func (s *inventoryService) applyDelta(ctx context.Context, id uuid.UUID, delta int, movType, reason string, saleID *uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		before, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.repo.AdjustQuantityTx(tx, id, delta); err != nil {
			return err
		}
		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			IngredientID:   id,
			Type:           movType,
			Delta:          delta,
			QuantityBefore: before.Quantity,
			QuantityAfter:  before.Quantity + delta,
			Reason:         reason,
			SaleID:         saleID,
		})
	})
}

func (s *inventoryService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListByIngredient(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var saleID *string
		if m.SaleID != nil {
			sid := m.SaleID.String()
			saleID = &sid
		}
		resp = append(resp, dto.StockMovementResponse{
			ID:             m.ID.String(),
			Type:           m.Type,
			Delta:          m.Delta,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reason:         m.Reason,
			SaleID:         saleID,
			CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return resp, nil
}

func (s *inventoryService) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertResponse, error) {
	ingredients, err := s.repo.ListBelow(ctx, s.lowStockLimit)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		alerts = append(alerts, dto.LowStockAlertResponse{
			IngredientID: ing.ID.String(),
			Name:         ing.Name,
			Quantity:     ing.Quantity,
			Threshold:    s.lowStockLimit,
		})
	}
	return alerts, nil
}

func (s *inventoryService) StockValuation(ctx context.Context) (*dto.StockValuationResponse, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockValuationResponse{
		Lines:      make([]dto.StockValuationLine, 0, len(ingredients)),
		TotalValue: decimal.Zero,
	}
	for _, ing := range ingredients {
		value := ing.StockValue()
		resp.Lines = append(resp.Lines, dto.StockValuationLine{
			IngredientID: ing.ID.String(),
			Name:         ing.Name,
			Quantity:     ing.Quantity,
			UnitPrice:    ing.UnitPrice,
			Value:        value,
		})
		resp.TotalValue = resp.TotalValue.Add(value)
	}
	return resp, nil
}

func ingredientToResponse(i *model.Ingredient) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:            i.ID.String(),
		Name:          i.Name,
		StrengthPct:   i.StrengthPct,
		UnitVolumeML:  i.UnitVolumeML,
		Quantity:      i.Quantity,
		UnitPrice:     i.UnitPrice,
		TotalVolumeML: i.TotalVolumeML(),
		StockValue:    i.StockValue(),
	}
}
