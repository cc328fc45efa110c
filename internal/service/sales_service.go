package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"barstock/internal/dto"
	"barstock/internal/model"
	"barstock/internal/repository"
	"barstock/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesService executes sales atomically: availability is checked first, then
// every depletion and the sale record are committed as one transaction. On any
// failure nothing is retained — no partial depletion, no sale row.
type SalesService interface {
	SellCocktail(ctx context.Context, req dto.SellCocktailRequest) (*dto.SaleResponse, error)
	SellIngredient(ctx context.Context, req dto.SellIngredientRequest) (*dto.SaleResponse, error)
	RecentSales(ctx context.Context, limit int) ([]dto.SaleResponse, error)
	Report(ctx context.Context, limit int) (*dto.SalesReportResponse, error)
}

type salesService struct {
	repo           repository.SaleRepository
	ingredientRepo repository.IngredientRepository
	cocktailRepo   repository.CocktailRepository
	movementRepo   repository.StockMovementRepository
	catalog        CatalogService
	dispatcher     *worker.Dispatcher
	lowStockLimit  int
}

func NewSalesService(
	repo repository.SaleRepository,
	ingredientRepo repository.IngredientRepository,
	cocktailRepo repository.CocktailRepository,
	movementRepo repository.StockMovementRepository,
	catalog CatalogService,
	dispatcher *worker.Dispatcher,
	lowStockLimit int,
) SalesService {
	return &salesService{
		repo:           repo,
		ingredientRepo: ingredientRepo,
		cocktailRepo:   cocktailRepo,
		movementRepo:   movementRepo,
		catalog:        catalog,
		dispatcher:     dispatcher,
		lowStockLimit:  lowStockLimit,
	}
}

// unitsToConsume rounds partial units UP: selling a cocktail can consume more
// physical stock than the recipe strictly needs. Deliberate conservative
// policy — an opened bottle is treated as spent.
func unitsToConsume(requiredML, unitVolumeML float64) int {
	return int(math.Ceil(requiredML / unitVolumeML))
}

// ── SellCocktail ─────────────────────────────────────────────────────────────
// Steps:
//   1. Resolve the cocktail (NotFound if absent)
//   2. Pre-flight availability check for a precise reason string
//   3. BEGIN TX: append sale, then per line deplete ceil(need/unitVolume)
//      units via the guarded UPDATE and record the stock movement
//   4. COMMIT — a concurrent depletion makes the guard reject and the whole
//      transaction rolls back
//   5. (async) dispatch receipt / low-stock jobs, best effort

func (s *salesService) SellCocktail(ctx context.Context, req dto.SellCocktailRequest) (*dto.SaleResponse, error) {
	cocktailID, err := uuid.Parse(req.CocktailID)
	if err != nil {
		return nil, fmt.Errorf("invalid cocktail_id: %w", err)
	}

	cocktail, err := s.cocktailRepo.FindByID(ctx, cocktailID)
	if err != nil {
		return nil, err
	}

	avail, err := s.catalog.CheckAvailability(ctx, cocktailID)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, fmt.Errorf("%w: %s", model.ErrInsufficientStock, avail.Reason)
	}

	type depletion struct {
		ingredientID uuid.UUID
		name         string
		units        int
		after        int
	}
	var depleted []depletion

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		depleted = depleted[:0]

		sale = model.Sale{
			Kind:       model.SaleKindCocktail,
			ItemID:     cocktail.ID,
			Quantity:   1,
			TotalPrice: cocktail.Price,
		}
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		for _, line := range cocktail.Lines {
			// Re-read INSIDE the tx — unit volume and quantity may have moved
			// since the pre-flight check.
			ing, err := s.ingredientRepo.FindByIDTx(tx, line.IngredientID)
			if err != nil {
				return fmt.Errorf("%w: %s", model.ErrUnknownIngredient, line.IngredientID)
			}

			units := unitsToConsume(line.VolumeML, ing.UnitVolumeML)
			if err := s.ingredientRepo.AdjustQuantityTx(tx, ing.ID, -units); err != nil {
				if errors.Is(err, model.ErrInsufficientStock) {
					return fmt.Errorf("%w: insufficient %s: need %d units, have %d",
						model.ErrInsufficientStock, ing.Name, units, ing.Quantity)
				}
				return err
			}

			saleRef := sale.ID
			mov := &model.StockMovement{
				IngredientID:   ing.ID,
				Type:           MovementSale,
				Delta:          -units,
				QuantityBefore: ing.Quantity,
				QuantityAfter:  ing.Quantity - units,
				Reason:         fmt.Sprintf("sale of cocktail %s", cocktail.Name),
				SaleID:         &saleRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			depleted = append(depleted, depletion{
				ingredientID: ing.ID,
				name:         ing.Name,
				units:        units,
				after:        ing.Quantity - units,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async jobs — fire & forget
	if s.dispatcher != nil {
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
				SaleID:        sale.ID.String(),
				CustomerEmail: *req.CustomerEmail,
			})
		}
		for _, d := range depleted {
			if d.after <= s.lowStockLimit {
				_ = s.dispatcher.EnqueueLowStock(ctx, worker.LowStockJobPayload{
					IngredientID: d.ingredientID.String(),
					Name:         d.name,
					Quantity:     d.after,
				})
			}
		}
	}

	resp := saleToResponse(&sale)
	resp.Item = cocktail.Name
	return resp, nil
}

// ── SellIngredient ───────────────────────────────────────────────────────────

func (s *salesService) SellIngredient(ctx context.Context, req dto.SellIngredientRequest) (*dto.SaleResponse, error) {
	ingredientID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		return nil, fmt.Errorf("invalid ingredient_id: %w", err)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: sale quantity %d", model.ErrInvalidQuantity, req.Quantity)
	}

	ing, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}

	totalPrice := ing.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Re-read inside the tx for an accurate before/after on the movement.
		cur, err := s.ingredientRepo.FindByIDTx(tx, ingredientID)
		if err != nil {
			return err
		}

		sale = model.Sale{
			Kind:       model.SaleKindIngredient,
			ItemID:     ingredientID,
			Quantity:   req.Quantity,
			TotalPrice: totalPrice,
		}
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		if err := s.ingredientRepo.AdjustQuantityTx(tx, ingredientID, -req.Quantity); err != nil {
			if errors.Is(err, model.ErrInsufficientStock) {
				return fmt.Errorf("%w: insufficient %s: have %d, requested %d",
					model.ErrInsufficientStock, cur.Name, cur.Quantity, req.Quantity)
			}
			return err
		}

		saleRef := sale.ID
		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			IngredientID:   ingredientID,
			Type:           MovementSale,
			Delta:          -req.Quantity,
			QuantityBefore: cur.Quantity,
			QuantityAfter:  cur.Quantity - req.Quantity,
			Reason:         fmt.Sprintf("sale of %d × %s", req.Quantity, cur.Name),
			SaleID:         &saleRef,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
				SaleID:        sale.ID.String(),
				CustomerEmail: *req.CustomerEmail,
			})
		}
		if after := ing.Quantity - req.Quantity; after <= s.lowStockLimit {
			_ = s.dispatcher.EnqueueLowStock(ctx, worker.LowStockJobPayload{
				IngredientID: ing.ID.String(),
				Name:         ing.Name,
				Quantity:     after,
			})
		}
	}

	resp := saleToResponse(&sale)
	resp.Item = ing.Name
	return resp, nil
}

// ── Reporting ────────────────────────────────────────────────────────────────

func (s *salesService) RecentSales(ctx context.Context, limit int) ([]dto.SaleResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	sales, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		r := saleToResponse(&sales[i])
		r.Item = s.resolveItemName(ctx, &sales[i])
		resp = append(resp, *r)
	}
	return resp, nil
}

func (s *salesService) Report(ctx context.Context, limit int) (*dto.SalesReportResponse, error) {
	revenue, err := s.repo.SumRevenue(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.RecentSales(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &dto.SalesReportResponse{
		TotalRevenue: revenue,
		SaleCount:    count,
		Sales:        sales,
	}, nil
}

// resolveItemName looks up the referenced item's name for display. A dangling
// reference falls back to the raw id rather than failing the report.
func (s *salesService) resolveItemName(ctx context.Context, sale *model.Sale) string {
	switch sale.Kind {
	case model.SaleKindCocktail:
		if c, err := s.cocktailRepo.FindByID(ctx, sale.ItemID); err == nil {
			return c.Name
		}
	case model.SaleKindIngredient:
		if i, err := s.ingredientRepo.FindByID(ctx, sale.ItemID); err == nil {
			return i.Name
		}
	}
	return sale.ItemID.String()
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:         s.ID.String(),
		Kind:       s.Kind,
		ItemID:     s.ItemID.String(),
		Quantity:   s.Quantity,
		TotalPrice: s.TotalPrice,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}
