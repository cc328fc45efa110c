package service

import (
	"context"
	"fmt"

	"barstock/internal/dto"
	"barstock/internal/model"
	"barstock/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages cocktail recipes and their derived values. It reads
// the ingredient ledger but never mutates it: blended strength and total
// volume are recomputed from live ingredient rows on every read, so an edit to
// an ingredient's strength is reflected on the next cocktail read.
type CatalogService interface {
	AddCocktail(ctx context.Context, req dto.CreateCocktailRequest) (*dto.CocktailResponse, error)
	GetCocktail(ctx context.Context, id uuid.UUID) (*dto.CocktailResponse, error)
	ListCocktails(ctx context.Context) ([]dto.CocktailResponse, error)
	CheckAvailability(ctx context.Context, id uuid.UUID) (*dto.AvailabilityResponse, error)
}

type catalogService struct {
	repo           repository.CocktailRepository
	ingredientRepo repository.IngredientRepository
}

func NewCatalogService(repo repository.CocktailRepository, ingredientRepo repository.IngredientRepository) CatalogService {
	return &catalogService{repo: repo, ingredientRepo: ingredientRepo}
}

func (s *catalogService) AddCocktail(ctx context.Context, req dto.CreateCocktailRequest) (*dto.CocktailResponse, error) {
	if len(req.Lines) == 0 {
		return nil, model.ErrEmptyRecipe
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	seen := make(map[uuid.UUID]bool, len(req.Lines))
	lines := make([]model.CocktailIngredient, 0, len(req.Lines))
	for pos, line := range req.Lines {
		ingID, err := uuid.Parse(line.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("invalid ingredient_id: %w", err)
		}
		if line.VolumeML <= 0 {
			return nil, fmt.Errorf("volume_ml must be positive, got %v", line.VolumeML)
		}
		if seen[ingID] {
			return nil, fmt.Errorf("ingredient %s appears twice in the recipe", line.IngredientID)
		}
		seen[ingID] = true
		if _, err := s.ingredientRepo.FindByID(ctx, ingID); err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownIngredient, line.IngredientID)
		}
		lines = append(lines, model.CocktailIngredient{
			IngredientID: ingID,
			VolumeML:     line.VolumeML,
			Position:     pos,
		})
	}

	cocktail := &model.Cocktail{
		Name:  req.Name,
		Price: req.Price,
		Lines: lines,
	}
	if err := s.repo.Create(ctx, cocktail); err != nil {
		return nil, err
	}
	// Re-read to resolve ingredient rows for the derived values.
	return s.GetCocktail(ctx, cocktail.ID)
}

func (s *catalogService) GetCocktail(ctx context.Context, id uuid.UUID) (*dto.CocktailResponse, error) {
	cocktail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cocktailToResponse(cocktail), nil
}

func (s *catalogService) ListCocktails(ctx context.Context) ([]dto.CocktailResponse, error) {
	cocktails, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CocktailResponse, 0, len(cocktails))
	for i := range cocktails {
		resp = append(resp, *cocktailToResponse(&cocktails[i]))
	}
	return resp, nil
}

// CheckAvailability walks the recipe in line order and short-circuits on the
// first failing line. It performs no mutation and may run concurrently with
// anything; the sale path re-validates inside its own transaction.
func (s *catalogService) CheckAvailability(ctx context.Context, id uuid.UUID) (*dto.AvailabilityResponse, error) {
	cocktail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, line := range cocktail.Lines {
		ing, err := s.ingredientRepo.FindByID(ctx, line.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownIngredient, line.IngredientID)
		}
		if reason, ok := lineShortfall(ing, line.VolumeML); !ok {
			return &dto.AvailabilityResponse{
				CocktailID: id.String(),
				Available:  false,
				Reason:     reason,
			}, nil
		}
	}
	return &dto.AvailabilityResponse{CocktailID: id.String(), Available: true}, nil
}

// lineShortfall reports whether current stock covers one recipe line; when it
// does not, the returned reason names the ingredient and the shortfall.
func lineShortfall(ing *model.Ingredient, requiredML float64) (string, bool) {
	if ing.Quantity <= 0 {
		return fmt.Sprintf("out of stock for %s", ing.Name), false
	}
	available := ing.TotalVolumeML()
	if available < requiredML {
		return fmt.Sprintf("insufficient %s: need %g ml, have %g ml", ing.Name, requiredML, available), false
	}
	return "", true
}

// blendedStrength is the volume-weighted average alcohol percentage across
// the recipe: Σ(vol_i × strength_i) / Σ(vol_i), zero when total volume is zero.
func blendedStrength(lines []model.CocktailIngredient) (strengthPct, totalVolumeML float64) {
	var weighted float64
	for _, line := range lines {
		if line.Ingredient == nil {
			continue
		}
		weighted += line.VolumeML * line.Ingredient.StrengthPct
		totalVolumeML += line.VolumeML
	}
	if totalVolumeML == 0 {
		return 0, 0
	}
	return weighted / totalVolumeML, totalVolumeML
}

func cocktailToResponse(c *model.Cocktail) *dto.CocktailResponse {
	strength, volume := blendedStrength(c.Lines)
	lines := make([]dto.CocktailLineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		name := ""
		if line.Ingredient != nil {
			name = line.Ingredient.Name
		}
		lines = append(lines, dto.CocktailLineResponse{
			IngredientID: line.IngredientID.String(),
			Ingredient:   name,
			VolumeML:     line.VolumeML,
		})
	}
	return &dto.CocktailResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Price:              c.Price,
		BlendedStrengthPct: strength,
		TotalVolumeML:      volume,
		Lines:              lines,
	}
}
