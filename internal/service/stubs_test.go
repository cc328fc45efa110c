package service_test

import (
	"context"
	"sync"

	"barstock/internal/model"
	"barstock/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubIngredientRepo is an in-memory IngredientRepository. The mutex makes
// AdjustQuantityTx behave like the real guarded UPDATE under concurrency:
// check and decrement happen as one step.
type stubIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]*model.Ingredient
}

func newStubIngredientRepo() *stubIngredientRepo {
	return &stubIngredientRepo{ingredients: make(map[uuid.UUID]*model.Ingredient)}
}

func (r *stubIngredientRepo) Create(_ context.Context, i *model.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ingredients {
		if existing.Name == i.Name {
			return model.ErrDuplicateName
		}
	}
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.ingredients[i.ID] = i
	return nil
}

func (r *stubIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.ingredients[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *stubIngredientRepo) FindByName(_ context.Context, name string) (*model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.ingredients {
		if i.Name == name {
			cp := *i
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *stubIngredientRepo) List(_ context.Context) ([]model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Ingredient, 0, len(r.ingredients))
	for _, i := range r.ingredients {
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubIngredientRepo) ListBelow(_ context.Context, threshold int) ([]model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Ingredient
	for _, i := range r.ingredients {
		if i.Quantity <= threshold {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r *stubIngredientRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubIngredientRepo) AdjustQuantityTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.ingredients[id]
	if !ok {
		return model.ErrNotFound
	}
	if i.Quantity+delta < 0 {
		return model.ErrInsufficientStock
	}
	i.Quantity += delta
	return nil
}

func (r *stubIngredientRepo) DB() *gorm.DB { return nil }

var _ repository.IngredientRepository = (*stubIngredientRepo)(nil)

// stubCocktailRepo is an in-memory CocktailRepository that resolves recipe
// lines against a live ingredient stub, mirroring the Preload behavior.
type stubCocktailRepo struct {
	cocktails   map[uuid.UUID]*model.Cocktail
	ingredients *stubIngredientRepo
}

func newStubCocktailRepo(ingredients *stubIngredientRepo) *stubCocktailRepo {
	return &stubCocktailRepo{
		cocktails:   make(map[uuid.UUID]*model.Cocktail),
		ingredients: ingredients,
	}
}

func (r *stubCocktailRepo) Create(_ context.Context, c *model.Cocktail) error {
	for _, existing := range r.cocktails {
		if existing.Name == c.Name {
			return model.ErrDuplicateName
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Lines {
		c.Lines[i].CocktailID = c.ID
	}
	r.cocktails[c.ID] = c
	return nil
}

func (r *stubCocktailRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cocktail, error) {
	c, ok := r.cocktails[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *c
	cp.Lines = make([]model.CocktailIngredient, len(c.Lines))
	copy(cp.Lines, c.Lines)
	// Resolve live ingredient rows, like Preload("Lines.Ingredient") does.
	for i := range cp.Lines {
		if ing, err := r.ingredients.FindByID(context.Background(), cp.Lines[i].IngredientID); err == nil {
			cp.Lines[i].Ingredient = ing
		}
	}
	return &cp, nil
}

func (r *stubCocktailRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Cocktail, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCocktailRepo) List(_ context.Context) ([]model.Cocktail, error) {
	out := make([]model.Cocktail, 0, len(r.cocktails))
	for id := range r.cocktails {
		c, _ := r.FindByID(context.Background(), id)
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCocktailRepo) DB() *gorm.DB { return nil }

var _ repository.CocktailRepository = (*stubCocktailRepo)(nil)

// stubSaleRepo captures appended sales for assertion.
type stubSaleRepo struct {
	mu    sync.Mutex
	sales []*model.Sale
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *stubSaleRepo) ListRecent(_ context.Context, limit int) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Sale, 0, limit)
	for i := len(r.sales) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.sales[i])
	}
	return out, nil
}

func (r *stubSaleRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sales)), nil
}

func (r *stubSaleRepo) SumRevenue(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, s := range r.sales {
		total = total.Add(s.TotalPrice)
	}
	return total, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo records stock movements in memory.
type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByIngredient(_ context.Context, ingredientID uuid.UUID, limit int) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].IngredientID == ingredientID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedIngredient(repo *stubIngredientRepo, name string, strengthPct, unitVolumeML float64, quantity int, unitPrice float64) *model.Ingredient {
	ing := &model.Ingredient{
		ID:           uuid.New(),
		Name:         name,
		StrengthPct:  strengthPct,
		UnitVolumeML: unitVolumeML,
		Quantity:     quantity,
		UnitPrice:    decimal.NewFromFloat(unitPrice),
	}
	repo.ingredients[ing.ID] = ing
	return ing
}

func seedCocktail(repo *stubCocktailRepo, name string, price float64, lines ...model.CocktailIngredient) *model.Cocktail {
	c := &model.Cocktail{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromFloat(price),
		Lines: lines,
	}
	for i := range c.Lines {
		c.Lines[i].CocktailID = c.ID
		c.Lines[i].Position = i
	}
	repo.cocktails[c.ID] = c
	return c
}

func line(ing *model.Ingredient, volumeML float64) model.CocktailIngredient {
	return model.CocktailIngredient{IngredientID: ing.ID, VolumeML: volumeML}
}
