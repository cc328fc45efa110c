package repository

import (
	"context"
	"errors"

	"barstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CocktailRepository interface {
	// Create persists the cocktail and its recipe lines as one unit.
	Create(ctx context.Context, c *model.Cocktail) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cocktail, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cocktail, error)
	List(ctx context.Context) ([]model.Cocktail, error)
	DB() *gorm.DB
}

type cocktailRepo struct{ db *gorm.DB }

func NewCocktailRepository(db *gorm.DB) CocktailRepository { return &cocktailRepo{db: db} }

func (r *cocktailRepo) Create(ctx context.Context, c *model.Cocktail) error {
	// GORM inserts the Lines association inside the same implicit transaction.
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrDuplicateName
	}
	return err
}

// orderedLines keeps recipe lines in their submission order — the availability
// check short-circuits on the first failing line, so order is observable.
func orderedLines(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

func (r *cocktailRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cocktail, error) {
	var c model.Cocktail
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Preload("Lines.Ingredient").
		First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &c, err
}

func (r *cocktailRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cocktail, error) {
	var c model.Cocktail
	err := tx.
		Preload("Lines", orderedLines).
		Preload("Lines.Ingredient").
		First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &c, err
}

func (r *cocktailRepo) List(ctx context.Context) ([]model.Cocktail, error) {
	var cocktails []model.Cocktail
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Preload("Lines.Ingredient").
		Order("name ASC").
		Find(&cocktails).Error
	return cocktails, err
}

func (r *cocktailRepo) DB() *gorm.DB { return r.db }
