package repository

import (
	"context"
	"errors"

	"barstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientRepository is the sole authority for stock quantities. Services
// depend on this interface, not on the concrete GORM implementation, enabling
// clean unit testing via stubs.
type IngredientRepository interface {
	Create(ctx context.Context, i *model.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	FindByName(ctx context.Context, name string) (*model.Ingredient, error)
	List(ctx context.Context) ([]model.Ingredient, error)
	ListBelow(ctx context.Context, threshold int) ([]model.Ingredient, error)

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)

	// AdjustQuantityTx applies quantity += delta with the non-negative guard in
	// the UPDATE itself, making the depletion the authoritative check rather
	// than trusting any earlier read. Returns model.ErrInsufficientStock when
	// the guard rejects the delta, model.ErrNotFound when the id is absent.
	AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) Create(ctx context.Context, i *model.Ingredient) error {
	err := r.db.WithContext(ctx).Create(i).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrDuplicateName
	}
	return err
}

func (r *ingredientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).First(&i, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &i, err
}

func (r *ingredientRepo) FindByName(ctx context.Context, name string) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &i, err
}

func (r *ingredientRepo) List(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) ListBelow(ctx context.Context, threshold int) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity ASC, name ASC").
		Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := tx.First(&i, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &i, err
}

func (r *ingredientRepo) AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Ingredient{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&model.Ingredient{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return model.ErrNotFound
		}
		return model.ErrInsufficientStock
	}
	return nil
}

func (r *ingredientRepo) DB() *gorm.DB { return r.db }
