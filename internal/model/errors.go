package model

import "errors"

// Error taxonomy shared by repositories and services. Handlers translate
// these into HTTP status codes; services may wrap them with fmt.Errorf("%w: …")
// to attach detail, so callers must match with errors.Is.
var (
	// ErrDuplicateName: uniqueness violation on ingredient/cocktail/user creation.
	ErrDuplicateName = errors.New("name already exists")

	// ErrNotFound: the referenced ingredient, cocktail, sale or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownIngredient: a recipe line references an absent ingredient.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrEmptyRecipe: a cocktail was submitted with no recipe lines.
	ErrEmptyRecipe = errors.New("recipe has no lines")

	// ErrInvalidQuantity: zero or negative where a positive value is required.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInsufficientStock: an availability check failed or a depletion would
	// drive an ingredient's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)
