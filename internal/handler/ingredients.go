package handler

import (
	"net/http"
	"strconv"

	"barstock/internal/apierror"
	"barstock/internal/dto"
	"barstock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IngredientsHandler struct{ svc service.InventoryService }

func NewIngredientsHandler(svc service.InventoryService) *IngredientsHandler {
	return &IngredientsHandler{svc: svc}
}

// Create godoc
// @Summary      Register a new ingredient
// @Description  Adds an ingredient to the ledger. Names are unique; a duplicate returns 409 and leaves the ledger unchanged.
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateIngredientRequest true "Ingredient details"
// @Success      201  {object} dto.IngredientResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/ingredients [post]
func (h *IngredientsHandler) Create(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddIngredient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List all ingredients
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.IngredientResponse
// @Router       /v1/ingredients [get]
func (h *IngredientsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListIngredients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list ingredients"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a single ingredient
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ingredient UUID"
// @Success      200  {object} dto.IngredientResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ingredients/{id} [get]
func (h *IngredientsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustStock godoc
// @Summary      Manually adjust stock
// @Description  Applies a signed delta to the quantity. A delta that would drive stock negative is rejected atomically.
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Ingredient UUID"
// @Param        body body dto.AdjustStockRequest true "Signed delta and reason"
// @Success      200  {object} dto.IngredientResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ingredients/{id}/adjust [post]
func (h *IngredientsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustQuantity(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Restock godoc
// @Summary      Restock an ingredient
// @Description  Increases quantity by a strictly positive amount. No sale record is produced.
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Ingredient UUID"
// @Param        body body dto.RestockRequest true "Units to add"
// @Success      200  {object} dto.IngredientResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ingredients/{id}/restock [post]
func (h *IngredientsHandler) Restock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.RestockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Restock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      Stock movement history for an ingredient
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Ingredient UUID"
// @Param        limit query int    false "Max records (default 100)"
// @Success      200  {array} dto.StockMovementResponse
// @Router       /v1/ingredients/{id}/movements [get]
func (h *IngredientsHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.Movements(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary      Ingredients at or below the low-stock threshold
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.LowStockAlertResponse
// @Router       /v1/ingredients/alerts [get]
func (h *IngredientsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStockAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Valuation godoc
// @Summary      Total stock valuation
// @Description  Sums quantity × unit price across the ledger.
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.StockValuationResponse
// @Router       /v1/ingredients/valuation [get]
func (h *IngredientsHandler) Valuation(c *gin.Context) {
	resp, err := h.svc.StockValuation(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute valuation"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
