package handler

import (
	"net/http"

	"barstock/internal/apierror"
	"barstock/internal/dto"
	"barstock/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SalesService }

func NewSalesHandler(svc service.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// SellCocktail godoc
// @Summary      Sell one cocktail
// @Description  Atomically depletes every recipe ingredient (partial units round up) and appends a sale record. On any shortfall nothing changes.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SellCocktailRequest true "Cocktail to sell"
// @Success      201  {object} dto.SaleResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/cocktail [post]
func (h *SalesHandler) SellCocktail(c *gin.Context) {
	var req dto.SellCocktailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SellCocktail(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SellIngredient godoc
// @Summary      Sell ingredient units directly
// @Description  Depletes whole units and appends a sale record priced at quantity × unit price.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SellIngredientRequest true "Ingredient and quantity"
// @Success      201  {object} dto.SaleResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/ingredient [post]
func (h *SalesHandler) SellIngredient(c *gin.Context) {
	var req dto.SellIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SellIngredient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Recent sales, newest first
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max records (default 100, max 500)"
// @Success      200  {array} dto.SaleResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.RecentSales(c.Request.Context(), filter.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary      Sales report with total revenue and count
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max recent sales in the report (default 100)"
// @Success      200  {object} dto.SalesReportResponse
// @Router       /v1/sales/report [get]
func (h *SalesHandler) Report(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), filter.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
