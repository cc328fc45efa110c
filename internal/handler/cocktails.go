package handler

import (
	"net/http"

	"barstock/internal/apierror"
	"barstock/internal/dto"
	"barstock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CocktailsHandler struct{ svc service.CatalogService }

func NewCocktailsHandler(svc service.CatalogService) *CocktailsHandler {
	return &CocktailsHandler{svc: svc}
}

// Create godoc
// @Summary      Register a new cocktail recipe
// @Description  Recipe lines reference existing ingredients by id. Empty recipes and duplicate-ingredient lines are rejected.
// @Tags         cocktails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCocktailRequest true "Recipe"
// @Success      201  {object} dto.CocktailResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cocktails [post]
func (h *CocktailsHandler) Create(c *gin.Context) {
	var req dto.CreateCocktailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddCocktail(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List all cocktails with derived strength and volume
// @Tags         cocktails
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.CocktailResponse
// @Router       /v1/cocktails [get]
func (h *CocktailsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListCocktails(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list cocktails"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a single cocktail
// @Tags         cocktails
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Cocktail UUID"
// @Success      200  {object} dto.CocktailResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cocktails/{id} [get]
func (h *CocktailsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetCocktail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Availability godoc
// @Summary      Check whether a cocktail can be made right now
// @Description  Walks the recipe in line order and reports the first shortfall, or availability.
// @Tags         cocktails
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Cocktail UUID"
// @Success      200  {object} dto.AvailabilityResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cocktails/{id}/availability [get]
func (h *CocktailsHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.CheckAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
