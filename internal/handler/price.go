package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"barstock/internal/apierror"
	"barstock/internal/dto"
	"barstock/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Unit price is immutable after registration, so a long TTL is safe.
const priceCacheTTL = 4 * time.Hour

// PriceHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type PriceHandler struct {
	repo repository.IngredientRepository
	rdb  *redis.Client
}

func NewPriceHandler(repo repository.IngredientRepository, rdb *redis.Client) *PriceHandler {
	return &PriceHandler{repo: repo, rdb: rdb}
}

// GetPriceByName godoc
// @Summary Price lookup by ingredient name (no authentication)
// @Tags price
// @Produce json
// @Param name path string true "Ingredient name"
// @Success 200 {object} dto.PriceLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/price/{name} [get]
func (h *PriceHandler) GetPriceByName(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()
	cacheKey := "price:" + name

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	ing, err := h.repo.FindByName(ctx, name)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("ingredient not found"))
		return
	}

	resp := dto.PriceLookupResponse{
		Name:      ing.Name,
		UnitPrice: ing.UnitPrice,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
