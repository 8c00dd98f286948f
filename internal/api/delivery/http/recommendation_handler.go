package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradeidea/internal/api/service"
	"tradeidea/pkg/logger"
)

// RecommendationHandler handles HTTP requests for recommendations.
type RecommendationHandler struct {
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService service.RecommendationService, logger *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, logger: logger}
}

// RegisterRoutes registers the recommendation routes to the Echo group.
func (h *RecommendationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAll)
	g.GET("/:symbol", h.GetBySymbol)
}

// GetAll godoc
// @Summary List recommendations
// @Description Get the latest archetype recommendation for every symbol
// @Tags recommendations
// @Produce  json
// @Success 200 {array} dto.RecommendationResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations [get]
func (h *RecommendationHandler) GetAll(c echo.Context) error {
	recommendations, err := h.recommendationService.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get recommendations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get recommendations"})
	}
	return c.JSON(http.StatusOK, recommendations)
}

// GetBySymbol godoc
// @Summary Get a recommendation by symbol
// @Description Get the latest archetype recommendation for one symbol
// @Tags recommendations
// @Produce  json
// @Param   symbol  path    string true    "Stock symbol"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations/{symbol} [get]
func (h *RecommendationHandler) GetBySymbol(c echo.Context) error {
	symbol := c.Param("symbol")

	recommendation, err := h.recommendationService.GetBySymbol(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("Failed to get recommendation",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get recommendation"})
	}
	if recommendation == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Recommendation not found"})
	}
	return c.JSON(http.StatusOK, recommendation)
}
