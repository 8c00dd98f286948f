package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tradeidea/internal/api/service"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
)

// RiskHandler handles HTTP requests for portfolio risk reports.
type RiskHandler struct {
	riskService service.RiskService
	logger      *logger.Logger
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService service.RiskService, logger *logger.Logger) *RiskHandler {
	return &RiskHandler{riskService: riskService, logger: logger}
}

// RegisterRoutes registers the risk routes to the users group.
func (h *RiskHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/risk-report", h.GetRiskReport)
	g.GET("/:id/position-evaluations", h.GetPositionEvaluations)
}

// GetRiskReport godoc
// @Summary Get a user's portfolio risk report
// @Description Weights, volatility, Sharpe, beta and concentration over the user's open positions
// @Tags users
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {object} signal.RiskReport
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id}/risk-report [get]
func (h *RiskHandler) GetRiskReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	report, err := h.riskService.ReportForUser(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, signal.ErrEmptyPortfolio) || errors.Is(err, signal.ErrNonPositiveValue) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to build risk report", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build risk report"})
	}
	return c.JSON(http.StatusOK, report)
}

// GetPositionEvaluations godoc
// @Summary Evaluate a user's open positions
// @Description Run the exit/accumulate evaluator over every open position
// @Tags users
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {array} dto.PositionEvaluationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id}/position-evaluations [get]
func (h *RiskHandler) GetPositionEvaluations(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	evaluations, err := h.riskService.EvaluatePositions(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to evaluate positions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to evaluate positions"})
	}
	return c.JSON(http.StatusOK, evaluations)
}
