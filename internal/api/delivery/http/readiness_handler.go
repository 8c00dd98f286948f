package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tradeidea/internal/api/service"
	"tradeidea/pkg/logger"
)

// ReadinessHandler handles HTTP requests for idea entry readiness.
type ReadinessHandler struct {
	readinessService service.ReadinessService
	logger           *logger.Logger
}

// NewReadinessHandler creates a new ReadinessHandler.
func NewReadinessHandler(readinessService service.ReadinessService, logger *logger.Logger) *ReadinessHandler {
	return &ReadinessHandler{readinessService: readinessService, logger: logger}
}

// RegisterRoutes registers the readiness routes to the ideas group.
func (h *ReadinessHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/readiness", h.GetReadiness)
}

// GetReadiness godoc
// @Summary Get idea entry readiness
// @Description Classify an idea as WAITING, CAN_ENTER or READY
// @Tags ideas
// @Produce  json
// @Param   id  path    int true    "Idea ID"
// @Success 200 {object} dto.ReadinessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ideas/{id}/readiness [get]
func (h *ReadinessHandler) GetReadiness(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid idea ID"})
	}

	readiness, err := h.readinessService.ForIdea(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to classify readiness", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to classify readiness"})
	}
	if readiness == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Idea not found"})
	}
	return c.JSON(http.StatusOK, readiness)
}
