package risk

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/risk"
)

type Handler struct {
	service *risk.Service
}

func NewHandler(service *risk.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/risk")
	{
		group.GET("/roster", h.GetRoster)
		group.POST("/refresh", h.Refresh)
		group.GET("/:motherId", h.GetAssessment)
		group.PUT("/:motherId/status", h.UpdateStatus)
	}
}

func (h *Handler) GetRoster(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Query("zone"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(roster))
}

func (h *Handler) Refresh(c *gin.Context) {
	result, err := h.service.RunPass(c.Request.Context(), c.Query("zone"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) GetAssessment(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("motherId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	assessment, err := h.service.Assessment(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(assessment))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("motherId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.UpdateRiskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), motherID, req.Status); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"mother_id": motherID,
		"status":    req.Status,
	}))
}
