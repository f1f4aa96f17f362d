package assistant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	"github.com/rmagbanua/nanaycare-api/internal/middleware"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/assistant"
)

type Handler struct {
	service *assistant.Service
}

func NewHandler(service *assistant.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	staff := auth.RequireRole(model.RoleHealthWorker, model.RoleAdmin)

	group := r.Group("/assistant")
	{
		group.POST("/ask", h.Ask)
		group.GET("/entries", staff, h.ListEntries)
		group.POST("/entries", staff, h.CreateEntry)
		group.DELETE("/entries/:id", staff, h.DeleteEntry)
	}
}

func (h *Handler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	reply, err := h.service.Ask(c.Request.Context(), req.Question)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(reply))
}

func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.service.ListEntries(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req model.CreateQAEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), actorID(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid entry ID"))
		return
	}

	if err := h.service.DeleteEntry(c.Request.Context(), actorID(c), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func actorID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
