package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	"github.com/rmagbanua/nanaycare-api/internal/service/feed"
)

type Handler struct {
	service *feed.Service
}

func NewHandler(service *feed.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/feed", h.GetFeed)
}

// GetFeed compiles the notification feed for the authenticated mother.
// Accounts without a linked mother profile get an empty feed.
func (h *Handler) GetFeed(c *gin.Context) {
	motherID := uuid.Nil
	if raw := c.GetString("motherID"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err == nil {
			motherID = parsed
		}
	}

	items, err := h.service.Compile(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(items))
}
