package material

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	"github.com/rmagbanua/nanaycare-api/internal/middleware"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/material"
)

const maxImageBytes = 10 << 20

type Handler struct {
	service *material.Service
}

func NewHandler(service *material.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	staff := auth.RequireRole(model.RoleHealthWorker, model.RoleAdmin)

	materials := r.Group("/materials")
	{
		materials.POST("", staff, h.CreateMaterial)
		materials.GET("", h.ListMaterials)
		materials.GET("/:id", h.GetMaterial)
		materials.PUT("/:id", staff, h.UpdateMaterial)
		materials.DELETE("/:id", staff, h.DeleteMaterial)
		materials.POST("/:id/image", staff, h.UploadImage)
		materials.POST("/:id/publish", staff, h.PublishMaterial)
	}
}

func (h *Handler) CreateMaterial(c *gin.Context) {
	var req model.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mat, err := h.service.CreateMaterial(c.Request.Context(), actorID(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(mat))
}

func (h *Handler) ListMaterials(c *gin.Context) {
	publishedOnly := c.Query("published") == "true"
	// Mother accounts only ever see published content.
	if model.UserRole(c.GetString("userRole")) == model.RoleMother {
		publishedOnly = true
	}

	materials, err := h.service.ListMaterials(c.Request.Context(), publishedOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(materials))
}

func (h *Handler) GetMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid material ID"))
		return
	}

	mat, err := h.service.GetMaterial(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !mat.Published && model.UserRole(c.GetString("userRole")) == model.RoleMother {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("material not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(mat))
}

func (h *Handler) UpdateMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid material ID"))
		return
	}

	var req model.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mat, err := h.service.UpdateMaterial(c.Request.Context(), actorID(c), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(mat))
}

func (h *Handler) DeleteMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid material ID"))
		return
	}

	if err := h.service.DeleteMaterial(c.Request.Context(), actorID(c), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) PublishMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid material ID"))
		return
	}

	mat, err := h.service.PublishMaterial(c.Request.Context(), actorID(c), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(mat))
}

func (h *Handler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid material ID"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("image file is required"))
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("image exceeds size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handler.Error(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handler.Error(c, err)
		return
	}

	url, err := h.service.UploadImage(c.Request.Context(), actorID(c), id, fileHeader.Filename, data)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"url": url}))
}

func actorID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
