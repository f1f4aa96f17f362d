package mother

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	"github.com/rmagbanua/nanaycare-api/internal/middleware"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/mother"
	"github.com/rmagbanua/nanaycare-api/internal/service/record"
)

const (
	maxPhotoBytes      = 5 << 20
	maxAttachmentBytes = 10 << 20
)

type Handler struct {
	service   *mother.Service
	recordSvc *record.Service
}

func NewHandler(service *mother.Service, recordSvc *record.Service) *Handler {
	return &Handler{service: service, recordSvc: recordSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	staff := auth.RequireRole(model.RoleHealthWorker, model.RoleAdmin)
	selfOrStaff := auth.RequireMotherAccess("id")

	mothers := r.Group("/mothers")
	{
		mothers.POST("", staff, h.CreateMother)
		mothers.GET("", staff, h.ListMothers)
		mothers.GET("/:id", selfOrStaff, h.GetMother)
		mothers.PUT("/:id", staff, h.UpdateMother)
		mothers.DELETE("/:id", staff, h.DeleteMother)
		mothers.POST("/:id/photo", staff, h.UploadPhoto)

		mothers.POST("/:id/records", staff, h.CreateRecord)
		mothers.GET("/:id/records", selfOrStaff, h.ListRecords)
		mothers.GET("/:id/records/:recordId", selfOrStaff, h.GetRecord)
		mothers.PUT("/:id/records/:recordId", staff, h.UpdateRecord)
		mothers.POST("/:id/records/:recordId/attachment", staff, h.UploadAttachment)
	}
}

func (h *Handler) CreateMother(c *gin.Context) {
	var req model.CreateMotherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.CreateMother(c.Request.Context(), actorID(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(m))
}

func (h *Handler) ListMothers(c *gin.Context) {
	var filters model.MotherFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mothers, err := h.service.ListMothers(c.Request.Context(), &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(mothers))
}

func (h *Handler) GetMother(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	m, err := h.service.GetMother(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) UpdateMother(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.UpdateMotherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.UpdateMother(c.Request.Context(), actorID(c), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) DeleteMother(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	if err := h.service.DeleteMother(c.Request.Context(), actorID(c), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("photo file is required"))
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("photo exceeds size limit"))
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

	url, err := h.service.UploadPhoto(c.Request.Context(), actorID(c), id, fileHeader.Filename, data)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"url": url}))
}

func (h *Handler) CreateRecord(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	rec, err := h.recordSvc.CreateRecord(c.Request.Context(), actorID(c), motherID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) ListRecords(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	records, err := h.recordSvc.ListRecords(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) GetRecord(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	rec, err := h.recordSvc.GetRecord(c.Request.Context(), motherID, recordID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	var req model.UpdateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	rec, err := h.recordSvc.UpdateRecord(c.Request.Context(), actorID(c), motherID, recordID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

func (h *Handler) UploadAttachment(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	fileHeader, err := c.FormFile("attachment")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("attachment file is required"))
		return
	}
	if fileHeader.Size > maxAttachmentBytes {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("attachment exceeds size limit"))
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

	url, err := h.recordSvc.UploadAttachment(c.Request.Context(), actorID(c), motherID, recordID, fileHeader.Filename, data)
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
