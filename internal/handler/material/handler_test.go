package material

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/audit"
	"github.com/rmagbanua/nanaycare-api/internal/service/material"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

type fakeMaterialRepo struct {
	materials []*model.EducationalMaterial
}

func (f *fakeMaterialRepo) Create(context.Context, *model.EducationalMaterial) error { return nil }
func (f *fakeMaterialRepo) Get(context.Context, uuid.UUID) (*model.EducationalMaterial, error) {
	return nil, nil
}
func (f *fakeMaterialRepo) Update(context.Context, *model.EducationalMaterial) error { return nil }
func (f *fakeMaterialRepo) Delete(context.Context, uuid.UUID) error                  { return nil }
func (f *fakeMaterialRepo) List(_ context.Context, publishedOnly bool) ([]*model.EducationalMaterial, error) {
	var out []*model.EducationalMaterial
	for _, m := range f.materials {
		if !publishedOnly || m.Published {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeMaterialRepo) ListRecentPublished(context.Context, int) ([]*model.EducationalMaterial, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(context.Context, *model.AuditLog) error { return nil }
func (f *fakeAuditRepo) List(context.Context, string, uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

type listEnvelope struct {
	Status string                       `json:"status"`
	Data   []*model.EducationalMaterial `json:"data"`
}

func listAs(t *testing.T, h *Handler, role string, query string) *listEnvelope {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/materials"+query, nil)
	c.Set("userRole", role)

	h.ListMaterials(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return &envelope
}

func TestListMaterialsMotherSeesPublishedOnly(t *testing.T) {
	repo := &fakeMaterialRepo{materials: []*model.EducationalMaterial{
		{Base: model.Base{ID: uuid.New()}, Title: "Draft tips", Published: false},
		{Base: model.Base{ID: uuid.New()}, Title: "Iron-Rich Foods", Published: true},
	}}
	log := logger.NewLogger(nil)
	h := NewHandler(material.NewService(repo, audit.NewService(&fakeAuditRepo{}, log), nil))

	// Omitting the published filter must not expose drafts to mothers.
	envelope := listAs(t, h, string(model.RoleMother), "")
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Iron-Rich Foods", envelope.Data[0].Title)

	envelope = listAs(t, h, string(model.RoleMother), "?published=false")
	require.Len(t, envelope.Data, 1)
	assert.True(t, envelope.Data[0].Published)
}

func TestListMaterialsStaffSeesDrafts(t *testing.T) {
	repo := &fakeMaterialRepo{materials: []*model.EducationalMaterial{
		{Base: model.Base{ID: uuid.New()}, Title: "Draft tips", Published: false},
		{Base: model.Base{ID: uuid.New()}, Title: "Iron-Rich Foods", Published: true},
	}}
	log := logger.NewLogger(nil)
	h := NewHandler(material.NewService(repo, audit.NewService(&fakeAuditRepo{}, log), nil))

	envelope := listAs(t, h, string(model.RoleHealthWorker), "")
	assert.Len(t, envelope.Data, 2)
}
