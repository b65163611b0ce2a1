package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMission "github.com/nexus-advisory/nexus-intelligence/internal/application/mission"
	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

type fakeMissionService struct {
	profile *domainMission.Profile
	list    *appMission.ListResult
	err     error
	deleted []string
}

func (f *fakeMissionService) Create(ctx context.Context, input *appMission.CreateInput) (*domainMission.Profile, error) {
	return f.profile, f.err
}

func (f *fakeMissionService) GetByID(ctx context.Context, id string) (*domainMission.Profile, error) {
	return f.profile, f.err
}

func (f *fakeMissionService) Update(ctx context.Context, id string, input *appMission.UpdateInput) (*domainMission.Profile, error) {
	return f.profile, f.err
}

func (f *fakeMissionService) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeMissionService) List(ctx context.Context, page, pageSize int) (*appMission.ListResult, error) {
	return f.list, f.err
}

func missionRouter(svc appMission.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMissionHandler(svc)
	r.POST("/api/v1/missions", h.Create)
	r.GET("/api/v1/missions", h.List)
	r.GET("/api/v1/missions/:id", h.Get)
	r.PUT("/api/v1/missions/:id", h.Update)
	r.DELETE("/api/v1/missions/:id", h.Delete)
	return r
}

func sampleStoredProfile() *domainMission.Profile {
	return &domainMission.Profile{
		ID:           common.ID("mis-0001"),
		OrgName:      "Harborline Logistics",
		OrgType:      "private",
		TargetRegion: "Australia",
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMissionCreate(t *testing.T) {
	svc := &fakeMissionService{profile: sampleStoredProfile()}
	r := missionRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/missions", appMission.CreateInput{
		OrgName:      "Harborline Logistics",
		TargetRegion: "Australia",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success bool                  `json:"success"`
		Data    domainMission.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Harborline Logistics", resp.Data.OrgName)
}

func TestMissionCreateMalformedBody(t *testing.T) {
	r := missionRouter(&fakeMissionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/missions", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp common.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.ErrCodeValidation), resp.Error.Code)
}

func TestMissionGetNotFound(t *testing.T) {
	svc := &fakeMissionService{err: errors.New(errors.ErrCodeMissionNotFound, "mission not found")}
	r := missionRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/missions/mis-missing", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp struct {
		Success bool                `json:"success"`
		Error   *common.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.ErrCodeMissionNotFound), resp.Error.Code)
}

func TestMissionInternalErrorIsMasked(t *testing.T) {
	svc := &fakeMissionService{err: errors.New(errors.ErrCodeDatabaseError, "pq: connection refused to 10.0.0.5")}
	r := missionRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/missions/mis-0001", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestMissionDelete(t *testing.T) {
	svc := &fakeMissionService{}
	r := missionRouter(svc)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/missions/mis-0001", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"mis-0001"}, svc.deleted)
}

func TestMissionList(t *testing.T) {
	svc := &fakeMissionService{list: &appMission.ListResult{
		Missions: []*domainMission.Profile{sampleStoredProfile()},
		Total:    1, Page: 1, PageSize: 20, TotalPages: 1,
	}}
	r := missionRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/missions?page=1&page_size=20", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Harborline Logistics")
}
