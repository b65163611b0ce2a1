package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/nsil"
)

type fakeArchiveReader struct {
	docs map[string]string
}

func (f *fakeArchiveReader) Fetch(ctx context.Context, caseID string) (string, error) {
	doc, ok := f.docs[caseID]
	if !ok {
		return "", errors.New(errors.ErrCodeReportNotFound, "archived report not found")
	}
	return doc, nil
}

func (f *fakeArchiveReader) DownloadURL(ctx context.Context, caseID string) (string, error) {
	if _, ok := f.docs[caseID]; !ok {
		return "", errors.New(errors.ErrCodeReportNotFound, "archived report not found")
	}
	return "https://minio.local/nexus-reports/reports/" + caseID + ".nsil?sig=abc", nil
}

func reportRouter(intel intelligence.Service, missions *fakeMissionService, archive ArchiveReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(intel, missions, archive, nil)
	r.POST("/api/v1/reports/generate", h.Generate)
	r.GET("/api/v1/reports/:caseID", h.Get)
	r.GET("/api/v1/reports/:caseID/download", h.Download)
	return r
}

func TestGenerateFromStoredMission(t *testing.T) {
	intel := &fakeIntelligenceService{report: &intelligence.Report{CaseID: "case-0001", NSIL: "<nsil:success/>"}}
	missions := &fakeMissionService{profile: sampleStoredProfile()}
	r := reportRouter(intel, missions, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reports/generate", GenerateRequest{MissionID: "mis-0001"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data intelligence.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "case-0001", resp.Data.CaseID)
}

func TestGenerateRequiresMissionOrProfile(t *testing.T) {
	r := reportRouter(&fakeIntelligenceService{}, &fakeMissionService{}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reports/generate", GenerateRequest{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGenerateMissingMission(t *testing.T) {
	missions := &fakeMissionService{err: errors.New(errors.ErrCodeMissionNotFound, "mission not found")}
	r := reportRouter(&fakeIntelligenceService{}, missions, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reports/generate", GenerateRequest{MissionID: "mis-missing"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateBlockedMission(t *testing.T) {
	intel := &fakeIntelligenceService{err: errors.New(errors.ErrCodeSafeguardFailed, "mission blocked by safeguards").
		WithDetail("restricted industry and region pairing")}
	missions := &fakeMissionService{profile: sampleStoredProfile()}
	r := reportRouter(intel, missions, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reports/generate", GenerateRequest{MissionID: "mis-0001"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "blocked by safeguards")
}

func TestGetArchivedReport(t *testing.T) {
	doc := "<nsil:success xmlns:nsil=\"NSIL-2.1\" case_id=\"case-0001\"></nsil:success>"
	archive := &fakeArchiveReader{docs: map[string]string{"case-0001": doc}}
	r := reportRouter(&fakeIntelligenceService{}, &fakeMissionService{}, archive)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/case-0001", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			CaseID string            `json:"case_id"`
			NSIL   string            `json:"nsil"`
			Model  *nsil.RenderModel `json:"model"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "case-0001", resp.Data.CaseID)
	assert.Equal(t, doc, resp.Data.NSIL)
	require.NotNil(t, resp.Data.Model)
}

func TestGetArchivedReportMissing(t *testing.T) {
	archive := &fakeArchiveReader{docs: map[string]string{}}
	r := reportRouter(&fakeIntelligenceService{}, &fakeMissionService{}, archive)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/case-missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWithoutArchiveConfigured(t *testing.T) {
	r := reportRouter(&fakeIntelligenceService{}, &fakeMissionService{}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/case-0001", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDownloadRedirects(t *testing.T) {
	archive := &fakeArchiveReader{docs: map[string]string{"case-0001": "doc"}}
	r := reportRouter(&fakeIntelligenceService{}, &fakeMissionService{}, archive)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/case-0001/download", nil)

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "reports/case-0001.nsil")
}
