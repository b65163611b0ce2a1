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
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/ethics"
	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/scoring"
)

type fakeIntelligenceService struct {
	assessment *intelligence.Assessment
	report     *intelligence.Report
	err        error
}

func (f *fakeIntelligenceService) Assess(ctx context.Context, profile domainMission.Profile) (*intelligence.Assessment, error) {
	return f.assessment, f.err
}

func (f *fakeIntelligenceService) GenerateReport(ctx context.Context, input *intelligence.GenerateInput) (*intelligence.Report, error) {
	return f.report, f.err
}

func assessmentRouter(svc intelligence.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAssessmentHandler(svc)
	r.POST("/api/v1/assessments/spi", h.SPI)
	r.POST("/api/v1/assessments/ethics", h.Ethics)
	return r
}

func TestSPIAssessment(t *testing.T) {
	r := assessmentRouter(&fakeIntelligenceService{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/assessments/spi", domainMission.Profile{
		OrgName:      "Harborline Logistics",
		OrgType:      "private",
		TargetRegion: "Australia",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data scoring.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Data.SPI, 0)
	assert.Len(t, resp.Data.Breakdown, 7)
}

func TestEthicsAssessment(t *testing.T) {
	svc := &fakeIntelligenceService{assessment: &intelligence.Assessment{
		SPI:        scoring.Result{SPI: 62},
		Safeguards: ethics.CheckResult{Score: 100},
	}}
	r := assessmentRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/assessments/ethics", domainMission.Profile{
		OrgName: "Harborline Logistics",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data intelligence.Assessment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 62, resp.Data.SPI.SPI)
	assert.Equal(t, 100, resp.Data.Safeguards.Score)
}

func TestAssessmentMalformedBody(t *testing.T) {
	r := assessmentRouter(&fakeIntelligenceService{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/assessments/spi", nil)
	// Empty body is not valid JSON.
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
