package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	appMission "github.com/nexus-advisory/nexus-intelligence/internal/application/mission"
	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/nsil"
)

// ArchiveReader retrieves archived NSIL documents.
type ArchiveReader interface {
	Fetch(ctx context.Context, caseID string) (string, error)
	DownloadURL(ctx context.Context, caseID string) (string, error)
}

// ReportHandler runs the report pipeline and serves archived output.
type ReportHandler struct {
	intelligence intelligence.Service
	missions     appMission.Service
	archive      ArchiveReader
	metrics      *prometheus.AppMetrics
}

// NewReportHandler builds the report handler. archive may be nil when
// the deployment runs without object storage; the archive endpoints
// then return 503. metrics may be nil.
func NewReportHandler(intel intelligence.Service, missions appMission.Service, archive ArchiveReader, metrics *prometheus.AppMetrics) *ReportHandler {
	return &ReportHandler{intelligence: intel, missions: missions, archive: archive, metrics: metrics}
}

// GenerateRequest triggers a pipeline run for a stored mission or an
// inline profile.
type GenerateRequest struct {
	MissionID string                 `json:"mission_id"`
	Profile   *domainMission.Profile `json:"profile"`
	Mode      string                 `json:"mode"`
	CaseID    string                 `json:"case_id"`
}

// Generate handles POST /api/v1/reports/generate.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid generate payload: "+err.Error()))
		return
	}

	var profile domainMission.Profile
	switch {
	case req.MissionID != "":
		stored, err := h.missions.GetByID(c.Request.Context(), req.MissionID)
		if err != nil {
			respondError(c, err)
			return
		}
		profile = *stored
	case req.Profile != nil:
		profile = *req.Profile
	default:
		respondError(c, errors.Validation("either mission_id or profile is required"))
		return
	}

	start := time.Now()
	report, err := h.intelligence.GenerateReport(c.Request.Context(), &intelligence.GenerateInput{
		Profile: profile,
		Mode:    req.Mode,
		CaseID:  req.CaseID,
	})
	if err != nil {
		if h.metrics != nil && errors.IsCode(err, errors.ErrCodeSafeguardFailed) {
			h.metrics.RecordSafeguardFlag("pipeline", "block")
		}
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		mode := req.Mode
		if mode == "" {
			mode = "Discovery"
		}
		h.metrics.RecordReport(mode, report.FromCache, time.Since(start))
		h.metrics.RecordCacheAccess("report", report.FromCache)
	}
	respond(c, http.StatusOK, report)
}

// archivedReport is the response body for archived document reads.
type archivedReport struct {
	CaseID string            `json:"case_id"`
	NSIL   string            `json:"nsil"`
	Model  *nsil.RenderModel `json:"model"`
}

// Get handles GET /api/v1/reports/:caseID. The raw document is
// returned alongside its parsed render model.
func (h *ReportHandler) Get(c *gin.Context) {
	if h.archive == nil {
		respondError(c, errors.New(errors.ErrCodeServiceUnavailable, "report archive is not configured"))
		return
	}

	caseID := c.Param("caseID")
	doc, err := h.archive.Fetch(c.Request.Context(), caseID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, archivedReport{
		CaseID: caseID,
		NSIL:   doc,
		Model:  nsil.Parse(doc),
	})
}

// Download handles GET /api/v1/reports/:caseID/download and redirects
// to a presigned object-storage URL.
func (h *ReportHandler) Download(c *gin.Context) {
	if h.archive == nil {
		respondError(c, errors.New(errors.ErrCodeServiceUnavailable, "report archive is not configured"))
		return
	}

	url, err := h.archive.DownloadURL(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
