package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/scoring"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

// AssessmentHandler exposes standalone scoring and safeguard checks on
// an inline mission profile, without persisting anything.
type AssessmentHandler struct {
	service intelligence.Service
}

// NewAssessmentHandler builds the assessment handler.
func NewAssessmentHandler(service intelligence.Service) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

func bindProfile(c *gin.Context) (domainMission.Profile, bool) {
	var profile domainMission.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, errors.Validation("invalid profile payload: "+err.Error()))
		return profile, false
	}
	return profile, true
}

// SPI handles POST /api/v1/assessments/spi. It scores the submitted
// profile and returns the factor breakdown.
func (h *AssessmentHandler) SPI(c *gin.Context) {
	profile, ok := bindProfile(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, scoring.CalculateSPI(profile))
}

// Ethics handles POST /api/v1/assessments/ethics. It returns the full
// assessment: SPI plus safeguard flags.
func (h *AssessmentHandler) Ethics(c *gin.Context) {
	profile, ok := bindProfile(c)
	if !ok {
		return
	}

	assessment, err := h.service.Assess(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, assessment)
}
