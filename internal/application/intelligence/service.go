// Package intelligence provides the application-level service that runs the
// full advisory pipeline: SPI assessment, ethical safeguards, region
// synthesis, opportunity orchestration, and report delivery.  Infrastructure
// dependencies (cache, archive, event publisher) are optional; a nil
// dependency disables that concern without affecting report generation.
package intelligence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/ethics"
	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/opportunity"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/region"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/scoring"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/nsil"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// Service runs assessments and generates intelligence reports.
type Service interface {
	// Assess computes the SPI and runs the safeguard engine without
	// generating a report.  It never fails on profile content.
	Assess(ctx context.Context, profile domainMission.Profile) (*Assessment, error)

	// GenerateReport runs the full pipeline.  Blocked missions return an
	// ErrCodeSafeguardFailed error carrying the safeguard detail.
	GenerateReport(ctx context.Context, input *GenerateInput) (*Report, error)
}

// Assessment is the combined scoring and safeguard outcome.
type Assessment struct {
	SPI        scoring.Result     `json:"spi"`
	Safeguards ethics.CheckResult `json:"safeguards"`
}

// GenerateInput parameterizes one report generation run.
type GenerateInput struct {
	Profile domainMission.Profile `json:"profile"`
	// Mode is the analysis mode label, defaulting to Discovery.
	Mode string `json:"mode"`
	// CaseID pins the report identity; generated when empty.
	CaseID string `json:"case_id"`
}

// Report is the full pipeline output for one mission.
type Report struct {
	CaseID     string              `json:"case_id"`
	Assessment Assessment          `json:"assessment"`
	Region     region.Profile      `json:"region"`
	Details    opportunity.Details `json:"details"`
	NSIL       string              `json:"nsil"`
	Model      *nsil.RenderModel   `json:"model"`
	// ArchiveRef is the object-store location of the NSIL document, empty
	// when archiving is disabled or failed.
	ArchiveRef  string    `json:"archive_ref,omitempty"`
	FromCache   bool      `json:"from_cache"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReportCache stores rendered NSIL documents keyed by profile digest.
type ReportCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ReportArchive persists NSIL documents durably and returns a reference.
type ReportArchive interface {
	Store(ctx context.Context, caseID string, doc string) (string, error)
}

// EventPublisher emits pipeline events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// Event topics emitted by the service.
const (
	TopicReportGenerated  = "report.generated"
	TopicSafeguardBlocked = "safeguard.blocked"
)

// ReportGeneratedEvent is the payload published on TopicReportGenerated.
type ReportGeneratedEvent struct {
	CaseID       string    `json:"case_id"`
	OrgName      string    `json:"org_name"`
	Mode         string    `json:"mode"`
	TargetRegion string    `json:"target_region"`
	OverallScore int       `json:"overall_score"`
	IVASScore    int       `json:"ivas_score"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// SafeguardBlockedEvent is the payload published on TopicSafeguardBlocked.
type SafeguardBlockedEvent struct {
	CaseID    string    `json:"case_id"`
	OrgName   string    `json:"org_name"`
	Rules     []string  `json:"rules"`
	BlockedAt time.Time `json:"blocked_at"`
}

const defaultCacheTTL = 6 * time.Hour

type serviceImpl struct {
	cache       ReportCache
	archive     ReportArchive
	publisher   EventPublisher
	logger      logging.Logger
	group       singleflight.Group
	now         func() time.Time
	cacheTTL    time.Duration
	defaultMode string
}

// Option adjusts service construction.
type Option func(*serviceImpl)

// WithCacheTTL overrides how long rendered reports are served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *serviceImpl) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithDefaultMode sets the mode label applied when a request omits one.
func WithDefaultMode(mode string) Option {
	return func(s *serviceImpl) {
		if mode != "" {
			s.defaultMode = mode
		}
	}
}

// NewService constructs the intelligence service.  cache, archive, and
// publisher may each be nil.
func NewService(cache ReportCache, archive ReportArchive, publisher EventPublisher, logger logging.Logger, opts ...Option) Service {
	s := &serviceImpl{
		cache:     cache,
		archive:   archive,
		publisher: publisher,
		logger:    logger.Named("intelligence"),
		now:       func() time.Time { return time.Now().UTC() },
		cacheTTL:  defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) Assess(_ context.Context, profile domainMission.Profile) (*Assessment, error) {
	spi := scoring.CalculateSPI(profile)
	check := ethics.Evaluate(profile, spi)
	return &Assessment{SPI: spi, Safeguards: check}, nil
}

func (s *serviceImpl) GenerateReport(ctx context.Context, input *GenerateInput) (*Report, error) {
	if input.Mode == "" {
		input.Mode = s.defaultMode
	}
	assessment, _ := s.Assess(ctx, input.Profile)

	caseID := input.CaseID
	if caseID == "" {
		caseID = string(common.NewID())
	}

	if !assessment.Safeguards.Passed() {
		s.publishBlocked(ctx, caseID, input.Profile, assessment.Safeguards)
		err := errors.New(errors.ErrCodeSafeguardFailed, "mission blocked by ethical safeguards")
		if len(assessment.Safeguards.Flags) > 0 {
			err = err.WithDetail(assessment.Safeguards.Flags[0].Reason)
		}
		return nil, err
	}

	regionProfile := region.Synthesize(input.Profile)
	generatedAt := s.now()

	doc, fromCache, genErr := s.renderNSIL(ctx, input, regionProfile, caseID, generatedAt)
	if genErr != nil {
		return nil, genErr
	}

	model := nsil.Parse(doc)

	// A cached document carries the case id of the run that rendered it;
	// that id is the one the archive and any prior response refer to, so
	// the report must echo it rather than the freshly generated one.
	if fromCache && model.Meta != nil && model.Meta.CaseID != "" {
		caseID = model.Meta.CaseID
	}

	// Details are recomputed rather than cached; they are pure and cheap.
	details := opportunity.Orchestrate(regionProfile, opportunity.Options{
		CaseID: caseID,
		Mode:   input.Mode,
		Now:    generatedAt,
	}).Details

	report := &Report{
		CaseID:      caseID,
		Assessment:  *assessment,
		Region:      regionProfile,
		Details:     details,
		NSIL:        doc,
		Model:       model,
		FromCache:   fromCache,
		GeneratedAt: generatedAt,
	}

	if !fromCache {
		report.ArchiveRef = s.archiveReport(ctx, caseID, doc)
		s.publishGenerated(ctx, report, input.Profile.OrgName, input.Mode)
	}
	return report, nil
}

// renderNSIL returns the NSIL document for the input, serving repeat requests
// from the cache and collapsing concurrent identical requests.
func (s *serviceImpl) renderNSIL(ctx context.Context, input *GenerateInput, r region.Profile, caseID string, now time.Time) (string, bool, error) {
	key := cacheKey(input.Profile, input.Mode)

	if s.cache != nil {
		if doc, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("report cache read failed", logging.Err(err))
		} else if ok {
			return doc, true, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		res := opportunity.Orchestrate(r, opportunity.Options{
			CaseID: caseID,
			Mode:   input.Mode,
			Now:    now,
		})
		return res.NSILOutput, nil
	})
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrCodeReportGenerationFailed, "orchestrate report")
	}
	doc := v.(string)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, doc, s.cacheTTL); err != nil {
			s.logger.Warn("report cache write failed", logging.Err(err))
		}
	}
	return doc, false, nil
}

func (s *serviceImpl) archiveReport(ctx context.Context, caseID, doc string) string {
	if s.archive == nil {
		return ""
	}
	ref, err := s.archive.Store(ctx, caseID, doc)
	if err != nil {
		// Archiving is best-effort; the report is still returned.
		s.logger.Error("report archive failed",
			logging.String("case_id", caseID),
			logging.Err(err),
		)
		return ""
	}
	return ref
}

func (s *serviceImpl) publishGenerated(ctx context.Context, report *Report, orgName, mode string) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(ReportGeneratedEvent{
		CaseID:       report.CaseID,
		OrgName:      orgName,
		Mode:         mode,
		TargetRegion: report.Region.Name,
		OverallScore: opportunity.OverallScore(report.Details),
		IVASScore:    report.Details.IVAS.IVASScore,
		GeneratedAt:  report.GeneratedAt,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, TopicReportGenerated, report.CaseID, payload); err != nil {
		s.logger.Warn("publish report.generated failed", logging.Err(err))
	}
}

func (s *serviceImpl) publishBlocked(ctx context.Context, caseID string, profile domainMission.Profile, check ethics.CheckResult) {
	if s.publisher == nil {
		return
	}
	rules := make([]string, 0, len(check.Flags))
	for _, f := range check.Flags {
		rules = append(rules, f.Rule)
	}
	payload, err := json.Marshal(SafeguardBlockedEvent{
		CaseID:    caseID,
		OrgName:   profile.OrgName,
		Rules:     rules,
		BlockedAt: s.now(),
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, TopicSafeguardBlocked, caseID, payload); err != nil {
		s.logger.Warn("publish safeguard.blocked failed", logging.Err(err))
	}
}

// cacheKey digests the fields that influence report content.
func cacheKey(p domainMission.Profile, mode string) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(struct {
		Profile domainMission.Profile `json:"profile"`
		Mode    string                `json:"mode"`
	}{p, mode})
	return "report:" + hex.EncodeToString(h.Sum(nil)[:16])
}
