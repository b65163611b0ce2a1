package intelligence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/ethics"
	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
	gets  int
	sets  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]string{}} }

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.store[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.store[key] = value
	return nil
}

type fakeArchive struct {
	mu    sync.Mutex
	docs  map[string]string
	fail  bool
	calls int
}

func newFakeArchive() *fakeArchive { return &fakeArchive{docs: map[string]string{}} }

func (a *fakeArchive) Store(_ context.Context, caseID, doc string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.fail {
		return "", errors.Internal("object store offline")
	}
	a.docs[caseID] = doc
	return "reports/" + caseID + ".nsil", nil
}

type publishedEvent struct {
	Topic string
	Key   string
	Value []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic, key, value})
	return nil
}

func (p *fakePublisher) byTopic(topic string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func validProfile() domainMission.Profile {
	return domainMission.Profile{
		OrgName:          "Harborline Logistics",
		OrgType:          domainMission.OrgPrivate,
		Country:          "Australia",
		City:             "Newcastle",
		TargetRegion:     "Oceania",
		TargetIndustries: []string{"logistics"},
		StrategicIntent:  "Sustainable regional distribution",
		ProblemStatement: "Cold chain gaps across regional NSW",
		Calibration: domainMission.Calibration{
			BudgetCeiling:    domainMission.BudgetGrowth,
			Timeline:         domainMission.TimelineQuarter,
			CapabilitiesHave: []string{"fleet"},
			CapabilitiesNeed: []string{"capital"},
		},
	}
}

func blockedProfile() domainMission.Profile {
	p := validProfile()
	p.OrgName = ""
	return p
}

func TestAssess(t *testing.T) {
	svc := NewService(nil, nil, nil, logging.NewNop())

	a, err := svc.Assess(context.Background(), validProfile())

	require.NoError(t, err)
	assert.Greater(t, a.SPI.SPI, 0)
	assert.True(t, a.Safeguards.Passed())
}

func TestGenerateReportFullPipeline(t *testing.T) {
	cache := newFakeCache()
	archive := newFakeArchive()
	pub := &fakePublisher{}
	svc := NewService(cache, archive, pub, logging.NewNop())

	report, err := svc.GenerateReport(context.Background(), &GenerateInput{
		Profile: validProfile(),
		CaseID:  "case-0001",
	})

	require.NoError(t, err)
	assert.Equal(t, "case-0001", report.CaseID)
	assert.NotEmpty(t, report.NSIL)
	assert.False(t, report.FromCache)
	assert.NotEmpty(t, report.Details.LAIs)

	require.NotNil(t, report.Model)
	require.NotNil(t, report.Model.Score)
	assert.False(t, report.Model.Empty())

	assert.Equal(t, "reports/case-0001.nsil", report.ArchiveRef)
	assert.Equal(t, report.NSIL, archive.docs["case-0001"])

	events := pub.byTopic(TopicReportGenerated)
	require.Len(t, events, 1)
	assert.Equal(t, "case-0001", events[0].Key)
}

func TestGenerateReportServedFromCache(t *testing.T) {
	cache := newFakeCache()
	archive := newFakeArchive()
	pub := &fakePublisher{}
	svc := NewService(cache, archive, pub, logging.NewNop())

	input := &GenerateInput{Profile: validProfile(), CaseID: "case-0002"}
	first, err := svc.GenerateReport(context.Background(), input)
	require.NoError(t, err)

	second, err := svc.GenerateReport(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, first.FromCache)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.NSIL, second.NSIL)

	// Cached responses are not re-archived or re-announced.
	assert.Equal(t, 1, archive.calls)
	assert.Len(t, pub.byTopic(TopicReportGenerated), 1)
}

func TestGenerateReportCacheHitKeepsOriginalCaseID(t *testing.T) {
	cache := newFakeCache()
	archive := newFakeArchive()
	svc := NewService(cache, archive, nil, logging.NewNop())

	// Neither request pins a case id, so each run would otherwise mint
	// its own.
	input := &GenerateInput{Profile: validProfile()}
	first, err := svc.GenerateReport(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, first.CaseID)

	second, err := svc.GenerateReport(context.Background(), &GenerateInput{Profile: validProfile()})
	require.NoError(t, err)

	// The cached document was rendered and archived under the first run's
	// case id; the repeat response must point at that same id.
	assert.True(t, second.FromCache)
	assert.Equal(t, first.CaseID, second.CaseID)
	require.NotNil(t, second.Model.Meta)
	assert.Equal(t, first.CaseID, second.Model.Meta.CaseID)
	_, archived := archive.docs[second.CaseID]
	assert.True(t, archived)
}

func TestGenerateReportBlockedMission(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(nil, nil, pub, logging.NewNop())

	report, err := svc.GenerateReport(context.Background(), &GenerateInput{
		Profile: blockedProfile(),
		CaseID:  "case-0003",
	})

	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSafeguardFailed))

	events := pub.byTopic(TopicSafeguardBlocked)
	require.Len(t, events, 1)
	assert.Equal(t, "case-0003", events[0].Key)
}

func TestGenerateReportWithoutInfrastructure(t *testing.T) {
	svc := NewService(nil, nil, nil, logging.NewNop())

	report, err := svc.GenerateReport(context.Background(), &GenerateInput{
		Profile: validProfile(),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, report.CaseID)
	assert.Empty(t, report.ArchiveRef)
	assert.NotEmpty(t, report.NSIL)
}

func TestGenerateReportArchiveFailureIsNonFatal(t *testing.T) {
	archive := newFakeArchive()
	archive.fail = true
	svc := NewService(nil, archive, nil, logging.NewNop())

	report, err := svc.GenerateReport(context.Background(), &GenerateInput{
		Profile: validProfile(),
		CaseID:  "case-0004",
	})

	require.NoError(t, err)
	assert.Empty(t, report.ArchiveRef)
	assert.NotEmpty(t, report.NSIL)
}

func TestCacheKeyStability(t *testing.T) {
	a := cacheKey(validProfile(), "Discovery")
	b := cacheKey(validProfile(), "Discovery")
	assert.Equal(t, a, b)

	changed := validProfile()
	changed.TargetRegion = "Europe"
	assert.NotEqual(t, a, cacheKey(changed, "Discovery"))
	assert.NotEqual(t, a, cacheKey(validProfile(), "Deep Dive"))
}

func TestAssessCautionedMissionStillGeneratesReport(t *testing.T) {
	p := validProfile()
	p.Calibration.BudgetCeiling = domainMission.BudgetMicro
	p.Calibration.Timeline = domainMission.TimelineImmediate

	svc := NewService(nil, nil, nil, logging.NewNop())

	a, err := svc.Assess(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, ethics.SeverityCaution, a.Safeguards.OverallFlag)

	report, err := svc.GenerateReport(context.Background(), &GenerateInput{Profile: p})
	require.NoError(t, err)
	assert.NotEmpty(t, report.NSIL)
}
