// Package mission provides the application-level service for mission intake:
// create, read, update, delete, and list of mission profiles.  It sits
// between the HTTP handlers and the domain repository.
package mission

import (
	"context"
	"time"

	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// Service defines mission intake operations.
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*domainMission.Profile, error)
	GetByID(ctx context.Context, id string) (*domainMission.Profile, error)
	Update(ctx context.Context, id string, input *UpdateInput) (*domainMission.Profile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) (*ListResult, error)
}

// CreateInput carries a full mission intake submission.
type CreateInput struct {
	OrgName          string                    `json:"org_name"`
	OrgType          string                    `json:"org_type"`
	OrgSubType       string                    `json:"org_sub_type"`
	Country          string                    `json:"country"`
	City             string                    `json:"city"`
	TargetRegion     string                    `json:"target_region"`
	TargetIndustries []string                  `json:"target_industries"`
	StrategicIntent  string                    `json:"strategic_intent"`
	ProblemStatement string                    `json:"problem_statement"`
	Calibration      domainMission.Calibration `json:"calibration"`
	SkillLevel       string                    `json:"skill_level"`
}

// UpdateInput carries a partial mission update; nil fields are left as-is.
type UpdateInput struct {
	OrgName          *string                    `json:"org_name"`
	OrgSubType       *string                    `json:"org_sub_type"`
	Country          *string                    `json:"country"`
	City             *string                    `json:"city"`
	TargetRegion     *string                    `json:"target_region"`
	TargetIndustries []string                   `json:"target_industries"`
	StrategicIntent  *string                    `json:"strategic_intent"`
	ProblemStatement *string                    `json:"problem_statement"`
	Calibration      *domainMission.Calibration `json:"calibration"`
}

// ListResult is a page of mission profiles.
type ListResult struct {
	Missions   []*domainMission.Profile `json:"missions"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

type serviceImpl struct {
	repo   domainMission.Repository
	logger logging.Logger
}

// NewService constructs the mission application service.
func NewService(repo domainMission.Repository, logger logging.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger.Named("mission")}
}

func (s *serviceImpl) Create(ctx context.Context, input *CreateInput) (*domainMission.Profile, error) {
	now := time.Now().UTC()
	profile := &domainMission.Profile{
		ID:               common.NewID(),
		OrgName:          input.OrgName,
		OrgType:          domainMission.OrgType(input.OrgType),
		OrgSubType:       input.OrgSubType,
		Country:          input.Country,
		City:             input.City,
		TargetRegion:     input.TargetRegion,
		TargetIndustries: input.TargetIndustries,
		StrategicIntent:  input.StrategicIntent,
		ProblemStatement: input.ProblemStatement,
		Calibration:      input.Calibration,
		SkillLevel:       domainMission.SkillLevel(input.SkillLevel),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "create mission")
	}
	s.logger.Info("mission created",
		logging.String("mission_id", string(profile.ID)),
		logging.String("org_name", profile.OrgName),
	)
	return profile, nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id string) (*domainMission.Profile, error) {
	if id == "" {
		return nil, errors.InvalidParam("id is required")
	}
	return s.repo.GetByID(ctx, common.ID(id))
}

func (s *serviceImpl) Update(ctx context.Context, id string, input *UpdateInput) (*domainMission.Profile, error) {
	profile, err := s.repo.GetByID(ctx, common.ID(id))
	if err != nil {
		return nil, err
	}

	if input.OrgName != nil {
		profile.OrgName = *input.OrgName
	}
	if input.OrgSubType != nil {
		profile.OrgSubType = *input.OrgSubType
	}
	if input.Country != nil {
		profile.Country = *input.Country
	}
	if input.City != nil {
		profile.City = *input.City
	}
	if input.TargetRegion != nil {
		profile.TargetRegion = *input.TargetRegion
	}
	if input.TargetIndustries != nil {
		profile.TargetIndustries = input.TargetIndustries
	}
	if input.StrategicIntent != nil {
		profile.StrategicIntent = *input.StrategicIntent
	}
	if input.ProblemStatement != nil {
		profile.ProblemStatement = *input.ProblemStatement
	}
	if input.Calibration != nil {
		profile.Calibration = *input.Calibration
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "update mission")
	}
	return profile, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidParam("id is required")
	}
	if err := s.repo.Delete(ctx, common.ID(id)); err != nil {
		return err
	}
	s.logger.Info("mission deleted", logging.String("mission_id", id))
	return nil
}

func (s *serviceImpl) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	missions, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list missions")
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &ListResult{
		Missions:   missions,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
