package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/database/postgres"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

type MissionRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo domainMission.Repository
}

func (s *MissionRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	conn := postgres.NewConnectionWithDB(s.db, logging.NewNop())
	s.repo = NewPostgresMissionRepo(conn, logging.NewNop())
}

func (s *MissionRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func sampleProfile() *domainMission.Profile {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return &domainMission.Profile{
		ID:               common.ID("2f1f9f8a-5dc9-4f55-9c1e-8ab7c9d2e101"),
		OrgName:          "Harborline Logistics",
		OrgType:          domainMission.OrgPrivate,
		Country:          "Australia",
		City:             "Newcastle",
		TargetRegion:     "Oceania",
		TargetIndustries: []string{"logistics"},
		StrategicIntent:  "Sustainable regional distribution",
		ProblemStatement: "Cold chain gaps",
		Calibration: domainMission.Calibration{
			BudgetCeiling: domainMission.BudgetGrowth,
			Timeline:      domainMission.TimelineQuarter,
		},
		SkillLevel: domainMission.SkillExperienced,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func missionRows(p *domainMission.Profile) *sqlmock.Rows {
	industriesJSON, _ := json.Marshal(p.TargetIndustries)
	calibrationJSON, _ := json.Marshal(p.Calibration)
	return sqlmock.NewRows([]string{
		"id", "org_name", "org_type", "org_sub_type", "country", "city",
		"target_region", "target_industries", "strategic_intent", "problem_statement",
		"calibration", "skill_level", "created_at", "updated_at",
	}).AddRow(
		string(p.ID), p.OrgName, string(p.OrgType), p.OrgSubType, p.Country, p.City,
		p.TargetRegion, industriesJSON, p.StrategicIntent, p.ProblemStatement,
		calibrationJSON, string(p.SkillLevel), p.CreatedAt, p.UpdatedAt,
	)
}

func (s *MissionRepoTestSuite) TestCreate() {
	p := sampleProfile()

	s.mock.ExpectExec("INSERT INTO missions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Create(context.Background(), p))
}

func (s *MissionRepoTestSuite) TestGetByIDFound() {
	p := sampleProfile()

	s.mock.ExpectQuery("SELECT (.+) FROM missions WHERE id").
		WithArgs(string(p.ID)).
		WillReturnRows(missionRows(p))

	got, err := s.repo.GetByID(context.Background(), p.ID)

	s.NoError(err)
	s.Equal(p.OrgName, got.OrgName)
	s.Equal(p.TargetIndustries, got.TargetIndustries)
	s.Equal(p.Calibration, got.Calibration)
}

func (s *MissionRepoTestSuite) TestGetByIDNotFound() {
	s.mock.ExpectQuery("SELECT (.+) FROM missions WHERE id").
		WithArgs("missing").
		WillReturnRows(missionRows(sampleProfile()).RowError(0, sql.ErrNoRows))

	_, err := s.repo.GetByID(context.Background(), common.ID("missing"))

	s.Error(err)
}

func (s *MissionRepoTestSuite) TestGetByIDNoRows() {
	s.mock.ExpectQuery("SELECT (.+) FROM missions WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.GetByID(context.Background(), common.ID("missing"))

	s.True(errors.IsCode(err, errors.ErrCodeMissionNotFound))
}

func (s *MissionRepoTestSuite) TestUpdateMissing() {
	p := sampleProfile()

	s.mock.ExpectExec("UPDATE missions SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Update(context.Background(), p)

	s.True(errors.IsCode(err, errors.ErrCodeMissionNotFound))
}

func (s *MissionRepoTestSuite) TestDelete() {
	s.mock.ExpectExec("DELETE FROM missions").
		WithArgs("2f1f9f8a-5dc9-4f55-9c1e-8ab7c9d2e101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Delete(context.Background(), common.ID("2f1f9f8a-5dc9-4f55-9c1e-8ab7c9d2e101")))
}

func (s *MissionRepoTestSuite) TestList() {
	p := sampleProfile()

	s.mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery("SELECT (.+) FROM missions ORDER BY created_at").
		WithArgs(20, 0).
		WillReturnRows(missionRows(p))

	missions, total, err := s.repo.List(context.Background(), 1, 20)

	s.NoError(err)
	s.EqualValues(1, total)
	s.Len(missions, 1)
	s.Equal(p.OrgName, missions[0].OrgName)
}

func TestMissionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MissionRepoTestSuite))
}
