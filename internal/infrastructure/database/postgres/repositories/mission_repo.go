package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/database/postgres"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

type postgresMissionRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresMissionRepo builds the mission repository on the shared pool.
func NewPostgresMissionRepo(conn *postgres.Connection, log logging.Logger) domainMission.Repository {
	return &postgresMissionRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
	}
}

const missionColumns = `id, org_name, org_type, org_sub_type, country, city, target_region, target_industries, strategic_intent, problem_statement, calibration, skill_level, created_at, updated_at`

func (r *postgresMissionRepo) Create(ctx context.Context, p *domainMission.Profile) error {
	query := `
		INSERT INTO missions (
			id, org_name, org_type, org_sub_type, country, city,
			target_region, target_industries, strategic_intent, problem_statement,
			calibration, skill_level, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	industriesJSON, _ := json.Marshal(p.TargetIndustries)
	calibrationJSON, _ := json.Marshal(p.Calibration)

	_, err := r.executor.ExecContext(ctx, query,
		string(p.ID), p.OrgName, string(p.OrgType), p.OrgSubType, p.Country, p.City,
		p.TargetRegion, industriesJSON, p.StrategicIntent, p.ProblemStatement,
		calibrationJSON, string(p.SkillLevel), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeMissionAlreadyExists, "mission already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert mission")
	}
	return nil
}

func (r *postgresMissionRepo) GetByID(ctx context.Context, id common.ID) (*domainMission.Profile, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1`
	row := r.executor.QueryRowContext(ctx, query, string(id))

	p, err := scanMission(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeMissionNotFound, "mission profile not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query mission")
	}
	return p, nil
}

func (r *postgresMissionRepo) Update(ctx context.Context, p *domainMission.Profile) error {
	query := `
		UPDATE missions SET
			org_name = $2, org_type = $3, org_sub_type = $4, country = $5, city = $6,
			target_region = $7, target_industries = $8, strategic_intent = $9,
			problem_statement = $10, calibration = $11, skill_level = $12, updated_at = $13
		WHERE id = $1
	`
	industriesJSON, _ := json.Marshal(p.TargetIndustries)
	calibrationJSON, _ := json.Marshal(p.Calibration)

	res, err := r.executor.ExecContext(ctx, query,
		string(p.ID), p.OrgName, string(p.OrgType), p.OrgSubType, p.Country, p.City,
		p.TargetRegion, industriesJSON, p.StrategicIntent, p.ProblemStatement,
		calibrationJSON, string(p.SkillLevel), p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update mission")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.New(errors.ErrCodeMissionNotFound, "mission profile not found")
	}
	return nil
}

func (r *postgresMissionRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM missions WHERE id = $1`, string(id))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete mission")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.New(errors.ErrCodeMissionNotFound, "mission profile not found")
	}
	return nil
}

func (r *postgresMissionRepo) List(ctx context.Context, page, pageSize int) ([]*domainMission.Profile, int64, error) {
	var total int64
	if err := r.executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM missions`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count missions")
	}

	query := `SELECT ` + missionColumns + `
		FROM missions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.executor.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list missions")
	}
	defer rows.Close()

	var out []*domainMission.Profile
	for rows.Next() {
		p, err := scanMission(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan mission row")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate mission rows")
	}
	return out, total, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMission(row rowScanner) (*domainMission.Profile, error) {
	var (
		p               domainMission.Profile
		id              string
		orgType         string
		skillLevel      string
		industriesJSON  []byte
		calibrationJSON []byte
	)
	err := row.Scan(
		&id, &p.OrgName, &orgType, &p.OrgSubType, &p.Country, &p.City,
		&p.TargetRegion, &industriesJSON, &p.StrategicIntent, &p.ProblemStatement,
		&calibrationJSON, &skillLevel, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = common.ID(id)
	p.OrgType = domainMission.OrgType(orgType)
	p.SkillLevel = domainMission.SkillLevel(skillLevel)
	if len(industriesJSON) > 0 {
		_ = json.Unmarshal(industriesJSON, &p.TargetIndustries)
	}
	if len(calibrationJSON) > 0 {
		_ = json.Unmarshal(calibrationJSON, &p.Calibration)
	}
	return &p, nil
}
