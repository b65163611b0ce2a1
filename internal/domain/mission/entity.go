// Package mission defines the MissionProfile aggregate: the user-supplied
// organization/strategy intake record that drives all scoring.  A profile is
// immutable for the duration of a scoring pass; the scoring engines accept it
// by value and never mutate it.
package mission

import (
	"strings"
	"time"

	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// OrgType classifies the submitting organization.
type OrgType string

const (
	OrgGovernment OrgType = "government"
	OrgPrivate    OrgType = "private"
	OrgNGO        OrgType = "ngo"
	OrgAcademic   OrgType = "academic"
	OrgIndividual OrgType = "individual"
)

// BudgetCeiling is the declared upper bound on deployable capital.
type BudgetCeiling string

const (
	BudgetMicro    BudgetCeiling = "micro"
	BudgetSeed     BudgetCeiling = "seed"
	BudgetGrowth   BudgetCeiling = "growth"
	BudgetFlagship BudgetCeiling = "flagship"
)

// Timeline is the declared activation horizon.
type Timeline string

const (
	TimelineImmediate Timeline = "immediate"
	TimelineQuarter   Timeline = "quarter"
	TimelineYear      Timeline = "year"
	TimelineMultiYear Timeline = "multi_year"
)

// SkillLevel is the self-reported operator experience.
type SkillLevel string

const (
	SkillNovice      SkillLevel = "novice"
	SkillExperienced SkillLevel = "experienced"
	SkillExpert      SkillLevel = "expert"
)

// Calibration carries the constraint block of the intake wizard.
type Calibration struct {
	BudgetCeiling    BudgetCeiling `json:"budget_ceiling"`
	Timeline         Timeline      `json:"timeline"`
	CapabilitiesHave []string      `json:"capabilities_have"`
	CapabilitiesNeed []string      `json:"capabilities_need"`
}

// Profile is the mission intake record.  Every field is optional as far as
// the scoring engines are concerned; they degrade to neutral defaults on
// missing data.  Validate applies the stricter rules used by the
// saved-profile store.
type Profile struct {
	ID               common.ID   `json:"id"`
	OrgName          string      `json:"org_name"`
	OrgType          OrgType     `json:"org_type"`
	OrgSubType       string      `json:"org_sub_type"`
	Country          string      `json:"country"`
	City             string      `json:"city"`
	TargetRegion     string      `json:"target_region"`
	TargetIndustries []string    `json:"target_industries"`
	StrategicIntent  string      `json:"strategic_intent"`
	ProblemStatement string      `json:"problem_statement"`
	Calibration      Calibration `json:"calibration"`
	SkillLevel       SkillLevel  `json:"skill_level"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Validate checks the minimal shape required before a profile may be saved.
// Scoring never calls Validate; it is a persistence-layer gate only.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.OrgName) == "" {
		return errors.New(errors.ErrCodeMissionInvalid, "org_name is required")
	}
	if strings.TrimSpace(p.TargetRegion) == "" {
		return errors.New(errors.ErrCodeMissionInvalid, "target_region is required")
	}
	switch p.OrgType {
	case "", OrgGovernment, OrgPrivate, OrgNGO, OrgAcademic, OrgIndividual:
	default:
		return errors.New(errors.ErrCodeMissionInvalid, "unknown org_type "+string(p.OrgType))
	}
	switch p.Calibration.BudgetCeiling {
	case "", BudgetMicro, BudgetSeed, BudgetGrowth, BudgetFlagship:
	default:
		return errors.New(errors.ErrCodeMissionInvalid, "unknown budget_ceiling "+string(p.Calibration.BudgetCeiling))
	}
	switch p.Calibration.Timeline {
	case "", TimelineImmediate, TimelineQuarter, TimelineYear, TimelineMultiYear:
	default:
		return errors.New(errors.ErrCodeMissionInvalid, "unknown timeline "+string(p.Calibration.Timeline))
	}
	return nil
}
