package model

import (
	"time"

	"github.com/google/uuid"
)

// RiskLabel is the closed set of classifier outputs.
type RiskLabel string

const (
	RiskStable            RiskLabel = "Stable"
	RiskHighBloodPressure RiskLabel = "High Blood Pressure"
	RiskFever             RiskLabel = "Fever"
	RiskLowWeight         RiskLabel = "Low Weight"
	RiskChronicCondition  RiskLabel = "Chronic Condition"
)

// AtRisk reports whether the label counts toward the at-risk roster.
func (l RiskLabel) AtRisk() bool {
	return l != RiskStable
}

type RiskStatus string

const (
	RiskStatusPending  RiskStatus = "Pending"
	RiskStatusReviewed RiskStatus = "Reviewed"
	RiskStatusStable   RiskStatus = "Stable"
)

// RiskAssessment is the persisted, per-mother output of an aggregation pass.
// The label is always recomputed from the latest health record; only the
// status field is human-mutable, and a recompute overwrites it.
type RiskAssessment struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	MotherID           uuid.UUID  `db:"mother_id" json:"mother_id"`
	MotherName         string     `db:"mother_name" json:"mother_name"`
	Zone               string     `db:"zone" json:"zone"`
	Label              RiskLabel  `db:"label" json:"label"`
	Status             RiskStatus `db:"status" json:"status"`
	LastReadingSummary string     `db:"last_reading_summary" json:"last_reading_summary"`
	ComputedAt         time.Time  `db:"computed_at" json:"computed_at"`
}

type UpdateRiskStatusRequest struct {
	Status RiskStatus `json:"status" binding:"required,oneof=Pending Reviewed Stable"`
}

// RiskPassResult is what one aggregation pass returns to its caller.
type RiskPassResult struct {
	Roster     []*RiskAssessment `json:"roster"`
	AtRisk     int               `json:"at_risk"`
	NewAtRisk  int               `json:"new_at_risk"`
	DeltaNote  string            `json:"delta_note,omitempty"`
	ComputedAt time.Time         `json:"computed_at"`
}
