package models

import (
	"strings"
	"time"
)

// HealthKind classifies a vet suite entry.
type HealthKind string

const (
	HealthVaccination HealthKind = "vaccination"
	HealthTreatment   HealthKind = "treatment"
	HealthCheckup     HealthKind = "checkup"
)

// HealthRecord is one vet event on one pig.
type HealthRecord struct {
	ID             string     `bson:"_id" json:"id"`
	PigID          string     `bson:"pig_id" json:"pigId"`
	Date           time.Time  `bson:"date" json:"date"`
	Kind           HealthKind `bson:"kind" json:"kind"`
	Protocol       string     `bson:"protocol,omitempty" json:"protocol,omitempty"`
	Medication     string     `bson:"medication,omitempty" json:"medication,omitempty"`
	Dosage         string     `bson:"dosage,omitempty" json:"dosage,omitempty"`
	WithdrawalDays int        `bson:"withdrawal_days" json:"withdrawalDays"`
	NextDueDate    *time.Time `bson:"next_due_date,omitempty" json:"nextDueDate,omitempty"`
	Vet            string     `bson:"vet,omitempty" json:"vet,omitempty"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Validate checks the required health record fields.
func (h HealthRecord) Validate() error {
	if h.PigID == "" {
		return invalid("pigId", "pig required")
	}
	if h.Date.IsZero() {
		return invalid("date", "date required")
	}
	switch h.Kind {
	case HealthVaccination, HealthTreatment, HealthCheckup:
	default:
		return invalid("kind", "kind must be vaccination, treatment or checkup")
	}
	if h.WithdrawalDays < 0 {
		return invalid("withdrawalDays", "withdrawal days must not be negative")
	}
	return nil
}

// WithdrawalEnds is the first instant the animal is clear of this treatment.
func (h HealthRecord) WithdrawalEnds() time.Time {
	return h.Date.AddDate(0, 0, h.WithdrawalDays)
}

// Protocol is a reusable vaccination or treatment plan.
type Protocol struct {
	ID             string     `bson:"_id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Kind           HealthKind `bson:"kind" json:"kind"`
	Steps          []string   `bson:"steps,omitempty" json:"steps,omitempty"`
	WithdrawalDays int        `bson:"withdrawal_days" json:"withdrawalDays"`
	IntervalDays   int        `bson:"interval_days" json:"intervalDays"`
}

// Validate checks the required protocol fields.
func (p Protocol) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "protocol name required")
	}
	if p.WithdrawalDays < 0 || p.IntervalDays < 0 {
		return invalid("intervalDays", "day counts must not be negative")
	}
	return nil
}
