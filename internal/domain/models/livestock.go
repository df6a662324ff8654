package models

import (
	"strings"
	"time"
)

// Gender of an animal.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Stage is the production stage of a pig.
type Stage string

const (
	StagePiglet   Stage = "piglet"
	StageWeaner   Stage = "weaner"
	StageGrower   Stage = "grower"
	StageFinisher Stage = "finisher"
	StageGilt     Stage = "gilt"
	StageSow      Stage = "sow"
	StageBoar     Stage = "boar"
)

// Stages lists every known stage in herd order.
var Stages = []Stage{StagePiglet, StageWeaner, StageGrower, StageFinisher, StageGilt, StageSow, StageBoar}

// AnimalStatus tracks whether a pig is still on the farm.
type AnimalStatus string

const (
	StatusActive   AnimalStatus = "active"
	StatusSold     AnimalStatus = "sold"
	StatusDeceased AnimalStatus = "deceased"
	StatusCulled   AnimalStatus = "culled"
)

// Pig is a registry entry. SireID and DamID hold either the parent's TagID or its ID.
type Pig struct {
	ID        string       `bson:"_id" json:"id"`
	TagID     string       `bson:"tag_id" json:"tagId"`
	Name      string       `bson:"name,omitempty" json:"name,omitempty"`
	Breed     string       `bson:"breed" json:"breed"`
	Gender    Gender       `bson:"gender" json:"gender"`
	Stage     Stage        `bson:"stage" json:"stage"`
	Status    AnimalStatus `bson:"status" json:"status"`
	SireID    string       `bson:"sire_id,omitempty" json:"sireId,omitempty"`
	DamID     string       `bson:"dam_id,omitempty" json:"damId,omitempty"`
	WeightKg  float64      `bson:"weight_kg" json:"weightKg"`
	BirthDate time.Time    `bson:"birth_date,omitempty" json:"birthDate,omitempty"`
	Pen       string       `bson:"pen,omitempty" json:"pen,omitempty"`
	Notes     string       `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Normalize fills defaults for fields the registry form may omit.
func (p *Pig) Normalize() {
	p.TagID = strings.TrimSpace(p.TagID)
	p.Gender = Gender(strings.ToLower(string(p.Gender)))
	p.Stage = Stage(strings.ToLower(string(p.Stage)))
	p.Status = AnimalStatus(strings.ToLower(string(p.Status)))
	if p.Status == "" {
		p.Status = StatusActive
	}
}

// Validate checks the required registry fields.
func (p Pig) Validate() error {
	if p.TagID == "" {
		return invalid("tagId", "tag ID required")
	}
	switch p.Gender {
	case GenderMale, GenderFemale:
	default:
		return invalid("gender", "gender must be male or female")
	}
	if p.Stage != "" && !validStage(p.Stage) {
		return invalid("stage", "unknown stage "+string(p.Stage))
	}
	switch p.Status {
	case StatusActive, StatusSold, StatusDeceased, StatusCulled:
	default:
		return invalid("status", "unknown status "+string(p.Status))
	}
	if p.WeightKg < 0 {
		return invalid("weightKg", "weight must not be negative")
	}
	return nil
}

// Label is the human-facing identifier used in reports.
func (p Pig) Label() string {
	if p.Name != "" {
		return p.TagID + " (" + p.Name + ")"
	}
	return p.TagID
}

func validStage(s Stage) bool {
	for _, known := range Stages {
		if known == s {
			return true
		}
	}
	return false
}
