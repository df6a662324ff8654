package models

import (
	"strings"
	"time"
)

// Field is a cultivated plot.
type Field struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	AreaHa   float64 `bson:"area_ha" json:"areaHa"`
	SoilType string  `bson:"soil_type,omitempty" json:"soilType,omitempty"`
}

// Validate checks the required field attributes.
func (f *Field) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "field name required")
	}
	if f.AreaHa <= 0 {
		return invalid("areaHa", "area must be positive")
	}
	return nil
}

// Crop is a catalog entry for something that can be planted.
type Crop struct {
	ID             string `bson:"_id" json:"id"`
	Name           string `bson:"name" json:"name"`
	Variety        string `bson:"variety,omitempty" json:"variety,omitempty"`
	DaysToMaturity int    `bson:"days_to_maturity" json:"daysToMaturity"`
}

// Validate checks the required crop fields.
func (c *Crop) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "crop name required")
	}
	if c.DaysToMaturity < 0 {
		return invalid("daysToMaturity", "days to maturity must not be negative")
	}
	return nil
}

// CycleStatus tracks a crop cycle.
type CycleStatus string

const (
	CyclePlanted   CycleStatus = "planted"
	CycleGrowing   CycleStatus = "growing"
	CycleHarvested CycleStatus = "harvested"
	CycleFailed    CycleStatus = "failed"
)

// CropCycle is one planting of a crop on a field.
type CropCycle struct {
	ID              string      `bson:"_id" json:"id"`
	FieldID         string      `bson:"field_id" json:"fieldId"`
	CropID          string      `bson:"crop_id" json:"cropId"`
	PlantedOn       time.Time   `bson:"planted_on" json:"plantedOn"`
	ExpectedHarvest time.Time   `bson:"expected_harvest" json:"expectedHarvest"`
	Status          CycleStatus `bson:"status" json:"status"`
	YieldKg         float64     `bson:"yield_kg" json:"yieldKg"`
	SalePricePerKg  float64     `bson:"sale_price_per_kg,omitempty" json:"salePricePerKg,omitempty"`
}

// Validate checks the required cycle fields.
func (c *CropCycle) Validate() error {
	if c.FieldID == "" {
		return invalid("fieldId", "field required")
	}
	if c.CropID == "" {
		return invalid("cropId", "crop required")
	}
	if c.PlantedOn.IsZero() {
		return invalid("plantedOn", "planting date required")
	}
	if c.Status == "" {
		c.Status = CyclePlanted
	}
	switch c.Status {
	case CyclePlanted, CycleGrowing, CycleHarvested, CycleFailed:
	default:
		return invalid("status", "unknown cycle status "+string(c.Status))
	}
	if c.YieldKg < 0 || c.SalePricePerKg < 0 {
		return invalid("yieldKg", "yield and price must not be negative")
	}
	return nil
}

// CropActivity is a costed operation within a cycle (planting, spraying, harvest...).
type CropActivity struct {
	ID      string    `bson:"_id" json:"id"`
	CycleID string    `bson:"cycle_id" json:"cycleId"`
	Type    string    `bson:"type" json:"type"`
	Date    time.Time `bson:"date" json:"date"`
	Cost    float64   `bson:"cost" json:"cost"`
	Notes   string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Validate checks the required activity fields.
func (a *CropActivity) Validate() error {
	if a.CycleID == "" {
		return invalid("cycleId", "cycle required")
	}
	if strings.TrimSpace(a.Type) == "" {
		return invalid("type", "activity type required")
	}
	if a.Cost < 0 {
		return invalid("cost", "cost must not be negative")
	}
	return nil
}
