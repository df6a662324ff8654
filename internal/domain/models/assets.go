package models

import (
	"strings"
	"time"
)

// Asset is a piece of farm equipment or a vehicle.
type Asset struct {
	ID                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	Category            string    `bson:"category,omitempty" json:"category,omitempty"`
	PurchaseDate        time.Time `bson:"purchase_date,omitempty" json:"purchaseDate,omitempty"`
	PurchaseCost        float64   `bson:"purchase_cost" json:"purchaseCost"`
	ServiceIntervalDays int       `bson:"service_interval_days" json:"serviceIntervalDays"`
}

// Validate checks the required asset fields.
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid("name", "asset name required")
	}
	if a.PurchaseCost < 0 || a.ServiceIntervalDays < 0 {
		return invalid("purchaseCost", "cost and interval must not be negative")
	}
	return nil
}

// MaintenanceLog records a service performed on an asset.
type MaintenanceLog struct {
	ID          string    `bson:"_id" json:"id"`
	AssetID     string    `bson:"asset_id" json:"assetId"`
	Date        time.Time `bson:"date" json:"date"`
	Description string    `bson:"description" json:"description"`
	Cost        float64   `bson:"cost" json:"cost"`
}

// Validate checks the required maintenance fields.
func (m *MaintenanceLog) Validate() error {
	if m.AssetID == "" {
		return invalid("assetId", "asset required")
	}
	if m.Date.IsZero() {
		return invalid("date", "date required")
	}
	if m.Cost < 0 {
		return invalid("cost", "cost must not be negative")
	}
	return nil
}

// FuelLog records a fuel fill for an asset.
type FuelLog struct {
	ID      string    `bson:"_id" json:"id"`
	AssetID string    `bson:"asset_id" json:"assetId"`
	Date    time.Time `bson:"date" json:"date"`
	Liters  float64   `bson:"liters" json:"liters"`
	Cost    float64   `bson:"cost" json:"cost"`
}

// Validate checks the required fuel fields.
func (f *FuelLog) Validate() error {
	if f.AssetID == "" {
		return invalid("assetId", "asset required")
	}
	if f.Liters <= 0 {
		return invalid("liters", "liters must be positive")
	}
	if f.Cost < 0 {
		return invalid("cost", "cost must not be negative")
	}
	return nil
}
