package models

import "time"

// DailyReport represents the aggregated daily farm snapshot stored in MongoDB.
type DailyReport struct {
	Date             time.Time      `bson:"date" json:"date"`
	HerdSize         int            `bson:"herd_size" json:"herd_size"`
	HerdByStage      map[string]int `bson:"herd_by_stage" json:"herd_by_stage"`
	Sold             int            `bson:"sold" json:"sold"`
	Deceased         int            `bson:"deceased" json:"deceased"`
	FeedStockKg      float64        `bson:"feed_stock_kg" json:"feed_stock_kg"`
	LowStockItems    []string       `bson:"low_stock_items" json:"low_stock_items"`
	Income           float64        `bson:"income" json:"income"`
	Expenses         float64        `bson:"expenses" json:"expenses"`
	Profit           float64        `bson:"profit" json:"profit"`
	OpenTasks        int            `bson:"open_tasks" json:"open_tasks"`
	OverdueTasks     int            `bson:"overdue_tasks" json:"overdue_tasks"`
	VaccinationsDue  int            `bson:"vaccinations_due" json:"vaccinations_due"`
	InbreedingAlerts int            `bson:"inbreeding_alerts" json:"inbreeding_alerts"`
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
}
