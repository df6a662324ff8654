package models

import (
	"strings"
	"time"
)

// TaskStatus of a farm task.
type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
)

// Task is a scheduled piece of farm work.
type Task struct {
	ID       string     `bson:"_id" json:"id"`
	Title    string     `bson:"title" json:"title"`
	Category string     `bson:"category,omitempty" json:"category,omitempty"`
	Assignee string     `bson:"assignee,omitempty" json:"assignee,omitempty"`
	DueDate  time.Time  `bson:"due_date" json:"dueDate"`
	Status   TaskStatus `bson:"status" json:"status"`
	Notes    string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Validate checks the required task fields and defaults the status.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "title required")
	}
	if t.Status == "" {
		t.Status = TaskPending
	}
	if t.Status != TaskPending && t.Status != TaskDone {
		return invalid("status", "status must be pending or done")
	}
	return nil
}

// Overdue reports whether the task is still pending after its due date.
func (t Task) Overdue(now time.Time) bool {
	return t.Status == TaskPending && !t.DueDate.IsZero() && t.DueDate.Before(now)
}

// FeedInventory is a stocked feed ingredient or ration.
type FeedInventory struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Type           string    `bson:"type,omitempty" json:"type,omitempty"`
	QuantityKg     float64   `bson:"quantity_kg" json:"quantityKg"`
	UnitCost       float64   `bson:"unit_cost" json:"unitCost"`
	ReorderLevelKg float64   `bson:"reorder_level_kg" json:"reorderLevelKg"`
	Supplier       string    `bson:"supplier,omitempty" json:"supplier,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// Validate checks the required inventory fields.
func (f *FeedInventory) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "feed name required")
	}
	if f.QuantityKg < 0 || f.UnitCost < 0 || f.ReorderLevelKg < 0 {
		return invalid("quantityKg", "quantities and costs must not be negative")
	}
	return nil
}

// Low reports whether stock has reached the reorder level.
func (f FeedInventory) Low() bool {
	return f.QuantityKg <= f.ReorderLevelKg
}
