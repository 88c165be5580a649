package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// NormalizePriority maps free-text priority values onto the known set.
// Unknown values come back unchanged so callers can still display them
// with neutral styling.
func NormalizePriority(p string) TaskPriority {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return TaskPriorityHigh
	case "medium":
		return TaskPriorityMedium
	case "low":
		return TaskPriorityLow
	}
	return TaskPriority(p)
}

// Milestone is the location a task is attached to. Coordinates are kept
// as decimal strings, matching the API wire format.
type Milestone struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Longitudinal string    `json:"longitudinal"`
	Latitudinal  string    `json:"latitudinal"`
	Favorite     bool      `gorm:"default:false" json:"favorite"`
	TenantCode   string    `gorm:"index" json:"-"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

// Task is one unit of field work, owned by a user and located at a
// milestone. The user and milestone are embedded snapshots on the wire,
// not live references.
type Task struct {
	ID          int          `gorm:"primaryKey" json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Priority    TaskPriority `gorm:"type:text;default:'medium'" json:"priority"`
	Status      TaskStatus   `gorm:"type:text;default:'pending'" json:"status"`
	DueDate     *time.Time   `gorm:"column:dueDate" json:"dueDate"`
	CompletedAt *time.Time   `gorm:"column:completedAt" json:"completedAt"`

	UserID      int       `gorm:"column:userId;index" json:"userId"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	MilestoneID int       `gorm:"column:milestoneId;index" json:"milestoneId"`
	Milestone   Milestone `gorm:"foreignKey:MilestoneID" json:"milestone"`

	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

// Complete marks the task completed. CompletedAt is set iff the status
// is completed.
func (t *Task) Complete(at time.Time) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = &at
}

// Start moves the task into progress and clears any stale completion
// timestamp.
func (t *Task) Start() {
	t.Status = TaskStatusInProgress
	t.CompletedAt = nil
}

type TasksResponse struct {
	Data []Task `json:"data"`
}
