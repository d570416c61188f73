package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
)

type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uuid.UUID `json:"ownerId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Tasks       []Task    `json:"tasks" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ProjectID   uint       `json:"projectId" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      string     `json:"status" gorm:"not null;default:pending"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilter narrows a search inside a single project. Empty fields are ignored.
type TaskFilter struct {
	ProjectID uint
	Query     string
	Status    string
	Priority  string
}

type StatusCounts struct {
	Total      int64
	Pending    int64
	InProgress int64
	Done       int64
}

type Dashboard struct {
	TotalTasks      int64 `json:"totalTasks"`
	Todo            int64 `json:"todo"`
	InProgress      int64 `json:"inprogress"`
	Completed       int64 `json:"completed"`
	Pending         int64 `json:"pending"`
	ProgressPercent int   `json:"progressPercent"`
	ProjectCount    int   `json:"projectCount"`
}
