package task

import (
	"fmt"
	"strings"
	"time"
)

// Status is a task's position in PENDING -> ASSIGNED -> COMPLETED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAssigned  Status = "ASSIGNED"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusAssigned, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Task is a unit of work an admin publishes and users get assigned to.
// Nil pointer fields are absent ("null") on the stored record.
type Task struct {
	ID             int64      `json:"id" bson:"id"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description" bson:"description"`
	Image          *string    `json:"image" bson:"image,omitempty"`
	AssignedUserID *int64     `json:"assignedUserId" bson:"assignedUserId,omitempty"`
	TechStacks     []string   `json:"techStacks" bson:"techStacks"`
	Status         Status     `json:"status" bson:"status"`
	Deadline       *time.Time `json:"deadline" bson:"deadline,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
}

// Clone returns a deep copy so stores never share pointers with callers.
func (t *Task) Clone() *Task {
	cp := *t
	if t.Image != nil {
		v := *t.Image
		cp.Image = &v
	}
	if t.AssignedUserID != nil {
		v := *t.AssignedUserID
		cp.AssignedUserID = &v
	}
	if t.Deadline != nil {
		v := *t.Deadline
		cp.Deadline = &v
	}
	cp.TechStacks = append([]string(nil), t.TechStacks...)
	return &cp
}

// Patch carries the client-supplied values of an update request.
type Patch struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       *string    `json:"image"`
	Deadline    *time.Time `json:"deadline"`
	Status      Status     `json:"status"`
}
