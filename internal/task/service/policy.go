package service

import (
	"fmt"
	"strings"

	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/pkg/apperr"
)

// Policy decides how updates merge and which status transitions are legal.
type Policy struct {
	Name       string
	MergePatch func(existing *task.Task, patch task.Patch)
	Assign     func(t *task.Task, userID int64) error
	Complete   func(t *task.Task) error
}

// LenientPolicy is the default. Update copies a patch field only onto fields that
// already hold a value, and copies it even when the patch leaves it empty.
// Assign and Complete never reject.
func LenientPolicy() Policy {
	return Policy{
		Name: "lenient",
		MergePatch: func(existing *task.Task, patch task.Patch) {
			if existing.Title != "" {
				existing.Title = patch.Title
			}
			if existing.Description != "" {
				existing.Description = patch.Description
			}
			if existing.Image != nil {
				existing.Image = patch.Image
			}
			if existing.Deadline != nil {
				existing.Deadline = patch.Deadline
			}
			if existing.Status != "" {
				existing.Status = patch.Status
			}
		},
		Assign: func(t *task.Task, userID int64) error {
			t.AssignedUserID = &userID
			t.Status = task.StatusAssigned
			return nil
		},
		Complete: func(t *task.Task) error {
			t.Status = task.StatusCompleted
			return nil
		},
	}
}

// StrictPolicy merges only fields the patch provides, leaves status to Assign and
// Complete, and enforces PENDING -> ASSIGNED -> COMPLETED.
func StrictPolicy() Policy {
	return Policy{
		Name: "strict",
		MergePatch: func(existing *task.Task, patch task.Patch) {
			if patch.Title != "" {
				existing.Title = patch.Title
			}
			if patch.Description != "" {
				existing.Description = patch.Description
			}
			if patch.Image != nil {
				existing.Image = patch.Image
			}
			if patch.Deadline != nil {
				existing.Deadline = patch.Deadline
			}
		},
		Assign: func(t *task.Task, userID int64) error {
			if t.Status != task.StatusPending {
				return apperr.Validation("task %d is %s, only PENDING tasks can be assigned", t.ID, t.Status)
			}
			t.AssignedUserID = &userID
			t.Status = task.StatusAssigned
			return nil
		},
		Complete: func(t *task.Task) error {
			if t.Status != task.StatusAssigned {
				return apperr.Validation("task %d is %s, only ASSIGNED tasks can be completed", t.ID, t.Status)
			}
			t.Status = task.StatusCompleted
			return nil
		},
	}
}

// PolicyByName maps TASK_POLICY to a Policy. Empty selects lenient.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lenient":
		return LenientPolicy(), nil
	case "strict":
		return StrictPolicy(), nil
	}
	return Policy{}, fmt.Errorf("unknown task policy %q", name)
}
