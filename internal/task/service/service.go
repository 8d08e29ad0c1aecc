package service

import (
	"context"
	"strings"
	"time"

	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/internal/task/repository"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/logger"
	"github.com/organize/tasktracker/pkg/metrics"
)

// Service is the task lifecycle used by the handler layer. Callers pass the
// requester's role or id explicitly; nothing is read from ambient request state.
type Service struct {
	repo   repository.Repository
	policy Policy
	now    func() time.Time
}

func NewService(repo repository.Repository, policy Policy) *Service {
	return &Service{repo: repo, policy: policy, now: time.Now}
}

// NewMemoryService returns a lenient Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return NewService(repository.NewMemoryRepo(), LenientPolicy())
}

// Create publishes a new PENDING task. Only admins may create tasks.
func (s *Service) Create(ctx context.Context, t *task.Task, requesterRole models.Role) (*task.Task, error) {
	if requesterRole != models.RoleAdmin {
		return nil, apperr.NotAuthorized("only admin can create task")
	}
	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Description) == "" {
		return nil, apperr.Validation("title and description are required")
	}
	if len(t.TechStacks) == 0 {
		return nil, apperr.Validation("at least one tech stack is required")
	}
	in := t.Clone()
	in.ID = 0
	in.Status = task.StatusPending
	in.AssignedUserID = nil
	in.CreatedAt = s.now()
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.TaskTransitions.WithLabelValues(string(task.StatusPending)).Inc()
	logger.Infof("task %d created", created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*task.Task, error) {
	return s.repo.Get(ctx, id)
}

// List returns all tasks, or only those in status when it is non-nil.
func (s *Service) List(ctx context.Context, status *task.Status) ([]*task.Task, error) {
	return s.repo.List(ctx, repository.Filter{Status: status})
}

// Update merges patch into the stored task according to the policy.
// requesterID is accepted for auditing; neither policy restricts who may update.
func (s *Service) Update(ctx context.Context, id int64, patch task.Patch, requesterID int64) (*task.Task, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.policy.MergePatch(existing, patch)
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	logger.Debugf("task %d updated by user %d", id, requesterID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Assign hands taskID to userID. The user id is not checked against the user service.
func (s *Service) Assign(ctx context.Context, userID, taskID int64) (*task.Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Assign(t, userID); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	metrics.TaskTransitions.WithLabelValues(string(updated.Status)).Inc()
	logger.Infof("task %d assigned to user %d", taskID, userID)
	return updated, nil
}

// ListAssignedTo returns tasks assigned to userID, optionally narrowed by status.
func (s *Service) ListAssignedTo(ctx context.Context, userID int64, status *task.Status) ([]*task.Task, error) {
	return s.repo.List(ctx, repository.Filter{Status: status, AssignedUserID: &userID})
}

func (s *Service) Complete(ctx context.Context, taskID int64) (*task.Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Complete(t); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	metrics.TaskTransitions.WithLabelValues(string(updated.Status)).Inc()
	logger.Infof("task %d completed", taskID)
	return updated, nil
}

// AttachImage records the object key of an uploaded image on the task.
func (s *Service) AttachImage(ctx context.Context, id int64, imageKey string) (*task.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Image = &imageKey
	return s.repo.Update(ctx, t)
}
