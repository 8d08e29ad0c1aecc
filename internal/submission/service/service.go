package service

import (
	"context"
	"strings"
	"time"

	"github.com/organize/tasktracker/internal/submission"
	"github.com/organize/tasktracker/internal/submission/repository"
	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/pkg/logger"
	"github.com/organize/tasktracker/pkg/metrics"
)

// TaskClient is the task service as seen from submissions. *rpc.TaskClient satisfies it.
type TaskClient interface {
	Get(ctx context.Context, id int64, credential string) (*task.Task, error)
	Complete(ctx context.Context, id int64, credential string) (*task.Task, error)
}

// Service is the submission lifecycle. The caller's credential is forwarded
// unchanged to the task service.
type Service struct {
	repo   repository.Repository
	tasks  TaskClient
	policy Policy
	now    func() time.Time
}

func NewService(repo repository.Repository, tasks TaskClient, policy Policy) *Service {
	return &Service{repo: repo, tasks: tasks, policy: policy, now: time.Now}
}

// Submit records a PENDING submission for an existing task. Failures of the task
// lookup are returned with their original classification and nothing is stored.
func (s *Service) Submit(ctx context.Context, taskID int64, githubLink string, userID int64, credential string) (*submission.Submission, error) {
	link, err := s.policy.Link(githubLink)
	if err != nil {
		return nil, err
	}
	if _, err := s.tasks.Get(ctx, taskID, credential); err != nil {
		logger.Warnf("submit for task %d by user %d: %v", taskID, userID, err)
		return nil, err
	}
	created, err := s.repo.Create(ctx, &submission.Submission{
		TaskID:         taskID,
		GithubLink:     link,
		UserID:         userID,
		Status:         submission.StatusPending,
		SubmissionTime: s.now(),
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("submission %d created for task %d", created.ID, taskID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*submission.Submission, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*submission.Submission, error) {
	return s.repo.List(ctx, repository.Filter{})
}

func (s *Service) ListByTask(ctx context.Context, taskID int64) ([]*submission.Submission, error) {
	return s.repo.List(ctx, repository.Filter{TaskID: &taskID})
}

// SetDecision stores the reviewer's decision. Accepting completes the task first;
// if that call fails the decision is not stored.
func (s *Service) SetDecision(ctx context.Context, id int64, status, credential string) (*submission.Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := s.policy.Decision(status)
	if err != nil {
		return nil, err
	}
	if isAcceptance(decision) {
		if _, err := s.tasks.Complete(ctx, sub.TaskID, credential); err != nil {
			logger.Warnf("completing task %d for submission %d: %v", sub.TaskID, id, err)
			return nil, err
		}
	}
	sub.Status = decision
	updated, err := s.repo.Update(ctx, sub)
	if err != nil {
		return nil, err
	}
	metrics.SubmissionDecisions.WithLabelValues(decisionLabel(decision)).Inc()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, requesterUserID int64) error {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.OwnerCheck(sub, requesterUserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UpdateLink replaces the submission's link. Under the lenient policy the new
// value is stored as given.
func (s *Service) UpdateLink(ctx context.Context, id int64, newLink string, requesterUserID int64) (*submission.Submission, error) {
	link, err := s.policy.Link(newLink)
	if err != nil {
		return nil, err
	}
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.OwnerCheck(sub, requesterUserID); err != nil {
		return nil, err
	}
	sub.GithubLink = link
	return s.repo.Update(ctx, sub)
}

// decisionLabel keeps metric cardinality bounded under the open status string.
func decisionLabel(status string) string {
	switch st := strings.ToUpper(status); st {
	case submission.StatusPending, submission.StatusAccepted, submission.StatusDeclined:
		return st
	}
	return "OTHER"
}
