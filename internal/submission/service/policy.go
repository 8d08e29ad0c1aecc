package service

import (
	"fmt"
	"strings"

	"github.com/organize/tasktracker/internal/submission"
	"github.com/organize/tasktracker/pkg/apperr"
)

// Policy validates decisions and ownership of submission changes.
type Policy struct {
	Name string
	// Decision turns the requested status into the stored one.
	Decision func(raw string) (string, error)
	// Link normalises a submitted or replacement githubLink.
	Link func(raw string) (string, error)
	// OwnerCheck decides whether requesterID may modify s.
	OwnerCheck func(s *submission.Submission, requesterID int64) error
}

// LenientPolicy stores decisions and links unvalidated and lets anyone modify any submission.
func LenientPolicy() Policy {
	return Policy{
		Name: "lenient",
		Decision: func(raw string) (string, error) {
			return strings.TrimSpace(raw), nil
		},
		Link: func(raw string) (string, error) {
			return raw, nil
		},
		OwnerCheck: func(*submission.Submission, int64) error { return nil },
	}
}

// StrictPolicy only accepts ACCEPTED or DECLINED, requires a link and restricts
// changes to the submitter.
func StrictPolicy() Policy {
	return Policy{
		Name: "strict",
		Decision: func(raw string) (string, error) {
			switch st := strings.ToUpper(strings.TrimSpace(raw)); st {
			case submission.StatusAccepted, submission.StatusDeclined:
				return st, nil
			}
			return "", apperr.Validation("status must be ACCEPTED or DECLINED, got %q", raw)
		},
		Link: func(raw string) (string, error) {
			link := strings.TrimSpace(raw)
			if link == "" {
				return "", apperr.Validation("githubLink is required")
			}
			return link, nil
		},
		OwnerCheck: func(s *submission.Submission, requesterID int64) error {
			if s.UserID != requesterID {
				return apperr.NotAuthorized("submission %d belongs to another user", s.ID)
			}
			return nil
		},
	}
}

// PolicyByName maps SUBMISSION_POLICY to a Policy. Empty selects lenient.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lenient":
		return LenientPolicy(), nil
	case "strict":
		return StrictPolicy(), nil
	}
	return Policy{}, fmt.Errorf("unknown submission policy %q", name)
}

// isAcceptance reports whether a stored decision completes the task.
func isAcceptance(status string) bool {
	return strings.EqualFold(status, submission.StatusAccepted)
}
