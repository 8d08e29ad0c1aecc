package submission

import "time"

// Decision values. Status is an open string under the lenient policy, so these
// are the expected values rather than an exhaustive set.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusDeclined = "DECLINED"
)

// Submission is a piece of work a user hands in against a task.
type Submission struct {
	ID             int64     `json:"id" bson:"id"`
	TaskID         int64     `json:"taskId" bson:"taskId"`
	GithubLink     string    `json:"githubLink" bson:"githubLink"`
	UserID         int64     `json:"userId" bson:"userId"`
	Status         string    `json:"status" bson:"status"`
	SubmissionTime time.Time `json:"submissionTime" bson:"submissionTime"`
}
