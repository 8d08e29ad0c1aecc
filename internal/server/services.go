package server

import (
	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/handlers"
	subhandler "github.com/organize/tasktracker/internal/submission/handler"
	subservice "github.com/organize/tasktracker/internal/submission/service"
	taskhandler "github.com/organize/tasktracker/internal/task/handler"
	taskservice "github.com/organize/tasktracker/internal/task/service"
	"github.com/organize/tasktracker/internal/users"
	"github.com/organize/tasktracker/pkg/middleware"
)

// UserEngine serves /auth/* openly and /api/users/* to authenticated callers.
func UserEngine(opts Options, svc *users.Service) *gin.Engine {
	r := NewEngine(opts)
	handlers.NewAuthHandler(svc).Register(r)
	handlers.NewUsersHandler(svc).Register(APIGroup(r, nil))
	return r
}

// TaskEngine serves /api/tasks. Image routes are mounted only when images is non-nil.
func TaskEngine(opts Options, svc *taskservice.Service, profiles middleware.ProfileFetcher, images taskhandler.ImageStore) *gin.Engine {
	r := NewEngine(opts)
	api := APIGroup(r, profiles)
	taskhandler.RegisterTaskRoutes(api, svc)
	if images != nil {
		taskhandler.RegisterImageRoutes(api, svc, images)
	}
	return r
}

// SubmissionEngine serves /api/submissions.
func SubmissionEngine(opts Options, svc *subservice.Service, profiles middleware.ProfileFetcher) *gin.Engine {
	r := NewEngine(opts)
	subhandler.RegisterSubmissionRoutes(APIGroup(r, profiles), svc)
	return r
}
