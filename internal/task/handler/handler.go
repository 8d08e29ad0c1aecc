package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/internal/task/service"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/middleware"
)

// ImageStore is the object storage used for task images. *storage.MinIOStorage satisfies it.
type ImageStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

const presignTTL = 15 * time.Minute

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       *string    `json:"image"`
	TechStacks  []string   `json:"techStacks"`
	Deadline    *time.Time `json:"deadline"`
}

// RegisterTaskRoutes mounts the task endpoints on api, which must already carry
// the auth gate and profile resolution.
func RegisterTaskRoutes(api *gin.RouterGroup, svc *service.Service) {
	g := api.Group("/tasks")

	g.POST("", func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("invalid request body: %v", err))
			return
		}
		created, err := svc.Create(c.Request.Context(), &task.Task{
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
			TechStacks:  req.TechStacks,
			Deadline:    req.Deadline,
		}, p.PrimaryRole())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	g.GET("/:id", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		t, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	g.GET("/user", func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		status, ok := statusQuery(c)
		if !ok {
			return
		}
		list, err := svc.ListAssignedTo(c.Request.Context(), p.ID, status)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("", func(c *gin.Context) {
		status, ok := statusQuery(c)
		if !ok {
			return
		}
		list, err := svc.List(c.Request.Context(), status)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.PUT("/:id/user/:userId/assigned", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		t, err := svc.Assign(c.Request.Context(), userID, id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	g.PUT("/:id", func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var patch task.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			apperr.Respond(c, apperr.Validation("invalid request body: %v", err))
			return
		}
		if patch.Status != "" {
			st, err := task.ParseStatus(string(patch.Status))
			if err != nil {
				apperr.Respond(c, apperr.Validation("%v", err))
				return
			}
			patch.Status = st
		}
		t, err := svc.Update(c.Request.Context(), id, patch, p.ID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	g.PUT("/:id/complete", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		t, err := svc.Complete(c.Request.Context(), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("task with id %d deleted successfully", id)})
	})
}

// RegisterImageRoutes mounts the task image endpoints. Only called when object
// storage is configured.
func RegisterImageRoutes(api *gin.RouterGroup, svc *service.Service, store ImageStore) {
	g := api.Group("/tasks")

	g.PUT("/:id/image", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if _, err := svc.Get(c.Request.Context(), id); err != nil {
			apperr.Respond(c, err)
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			apperr.Respond(c, apperr.Validation("multipart field \"file\" is required"))
			return
		}
		name, ok := imageName(fh.Filename)
		if !ok {
			apperr.Respond(c, apperr.Validation("invalid file name %q", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		defer f.Close()

		key := fmt.Sprintf("tasks/%d/%s", id, name)
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := store.UploadFile(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
			apperr.Respond(c, fmt.Errorf("upload image: %w", err))
			return
		}
		t, err := svc.AttachImage(c.Request.Context(), id, key)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	g.GET("/:id/image", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		t, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		if t.Image == nil || *t.Image == "" {
			apperr.Respond(c, apperr.NotFound("task %d has no image", id))
			return
		}
		u, err := store.GetPresignedURL(c.Request.Context(), *t.Image, presignTTL)
		if err != nil {
			apperr.Respond(c, fmt.Errorf("presign image: %w", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": u, "expiresIn": int(presignTTL.Seconds())})
	})
}

func principal(c *gin.Context) (*models.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Authentication("missing Authorization header"))
	}
	return p, ok
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apperr.Respond(c, apperr.Validation("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

func statusQuery(c *gin.Context) (*task.Status, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	st, err := task.ParseStatus(raw)
	if err != nil {
		apperr.Respond(c, apperr.Validation("%v", err))
		return nil, false
	}
	return &st, true
}

// imageName reduces an uploaded file name to a single object key segment.
func imageName(filename string) (string, bool) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return "", false
	}
	return name, true
}
