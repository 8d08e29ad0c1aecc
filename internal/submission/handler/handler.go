package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/submission/service"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/middleware"
)

// RegisterSubmissionRoutes mounts the submission endpoints on api, which must
// already carry the auth gate and profile resolution.
func RegisterSubmissionRoutes(api *gin.RouterGroup, svc *service.Service) {
	g := api.Group("/submissions")

	g.POST("", func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		taskID, ok := queryID(c, "taskId")
		if !ok {
			return
		}
		sub, err := svc.Submit(c.Request.Context(), taskID, c.Query("githubLink"), p.ID, p.BearerCredential())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, sub)
	})

	g.GET("/:id", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		sub, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
	})

	g.GET("/task/:taskId", func(c *gin.Context) {
		taskID, ok := pathID(c, "taskId")
		if !ok {
			return
		}
		list, err := svc.ListByTask(c.Request.Context(), taskID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
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
		status, present := c.GetQuery("status")
		if !present {
			apperr.Respond(c, apperr.Validation("query parameter status is required"))
			return
		}
		sub, err := svc.SetDecision(c.Request.Context(), id, status, p.BearerCredential())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id, p.ID); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.PUT("/:id/update-link", func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		sub, err := svc.UpdateLink(c.Request.Context(), id, c.Query("githubLink"), p.ID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
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

func queryID(c *gin.Context, name string) (int64, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		apperr.Respond(c, apperr.Validation("query parameter %s is required", name))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		apperr.Respond(c, apperr.Validation("invalid %s %q", name, raw))
		return 0, false
	}
	return id, true
}
