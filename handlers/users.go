package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/users"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/middleware"
)

// UsersHandler serves the authenticated /api/users endpoints.
type UsersHandler struct {
	usersSvc *users.Service
}

func NewUsersHandler(u *users.Service) *UsersHandler {
	return &UsersHandler{usersSvc: u}
}

// Register mounts the routes on api, which must already require a principal.
func (h *UsersHandler) Register(api *gin.RouterGroup) {
	g := api.Group("/users")
	g.GET("/profile", h.Profile)
	g.GET("/:id", h.Get)
	g.GET("", h.List)
}

// Profile returns the stored record of the caller. The other services call this
// to resolve the caller's id and role.
func (h *UsersHandler) Profile(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Authentication("missing Authorization header"))
		return
	}
	u, err := h.usersSvc.FindByCredential(c.Request.Context(), p.BearerCredential())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Respond(c, apperr.Validation("invalid user id %q", c.Param("id")))
		return
	}
	u, err := h.usersSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UsersHandler) List(c *gin.Context) {
	list, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
