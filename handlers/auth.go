package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/users"
	"github.com/organize/tasktracker/pkg/apperr"
)

// SignupRequest is the body of POST /auth/signup. Role is optional and
// normalised; anything unrecognised becomes USER.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a freshly issued token.
type AuthResponse struct {
	JWT     string `json:"jwt"`
	Message string `json:"message"`
}

// AuthHandler serves the open signup and login endpoints.
type AuthHandler struct {
	usersSvc *users.Service
}

func NewAuthHandler(u *users.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg gin.IRouter) {
	a := rg.Group("/auth")
	a.POST("/signup", h.Signup)
	a.POST("/login", h.Login)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	tok, _, err := h.usersSvc.Signup(c.Request.Context(), users.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{JWT: tok, Message: "Register success"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("email and password are required"))
		return
	}
	tok, err := h.usersSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{JWT: tok, Message: "Login success"})
}
