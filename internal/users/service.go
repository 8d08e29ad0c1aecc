package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints and leniently reads bearer tokens. *tokens.Codec satisfies it.
type TokenIssuer interface {
	Issue(email string, roles []models.Role) (string, error)
	ExtractEmail(credential string) (string, bool)
}

// Service encapsulates signup, login and profile lookup.
type Service struct {
	repo     UserRepository
	tokens   TokenIssuer
	hashCost int
}

func NewService(r UserRepository, t TokenIssuer) *Service {
	return &Service{repo: r, tokens: t, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

// SignupRequest is the input to Signup.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Signup registers a new user and returns a token for it. A duplicate email is a Conflict.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (string, *models.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return "", nil, apperr.Validation("name, email and password are required")
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, apperr.Conflict("user with email %s already exists", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return "", nil, err
	}
	u, err := s.repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.ParseRole(req.Role),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}
	logger.Infof("registered user %s (id=%d role=%s)", u.Email, u.ID, u.Role)
	tok, err := s.tokens.Issue(u.Email, []models.Role{u.Role})
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// Login checks the password and returns a fresh token. Unknown email and wrong
// password both fail with an authentication error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		logger.Warnf("login failed: no user with email %s", email)
		return "", apperr.Authentication("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warnf("login failed: wrong password for %s", email)
			return "", apperr.Authentication("invalid password")
		}
		return "", err
	}
	return s.tokens.Issue(u.Email, []models.Role{u.Role})
}

// FindByCredential returns the user the credential was issued to. The credential
// is read leniently: an unreadable one is treated as unauthenticated.
func (s *Service) FindByCredential(ctx context.Context, credential string) (*models.User, error) {
	email, ok := s.tokens.ExtractEmail(credential)
	if !ok {
		return nil, apperr.Authentication("invalid token")
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %s not found", email)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}
