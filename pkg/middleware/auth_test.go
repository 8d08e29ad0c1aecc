package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/tokens"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/stretchr/testify/require"
)

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(raw string) (tokens.Identity, error) {
	if raw == "goodtoken" {
		return tokens.Identity{Email: "test@example.com", Roles: []models.Role{models.RoleUser}}, nil
	}
	return tokens.Identity{}, tokens.ErrInvalidToken
}

type fakeProfiles struct {
	user *models.User
	err  error
	got  string
}

func (f *fakeProfiles) Profile(ctx context.Context, credential string) (*models.User, error) {
	f.got = credential
	return f.user, f.err
}

func newGated(handlers ...gin.HandlerFunc) *gin.Engine {
	g := gin.New()
	g.Use(AuthGate(&fakeVerifier{}))
	g.GET("/open", func(c *gin.Context) {
		_, ok := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	api := g.Group("/api", RequirePrincipal())
	chain := append(handlers, func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "id": p.ID, "roles": p.Roles, "credential": p.Credential})
	})
	api.GET("/me", chain...)
	return g
}

func do(g *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthGate_AnonymousOnOpenRoute(t *testing.T) {
	rw := do(newGated(), "/open", "")
	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"authenticated":false}`, rw.Body.String())
}

func TestAuthGate_MissingHeaderOnProtectedRoute(t *testing.T) {
	rw := do(newGated(), "/api/me", "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthGate_RejectsNonBearerHeader(t *testing.T) {
	for _, h := range []string{"BadHeader", "Basic dXNlcjpwYXNz", "bearer goodtoken", "Bearer ", "goodtoken"} {
		rw := do(newGated(), "/open", h)
		require.Equal(t, http.StatusUnauthorized, rw.Code, h)
	}
}

func TestAuthGate_InvalidTokenRejectedEvenOnOpenRoute(t *testing.T) {
	rw := do(newGated(), "/open", "Bearer badtoken")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthGate_ValidToken(t *testing.T) {
	rw := do(newGated(), "/api/me", "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "test@example.com", got["email"])
	require.Equal(t, "goodtoken", got["credential"])
	require.Equal(t, []interface{}{"USER"}, got["roles"])
}

func TestResolveProfile_FillsIDAndRole(t *testing.T) {
	profiles := &fakeProfiles{user: &models.User{ID: 7, Email: "test@example.com", Role: models.RoleAdmin}}
	rw := do(newGated(ResolveProfile(profiles)), "/api/me", "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, "Bearer goodtoken", profiles.got)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.EqualValues(t, 7, got["id"])
	require.Equal(t, []interface{}{"ADMIN", "USER"}, got["roles"])
}

func TestResolveProfile_SurfacesRemoteFailure(t *testing.T) {
	profiles := &fakeProfiles{err: apperr.RemoteCall(errors.New("connection refused"), "user service unavailable")}
	rw := do(newGated(ResolveProfile(profiles)), "/api/me", "Bearer goodtoken")
	require.Equal(t, http.StatusBadGateway, rw.Code)

	profiles = &fakeProfiles{err: apperr.Authentication("user service rejected credential")}
	rw = do(newGated(ResolveProfile(profiles)), "/api/me", "Bearer goodtoken")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestResolveProfile_RemoteClassificationNotLeaked(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("user ghost@x.com not found"), http.StatusUnauthorized},
		{apperr.NotAuthorized("forbidden"), http.StatusUnauthorized},
		{apperr.Validation("bad request"), http.StatusBadGateway},
		{apperr.Conflict("conflict"), http.StatusBadGateway},
		{errors.New("boom"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		rw := do(newGated(ResolveProfile(&fakeProfiles{err: tc.err})), "/api/me", "Bearer goodtoken")
		require.Equal(t, tc.want, rw.Code, tc.err.Error())
		require.NotContains(t, rw.Body.String(), "NOT_FOUND")
	}
}
