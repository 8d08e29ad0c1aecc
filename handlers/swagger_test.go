package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g, "tasktracker-users", UserAPIDoc)

	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")
	require.Contains(t, w.Body.String(), "tasktracker-users")

	req2 := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)
	require.Contains(t, w2.Body.String(), "openapi")
	require.Contains(t, w2.Body.String(), "/auth/signup")
	require.Contains(t, w2.Body.String(), "/auth/login")
}

func TestAPIDocsAreValidJSON(t *testing.T) {
	for name, doc := range map[string]string{"users": UserAPIDoc, "tasks": TaskAPIDoc, "submissions": SubmissionAPIDoc} {
		var v map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(doc), &v), name)
		require.Contains(t, v, "paths", name)
	}
}
