package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/internal/task/service"
	"github.com/stretchr/testify/require"
)

func withPrincipal(p *models.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Request = c.Request.WithContext(models.WithPrincipal(c.Request.Context(), p))
		}
		c.Next()
	}
}

func newEngine(p *models.Principal, svc *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	api := g.Group("/api", withPrincipal(p))
	RegisterTaskRoutes(api, svc)
	return g
}

var admin = &models.Principal{ID: 1, Email: "admin@x.com", Roles: []models.Role{models.RoleAdmin}, Credential: "tok"}
var user = &models.Principal{ID: 7, Email: "u@x.com", Roles: []models.Role{models.RoleUser}, Credential: "tok"}

func do(g *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

const createBody = `{"title":"Build API","description":"REST","techStacks":["go"]}`

func TestTaskHandler_Lifecycle(t *testing.T) {
	svc := service.NewMemoryService()
	g := newEngine(admin, svc)

	w := do(g, http.MethodPost, "/api/tasks", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, task.StatusPending, created.Status)
	require.Nil(t, created.AssignedUserID)

	w = do(g, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(g, http.MethodPut, "/api/tasks/1/user/7/assigned", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(g, http.MethodGet, "/api/tasks?status=assigned", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = do(g, http.MethodPut, "/api/tasks/1/complete", "")
	require.Equal(t, http.StatusOK, w.Code)
	var done task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	require.Equal(t, task.StatusCompleted, done.Status)
	require.Equal(t, int64(7), *done.AssignedUserID)

	w = do(g, http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "deleted successfully")

	w = do(g, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestTaskHandler_CreateForbiddenForUser(t *testing.T) {
	g := newEngine(user, service.NewMemoryService())
	w := do(g, http.MethodPost, "/api/tasks", createBody)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	g := newEngine(admin, service.NewMemoryService())
	w := do(g, http.MethodPost, "/api/tasks", `{"title":"","description":"d","techStacks":["go"]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodPost, "/api/tasks", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_AssignedToCaller(t *testing.T) {
	svc := service.NewMemoryService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, &task.Task{Title: "a", Description: "d", TechStacks: []string{"go"}}, models.RoleAdmin)
	_, _ = svc.Create(ctx, &task.Task{Title: "b", Description: "d", TechStacks: []string{"go"}}, models.RoleAdmin)
	_, _ = svc.Assign(ctx, user.ID, a.ID)

	g := newEngine(user, svc)
	w := do(g, http.MethodGet, "/api/tasks/user", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "a", list[0].Title)

	w = do(g, http.MethodGet, "/api/tasks/user?status=COMPLETED", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestTaskHandler_BadInput(t *testing.T) {
	g := newEngine(admin, service.NewMemoryService())

	require.Equal(t, http.StatusBadRequest, do(g, http.MethodGet, "/api/tasks?status=DONE", "").Code)
	require.Equal(t, http.StatusBadRequest, do(g, http.MethodGet, "/api/tasks/abc", "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodPut, "/api/tasks/9/complete", "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodPut, "/api/tasks/9", `{"title":"x"}`).Code)
}

func TestTaskHandler_UpdateRejectsUnknownStatus(t *testing.T) {
	svc := service.NewMemoryService()
	g := newEngine(admin, svc)
	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/api/tasks", createBody).Code)

	w := do(g, http.MethodPut, "/api/tasks/1", `{"title":"t","description":"d","status":"FINISHED"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodPut, "/api/tasks/1", `{"title":"t2","description":"d2","status":"pending"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "t2", got.Title)
	require.Equal(t, task.StatusPending, got.Status)
}

func TestTaskHandler_MissingPrincipal(t *testing.T) {
	g := newEngine(nil, service.NewMemoryService())
	w := do(g, http.MethodPost, "/api/tasks", createBody)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

type fakeImages struct {
	objects map[string][]byte
}

func (f *fakeImages) UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeImages) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "http://minio.local/bucket/" + key, nil
}

func TestImageRoutes(t *testing.T) {
	svc := service.NewMemoryService()
	store := &fakeImages{objects: map[string][]byte{}}
	gin.SetMode(gin.TestMode)
	g := gin.New()
	api := g.Group("/api", withPrincipal(admin))
	RegisterTaskRoutes(api, svc)
	RegisterImageRoutes(api, svc, store)

	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/api/tasks", createBody).Code)

	w := do(g, http.MethodGet, "/api/tasks/1/image", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "diagram.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/1/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []byte("png-bytes"), store.objects["tasks/1/diagram.png"])

	w = do(g, http.MethodGet, "/api/tasks/1/image", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "tasks/1/diagram.png")

	req = httptest.NewRequest(http.MethodPut, "/api/tasks/1/image", strings.NewReader("nope"))
	rec = httptest.NewRecorder()
	g.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageUpload_RejectsUnusableFileNames(t *testing.T) {
	svc := service.NewMemoryService()
	store := &fakeImages{objects: map[string][]byte{}}
	gin.SetMode(gin.TestMode)
	g := gin.New()
	api := g.Group("/api", withPrincipal(admin))
	RegisterTaskRoutes(api, svc)
	RegisterImageRoutes(api, svc, store)
	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/api/tasks", createBody).Code)

	for _, name := range []string{"..", ".", " "} {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("bytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/tasks/1/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		g.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
	require.Empty(t, store.objects)
}

func TestImageName(t *testing.T) {
	name, ok := imageName(`C:\Users\me\diagram.png`)
	require.True(t, ok)
	require.Equal(t, "diagram.png", name)

	name, ok = imageName("../../etc/passwd")
	require.True(t, ok)
	require.Equal(t, "passwd", name)

	for _, bad := range []string{"", "..", ".", "/", "dir/.."} {
		_, ok := imageName(bad)
		require.False(t, ok, bad)
	}
}
