package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestUserClient_ForwardsCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/users/profile", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.User{ID: 3, Email: "a@x.com", Role: models.RoleAdmin})
	}))
	defer srv.Close()

	u, err := NewUserClient(srv.URL, time.Second, NoRetry()).Profile(context.Background(), "Bearer abc")
	require.NoError(t, err)
	require.Equal(t, int64(3), u.ID)
	require.Equal(t, models.RoleAdmin, u.Role)
	require.Equal(t, "Bearer abc", gotAuth)

	_, err = NewUserClient(srv.URL, time.Second, NoRetry()).Profile(context.Background(), "raw")
	require.NoError(t, err)
	require.Equal(t, "Bearer raw", gotAuth)
}

func TestClient_ClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, apperr.ErrNotFound},
		{http.StatusForbidden, apperr.ErrNotAuthorized},
		{http.StatusUnauthorized, apperr.ErrAuthentication},
		{http.StatusBadRequest, apperr.ErrValidation},
		{http.StatusInternalServerError, apperr.ErrRemoteCall},
		{http.StatusServiceUnavailable, apperr.ErrRemoteCall},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":"task not found with id 5","code":"X"}`))
		}))
		_, err := NewTaskClient(srv.URL, time.Second, NoRetry()).Get(context.Background(), 5, "Bearer t")
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

func TestClient_KeepsRemoteMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"task not found with id 5"}`))
	}))
	defer srv.Close()
	_, err := NewTaskClient(srv.URL, time.Second, NoRetry()).Get(context.Background(), 5, "t")
	require.EqualError(t, err, "task not found with id 5")
}

func TestClient_RetriesOnlyRemoteFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(task.Task{ID: 5, Status: task.StatusCompleted})
	}))
	defer srv.Close()

	tc := NewTaskClient(srv.URL, time.Second, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
	got, err := tc.Complete(context.Background(), 5, "t")
	require.NoError(t, err)
	require.Equal(t, task.StatusCompleted, got.Status)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))

	atomic.StoreInt32(&calls, 0)
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()
	_, err = NewTaskClient(notFound.URL, time.Second, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}).Get(context.Background(), 5, "t")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err := NewTaskClient(srv.URL, time.Second, RetryPolicy{}).Get(context.Background(), 1, "t")
	require.ErrorIs(t, err, apperr.ErrRemoteCall)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewTaskClient(srv.URL, 50*time.Millisecond, NoRetry()).Get(context.Background(), 1, "t")
	require.ErrorIs(t, err, apperr.ErrRemoteCall)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := NewUserClient(url, time.Second, NoRetry()).Profile(context.Background(), "t")
	require.ErrorIs(t, err, apperr.ErrRemoteCall)
}
