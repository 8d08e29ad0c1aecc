package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/logger"
	"github.com/organize/tasktracker/pkg/metrics"
)

// RetryPolicy bounds how often a RemoteCall failure is retried. Other failure
// kinds (NotFound, NotAuthorized, ...) are returned at once.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// NoRetry performs exactly one attempt.
func NoRetry() RetryPolicy { return RetryPolicy{MaxAttempts: 1} }

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Client performs JSON calls against one named service.
type Client struct {
	name    string
	baseURL string
	timeout time.Duration
	retry   RetryPolicy
	http    *http.Client
}

func NewClient(name, baseURL string, timeout time.Duration, retry RetryPolicy) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		retry:   retry,
		http:    &http.Client{},
	}
}

// Do sends method path with the caller's credential and decodes a 2xx body into out.
// Non-2xx responses keep the callee's classification.
func (c *Client) Do(ctx context.Context, method, path, credential string, out interface{}) error {
	var err error
	for attempt := 1; attempt <= c.retry.attempts(); attempt++ {
		err = c.once(ctx, method, path, credential, out)
		if err == nil || apperr.KindOf(err) != apperr.KindRemoteCall || attempt == c.retry.attempts() {
			break
		}
		logger.Warnf("%s %s %s: attempt %d/%d failed: %v", c.name, method, path, attempt, c.retry.attempts(), err)
		select {
		case <-ctx.Done():
			return apperr.RemoteCall(ctx.Err(), "%s call cancelled", c.name)
		case <-time.After(c.retry.Backoff):
		}
	}
	return err
}

func (c *Client) once(ctx context.Context, method, path, credential string, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	defer func() { metrics.RemoteCallDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds()) }()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.name, err)
	}
	if credential != "" {
		req.Header.Set("Authorization", bearer(credential))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RemoteCalls.WithLabelValues(c.name, "transport_error").Inc()
		return apperr.RemoteCall(err, "%s unreachable", c.name)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.RemoteCalls.WithLabelValues(c.name, "transport_error").Inc()
		return apperr.RemoteCall(err, "read %s response", c.name)
	}

	if e := apperr.FromStatus(resp.StatusCode, remoteMessage(c.name, body)); e != nil {
		metrics.RemoteCalls.WithLabelValues(c.name, strings.ToLower(string(e.Kind))).Inc()
		return e
	}
	metrics.RemoteCalls.WithLabelValues(c.name, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.RemoteCall(err, "decode %s response", c.name)
	}
	return nil
}

func bearer(credential string) string {
	if strings.HasPrefix(credential, "Bearer ") {
		return credential
	}
	return "Bearer " + credential
}

// remoteMessage prefers the callee's {"error": ...} body.
func remoteMessage(service string, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return service + " call failed"
}
