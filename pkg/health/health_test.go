package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func probe(t *testing.T, handler http.HandlerFunc) (int, statusBody) {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func passing() CheckFunc {
	return func(context.Context) error { return nil }
}

func TestLiveEndpoint(t *testing.T) {
	h := New()
	h.Register(Liveness, Check{Name: "goroutines", Func: passing()})

	code, body := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Checks)
}

func TestFailureThreshold(t *testing.T) {
	h := New()
	h.Register(Liveness, Check{Name: "store", Func: failing("disk gone")})
	s := h.checks[Liveness][0]
	ctx := context.Background()

	s.observe(ctx)
	s.observe(ctx)
	code, _ := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code, "two failures stay below the default threshold")

	s.observe(ctx)
	code, body := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "disk gone", body.Checks["store"])
}

func TestRecovery(t *testing.T) {
	fail := true
	h := New()
	h.Register(Readiness, Check{
		Name:             "store",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Func: func(context.Context) error {
			if fail {
				return errors.New("down")
			}
			return nil
		},
	})
	h.SetReady(true)
	s := h.checks[Readiness][0]
	ctx := context.Background()

	s.observe(ctx)
	assert.False(t, h.IsReady())

	fail = false
	s.observe(ctx)
	assert.False(t, h.IsReady())
	s.observe(ctx)
	assert.True(t, h.IsReady())
}

func TestReadyEndpoint_Gate(t *testing.T) {
	h := New()
	h.Register(Readiness, Check{Name: "store", Func: passing()})

	code, body := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "service is not ready", body.Checks["_readiness"])

	h.SetReady(true)
	code, body = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestRun(t *testing.T) {
	h := New()
	h.Register(Readiness, Check{Name: "store", FailureThreshold: 1, Func: failing("refused")})
	h.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool { return !h.IsReady() }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestPingCheck(t *testing.T) {
	require.NoError(t, PingCheck(pinger{})(context.Background()))

	err := PingCheck(pinger{err: errors.New("no such dir")})(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such dir")
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
