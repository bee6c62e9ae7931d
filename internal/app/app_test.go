package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/inventory-pos/internal/storage/jsonfile"
)

type noopTelemetry struct{}

func (noopTelemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }
func (noopTelemetry) MeterProvider() metric.MeterProvider  { return metricnoop.NewMeterProvider() }

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type productResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Image    string  `json:"image"`
}

type summaryResponse struct {
	Report []struct {
		ProductID int64   `json:"productId"`
		Qty       int64   `json:"qty"`
		Revenue   float64 `json:"revenue"`
		Name      string  `json:"name"`
	} `json:"report"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type testServer struct {
	*httptest.Server
	path string
}

func startServer(t *testing.T, mutate func(cfg *Config)) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	cfg := defaults()
	cfg.Storage.Path = path
	cfg.CORS.Origins = []string{"*"}
	if mutate != nil {
		mutate(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, healthSvc, err := NewHandler(ctx, zaptest.NewLogger(t), noopTelemetry{}, &cfg, jsonfile.New(path))
	require.NoError(t, err)
	healthSvc.SetReady(true)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, path: path}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) *http.Response {
	t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, s.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthEndpoints(t *testing.T) {
	s := startServer(t, nil)

	for _, path := range []string{"/livez", "/readyz"} {
		resp := s.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "ok", decodeJSON[healthResponse](t, resp).Status)
	}
}

func TestCheckoutFlow(t *testing.T) {
	s := startServer(t, nil)

	resp := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Mug", "price": 12.5, "quantity": 4,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mug := decodeJSON[productResponse](t, resp)
	assert.Equal(t, int64(1), mug.ID)

	resp = s.do(t, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"productId": mug.ID, "qty": 3, "unitPrice": mug.Price}},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"productId": mug.ID, "qty": 2, "unitPrice": mug.Price}},
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock for product ID 1", decodeJSON[map[string]string](t, resp)["error"])

	resp = s.do(t, http.MethodGet, "/api/products", nil, nil)
	products := decodeJSON[[]productResponse](t, resp)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].Quantity)

	resp = s.do(t, http.MethodDelete, "/api/products/1", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/reports/summary", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decodeJSON[summaryResponse](t, resp)
	require.Len(t, summary.Report, 1)
	assert.Equal(t, "Deleted Product", summary.Report[0].Name)
	assert.Equal(t, 37.5, summary.TotalRevenue)

	doc, err := jsonfile.New(s.path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Products)
	assert.Len(t, doc.Sales, 1)
}

func TestMiddlewareChain(t *testing.T) {
	s := startServer(t, nil)

	resp := s.do(t, http.MethodGet, "/api/products", nil, http.Header{
		"X-Request-Id": {"custom-request-id-12345"},
		"Origin":       {"http://localhost:3000"},
	})
	assert.Equal(t, "custom-request-id-12345", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Limit"))

	resp = s.do(t, http.MethodOptions, "/api/products/1", nil, http.Header{
		"Origin":                        {"http://localhost:3000"},
		"Access-Control-Request-Method": {http.MethodPut},
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Methods"))

	resp = s.do(t, http.MethodOptions, "/api/sales", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRateLimited(t *testing.T) {
	s := startServer(t, func(cfg *Config) {
		cfg.RateLimit = RateLimitConfig{RPS: 0.001, Burst: 2}
	})

	for range 2 {
		resp := s.do(t, http.MethodGet, "/api/sales", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := s.do(t, http.MethodGet, "/api/sales", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}
