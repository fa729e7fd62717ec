package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcovc/services/internal/api/handlers"
	"github.com/marcovc/services/internal/selection"
	"github.com/marcovc/services/pkg/logger"
)

func newTestRouter() http.Handler {
	prioritizer := selection.NewPrioritizer(nil, 10, nil, logger.Nop())
	return NewRouter(Routes{
		Solve:      handlers.NewSolveHandler(prioritizer, nil, [20]byte{}, logger.Nop()),
		Selections: handlers.NewSelectionHandler(nil, nil, logger.Nop()),
		Metrics:    true,
	}, []string{"http://localhost:3000"}, logger.Nop())
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"solver-driver"}`, rec.Body.String())
}

func TestRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodPost, "/solve", `{"id":"1","tokens":{},"orders":[]}`, http.StatusOK},
		{http.MethodGet, "/solve", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/selections/1", "", http.StatusNotFound},
		{http.MethodGet, "/api/selections/abc", "", http.StatusNotFound}, // route pattern requires digits
		{http.MethodGet, "/quote", "", http.StatusNotFound},              // not mounted
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(router, tt.method, tt.target, tt.body).Code)
		})
	}
}

func TestMetricsExposeSelections(t *testing.T) {
	router := newTestRouter()
	serve(router, http.MethodPost, "/solve", `{"id":"1","tokens":{},"orders":[]}`)

	rec := serve(router, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), "driver_auctions_prioritized_total")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/solve", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := serve(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	h := loggingMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	assert.Equal(t, http.StatusTeapot, serve(h, http.MethodGet, "/", "").Code)
}
