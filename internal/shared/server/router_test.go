package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2docx/internal/convert"
	"pdf2docx/internal/docx"
	"pdf2docx/internal/extract"
	"pdf2docx/internal/services/health"
	"pdf2docx/internal/shared/config"
	"pdf2docx/internal/shared/server/middleware"
	"pdf2docx/internal/shared/storage/scratch"
	"pdf2docx/internal/testutil"
	"pdf2docx/internal/uploads"
)

func newTestDeps(t *testing.T, cfg config.Config) RouterDeps {
	t.Helper()
	dir := scratch.New(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, dir.Ensure())
	receiver := uploads.NewReceiver(uploads.Config{MaxUploadBytes: cfg.MaxUploadBytes}, dir, time.Now)
	svc := convert.NewService(convert.Config{}, extract.NewPDFExtractor(0), docx.NewBuilder())
	return RouterDeps{
		Config:         cfg,
		ConvertHandler: convert.NewHandler(receiver, svc),
		Health:         health.NewService(dir),
	}
}

func postPDF(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := testutil.MultipartFile(t, "file", "hello.pdf", "application/pdf", testutil.PDF("Hello World"))
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Origin", "http://localhost:5173")
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterConvert(t *testing.T) {
	r := NewRouter(newTestDeps(t, config.Default()))

	rec := postPDF(t, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, docx.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouterOnlyConvertByDefault(t *testing.T) {
	r := NewRouter(newTestDeps(t, config.Default()))

	for _, path := range []string{"/health", "/metrics", "/"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/convert", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterOpsEndpoints(t *testing.T) {
	cfg := config.Default()
	cfg.OpsEndpoints = true
	r := NewRouter(newTestDeps(t, cfg))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"scratch":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "conversion_started_total")
}

func TestRouterPreflight(t *testing.T) {
	r := NewRouter(newTestDeps(t, config.Default()))

	req := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimitsConvert(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	deps := newTestDeps(t, cfg)
	fixed := time.Unix(1700000000, 0)
	deps.Limiter = middleware.NewRateLimiter(func() time.Time { return fixed })
	r := NewRouter(deps)

	assert.Equal(t, http.StatusOK, postPDF(t, r).Code)

	rec := postPDF(t, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":3000", Addr(""))
	assert.Equal(t, ":8080", Addr("8080"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
