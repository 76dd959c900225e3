package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "uploads", cfg.ScratchDir)
	assert.EqualValues(t, 10<<20, cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Zero(t, cfg.ConvertTimeout)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.False(t, cfg.OpsEndpoints)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SCRATCH_DIR", "/tmp/scratch")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("CONVERT_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("OPS_ENDPOINTS", "true")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/tmp/scratch", cfg.ScratchDir)
	assert.EqualValues(t, 2048, cfg.MaxUploadBytes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 45*time.Second, cfg.ConvertTimeout)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.True(t, cfg.OpsEndpoints)
}

func TestLoadRepairsInvalidValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("CORS_ALLOW_ORIGINS", " , ")
	t.Setenv("RATE_LIMIT_BURST", "0")

	cfg := Load()

	assert.EqualValues(t, DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 1, cfg.RateLimitBurst)
}

func TestLoadEnvFilesDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDF2DOCX_TEST_A=from-file\nPDF2DOCX_TEST_B=\"quoted\"\n"), 0o600))
	t.Setenv("PDF2DOCX_TEST_A", "from-env")
	t.Setenv("PDF2DOCX_TEST_B", "")
	require.NoError(t, os.Unsetenv("PDF2DOCX_TEST_B"))

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)
	t.Cleanup(func() { _ = os.Unsetenv("PDF2DOCX_TEST_B") })

	assert.Equal(t, "from-env", os.Getenv("PDF2DOCX_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("PDF2DOCX_TEST_B"))
}
