package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "lambda_handler", cfg.Handler)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(50<<20), cfg.MaxPDFBytes)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_KEY", "k")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("handler: my_handler\nmax_iterations: 3\nlog_format: json\n"), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "my_handler", cfg.Handler)
	assert.Equal(t, 3, cfg.MaxIterations)
	assert.Equal(t, "json", cfg.LogFormat)

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load(viper.New(), "")
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("MAX_ITERATIONS", "0")
	_, err = Load(viper.New(), "")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	log, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = (&Config{LogLevel: "loud"}).NewLogger()
	assert.Error(t, err)
	_, err = (&Config{LogLevel: "info", LogFormat: "xml"}).NewLogger()
	assert.Error(t, err)
}
