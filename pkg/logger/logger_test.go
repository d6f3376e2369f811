package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Named("test").Info("dropped", zap.String("k", "v"))
	})
}

func TestInitLogger(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	filename := filepath.Join(t.TempDir(), "test.log")
	cfg := &Config{
		Level:      "DEBUG",
		Filename:   filename,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
		Compress:   false,
		Console:    true,
	}

	err := InitLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, Log)

	Log.Info("Test log message")
	Sync()

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Test log message")
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:    "INVALID",
		Filename: filepath.Join(t.TempDir(), "test_invalid.log"),
	}

	err := InitLogger(cfg)
	assert.Error(t, err)
}
