package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevelAndFormat(t *testing.T) {
	log, err := New(Config{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	log, err := New(Config{Level: "info", Output: "file", File: path})
	require.NoError(t, err)

	log.Info("order placed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order placed")
}

func TestNewRequiresFileForFileOutput(t *testing.T) {
	_, err := New(Config{Output: "file"})
	assert.Error(t, err)
}

func TestNewReportsCallerWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "info", Output: "file", File: path, Caller: true})
	require.NoError(t, err)
	assert.True(t, log.ReportCaller)

	log.Info("menu seeded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger_test.go:")
	assert.Contains(t, string(data), "TestNewReportsCallerWhenEnabled")
}

func TestNewOmitsCallerByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "info", Output: "file", File: path})
	require.NoError(t, err)

	log.Info("menu seeded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "logger_test.go:")
}
