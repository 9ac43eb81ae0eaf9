package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestGetLogger(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		entry := logrus.NewEntry(logrus.New()).WithField("event", "session_start")
		ctx := WithLogger(context.Background(), entry)

		retrieved := G(ctx)
		assert.Equal(t, "session_start", retrieved.Data["event"])
	})

	t.Run("falls back to global", func(t *testing.T) {
		retrieved := G(context.Background())
		assert.Equal(t, L.Logger, retrieved.Logger)
	})

	t.Run("chained fields", func(t *testing.T) {
		ctx := WithLogger(context.Background(), logrus.NewEntry(logrus.New()).WithField("event", "session_start"))
		ctx = WithLogger(ctx, G(ctx).WithField("skill", "using-superpowers"))

		retrieved := G(ctx)
		assert.Equal(t, "session_start", retrieved.Data["event"])
		assert.Equal(t, "using-superpowers", retrieved.Data["skill"])
	})
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	setLoggerFormat(logger, "json")

	G(WithLogger(context.Background(), logrus.NewEntry(logger))).WithField("skill", "tdd").Info("skill loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["logLevel"])
	assert.Equal(t, "skill loaded", entry["message"])
	assert.Equal(t, "tdd", entry["skill"])

	timestamp, ok := entry["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, timestamp)
	assert.NoError(t, err)
}

func TestConfigure(t *testing.T) {
	original := L.Logger.GetLevel()
	originalFormatter := L.Logger.Formatter
	t.Cleanup(func() {
		L.Logger.SetLevel(original)
		L.Logger.Formatter = originalFormatter
	})

	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L.Logger.Formatter)

	require.NoError(t, Configure("warn", "fmt"))
	assert.Equal(t, logrus.WarnLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)

	assert.Error(t, Configure("chatty", "fmt"))
}

func TestSetLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "superpowers.log")

	closer, err := SetLogFile(path)
	require.NoError(t, err)

	G(context.Background()).WithField("event", "session_start").Warn("bootstrap skipped")
	require.NoError(t, closer.Close())
	assert.Equal(t, os.Stderr, L.Logger.Out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "bootstrap skipped")
	assert.Contains(t, string(content), "event=session_start")
}
