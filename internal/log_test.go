package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel(" WARN "))
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLogger_LevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn)
	logger.SetOutput(&buf)
	etl := logger.WithComponent("ETL")

	etl.Info("hidden")
	etl.Warn("dropped %d rows", 3)
	etl.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [ETL] dropped 3 rows")
	assert.Contains(t, out, "[ERROR] [ETL] failed")
	assert.Equal(t, LogLevelWarn, etl.GetLevel())
}
