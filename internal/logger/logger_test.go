package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerForEnvironment(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerForEnvironment("debug", "production", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.Info("hello")
	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	log := NewLoggerForEnvironment("loud", "development", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestPricingLoggerGoalQuote(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogGoalQuote("quote_001", "home", "away", 1.6, 1.0, 0.12, 0.48, 0.27, 0.25, 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pricing", logEntry["component"])
	assert.Equal(t, "goals", logEntry["market"])
	assert.Equal(t, "quote_001", logEntry["quote_id"])
	assert.Equal(t, 0.27, logEntry["p_draw"])
}

func TestPricingLoggerSeriesQuote(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogSeriesQuote("quote_002", 7, 4, 1, 0.3, 1, true, 0.1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "series", logEntry["market"])
	assert.Equal(t, float64(7), logEntry["best_of"])
	assert.Equal(t, true, logEntry["decided"])
}

func TestPricingLoggerFormatQuote(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogFormatQuote("quote_003", "bo5", 0.68256, 0.6, 0.53, 4.07, 0.4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "bo5", logEntry["format"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestPricingLoggerCalibration(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogCalibration("goals", "bisection", 0.11, 1e-10, 31, true)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "debug", logEntry["level"])

	buf.Reset()
	pricingLogger.LogCalibration("goals", "bisection", 0.11, 1e-4, 40, false)
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "Calibration stopped at iteration limit", logEntry["msg"])

	buf.Reset()
	pricingLogger.LogCalibration("goals", "ceiling", 0.5, -0.07, 12, false)
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "Calibration target unreachable, using closest admissible value", logEntry["msg"])
	assert.Equal(t, "ceiling", logEntry["method"])
}

func TestPricingLoggerFailure(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogPricingFailure("series", errors.New("invalid score state"), map[string]interface{}{"best_of": 7})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "invalid score state", logEntry["error"])
	assert.Equal(t, float64(7), logEntry["best_of"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestSourceLogger(t *testing.T) {
	log, buf := setupTestLogger()
	sourceLogger := NewSourceLogger(log)

	sourceLogger.LogFetch("file", "ratings", 20, 0.4)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "datasource", logEntry["component"])
	assert.Equal(t, float64(20), logEntry["records"])

	buf.Reset()
	sourceLogger.LogFetchError("http", "ratings", errors.New("timeout"))
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
}
