package publishclient

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionsFormatter(t *testing.T) {
	formatter := &ActionsFormatter{}
	timestamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, testCase := range []struct {
		level    log.Level
		expected string
	}{
		{log.ErrorLevel, "::error::upload failed\n"},
		{log.WarnLevel, "::warning::upload failed\n"},
		{log.InfoLevel, "[2024-03-01T12:00:00Z] upload failed\n"},
	} {
		output, err := formatter.Format(&log.Entry{Level: testCase.level, Message: "upload failed", Time: timestamp})
		require.NoError(t, err)
		assert.Equal(t, testCase.expected, string(output))
	}
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	cfg := NewConfig()
	cfg.LogLevel = "debug"
	require.NoError(t, SetupLogging(*cfg))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	cfg.Quiet = true
	require.NoError(t, SetupLogging(*cfg))
	assert.Equal(t, log.ErrorLevel, log.GetLevel())

	cfg.LogLevel = "chatty"
	err := SetupLogging(*cfg)
	assert.Equal(t, ExitInvocationFailure, ErrorExitCode(err))
}

func TestSetupLoggingFormat(t *testing.T) {
	defer log.SetFormatter(&log.TextFormatter{})

	cfg := NewConfig()
	cfg.LogFormat = LogFormatJSON
	require.NoError(t, SetupLogging(*cfg))
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	cfg.Actions = true
	require.NoError(t, SetupLogging(*cfg))
	assert.IsType(t, &ActionsFormatter{}, log.StandardLogger().Formatter)

	cfg.Actions = false
	cfg.LogFormat = "xml"
	assert.Equal(t, ExitInvocationFailure, ErrorExitCode(SetupLogging(*cfg)))
}
