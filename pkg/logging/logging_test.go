package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logging.ParseLevel(tt.in), tt.in)
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcheck.log")

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "warn",
		Format: "json",
		Output: path,
		Fields: map[string]string{"project": "dealer-bot"},
	})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	logger.Warn().Str("section", "brands").Msg("store slow")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "store slow", line["message"])
	assert.Equal(t, "brands", line["section"])
	assert.Equal(t, "dealer-bot", line["project"])
	assert.NotContains(t, string(data), "hidden")
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)

	logger := logging.NewLoggerFromConfig(nil)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithRunID(ctx, "run-1")
	ctx = logging.WithSection(ctx, "handlers")
	ctx = logging.WithSource(ctx, "intents")
	ctx = logging.WithFields(ctx, map[string]any{"documents": 3})
	logging.FromContext(ctx).Debug().Msg("Loaded intent documents")

	lines := tl.Lines()
	require.Len(t, lines, 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &line))
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "handlers", line["section"])
	assert.Equal(t, "intents", line["source"])
	assert.EqualValues(t, 3, line["documents"])
}

func TestFromContextDefault(t *testing.T) {
	tl := logging.CaptureDefault(t)

	//nolint:staticcheck // a nil context falls back to the default logger
	logging.FromContext(nil).Info().Msg("from nil")
	logging.FromContext(context.Background()).Info().Msg("from empty")

	assert.True(t, tl.Contains("from nil"))
	assert.True(t, tl.Contains("from empty"))
}

func TestNop(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, logging.Nop().GetLevel())
}
