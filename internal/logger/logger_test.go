package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := Get("parser")
	l.Debug().Int("rows", 3).Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "parser", entry["component"])
	assert.Equal(t, "loaded", entry["message"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := Get("cmd")
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevelFallback(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING"))
}
