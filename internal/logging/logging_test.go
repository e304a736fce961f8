package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNewWritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "info", false), "hittest")

	log.Debug().Msg("dropped")
	log.Warn().Str("feature", "hit-test").Msg("capability unavailable")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "hittest", entry["component"])
	assert.Equal(t, "hit-test", entry["feature"])
	assert.Equal(t, "capability unavailable", entry["message"])
}
