package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verboso"))
}

func TestNew_JSONConCampoApp(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", App: "notas-credito-api", Writer: &buf})

	l.Debug().Msg("no se escribe")
	l.Info().Int64("credit_note_id", 7).Msg("nota crédito emitida")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev))
	assert.Equal(t, "notas-credito-api", ev["app"])
	assert.Equal(t, "nota crédito emitida", ev["message"])
	assert.EqualValues(t, 7, ev["credit_note_id"])
}
