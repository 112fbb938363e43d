package util

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: mutates the global logger.
func TestInitializeLogger_JSON(t *testing.T) {
	prev, prevLvl := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLvl)
	})

	var buf bytes.Buffer
	initializeLogger(&buf, InfoLevel, JSONFormat)
	buf.Reset()

	logger := GetLogger("Store.Create")
	logger.Info().Str("path", "/a.js").Msg("Created node")
	logger.Debug().Msg("filtered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "Store.Create", entry["component"])
	assert.Equal(t, "/a.js", entry["path"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Created node", entry["message"])
}

func TestNewLogLogger_RoutesToZerolog(t *testing.T) {
	prev, prevLvl := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLvl)
	})

	var buf bytes.Buffer
	initializeLogger(&buf, TraceLevel, JSONFormat)
	buf.Reset()

	NewLogLogger("http", WarnLevel).Print("tls: handshake error\n")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "tls: handshake error", entry["message"])
}

func TestPointer(t *testing.T) {
	t.Parallel()

	p := Pointer(3)
	*p = 4
	assert.Equal(t, 4, *Pointer(*p))
}
