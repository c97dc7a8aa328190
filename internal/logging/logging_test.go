// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cardpress/pkg/types"
)

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(types.LogConfig{Level: "info"}, &buf))

	logger := GetLogger("cards")
	logger.Debug().Msg("hidden")
	logger.Info().Int("items", 3).Msg("document assembled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "cards", entry["component"])
	assert.Equal(t, "document assembled", entry["message"])
	assert.Equal(t, float64(3), entry["items"])
}

func TestSetupBadLevel(t *testing.T) {
	err := SetupWriter(types.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetupFile(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	path := filepath.Join(t.TempDir(), "logs", "cardpress.log")
	require.NoError(t, SetupWriter(types.LogConfig{Level: "warn", File: path}, &bytes.Buffer{}))

	logger := GetLogger("server")
	logger.Warn().Msg("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestDefaultLogFile(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultLogFile(), filepath.Join("cardpress", "cardpress.log")))
}
