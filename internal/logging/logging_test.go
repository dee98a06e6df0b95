package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, log.LevelError, ParseLevel("error"))
	assert.Equal(t, log.LevelTrace, ParseLevel("trace"))
	assert.Equal(t, log.LevelInfo, ParseLevel(""))
	assert.Equal(t, log.LevelInfo, ParseLevel("verbose"))
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(&buf, "info", "json")
	defer log.SetDefault(log.NewLogger(log.DiscardHandler()))

	logger.Debug("hidden")
	logger.Info("switched", "chain", 8453)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "switched", rec["msg"])
	assert.EqualValues(t, 8453, rec["chain"])
}

func TestInitTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(&buf, "debug", "")
	defer log.SetDefault(log.NewLogger(log.DiscardHandler()))

	logger.Debug("estimate", "gas", 51234)
	assert.Contains(t, buf.String(), "estimate")
	assert.Contains(t, buf.String(), "gas=51234")
}
