package telemetry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligun0805/accesslist-debug/internal/debugcore"
)

func fixedStore(ts time.Time) *Store {
	s := NewStore()
	s.now = func() time.Time { return ts }
	return s
}

func TestRecordOutcome(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore()

	s.RecordOutcome(debugcore.Outcome{
		ID: "ok-1", Type: debugcore.OutcomeSuccess, ChainID: 8453, ChainName: "Base",
		Timestamp: ts, Hash: common.HexToHash("0xabc"),
	})
	s.RecordOutcome(debugcore.Outcome{
		ID: "err-1", Type: debugcore.OutcomeError, ChainID: 42220, ChainName: "Celo",
		Timestamp: ts, Error: "eth_createAccessList: insufficient funds",
	})

	items := s.Snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, "ok-1", items[0].ID)
	assert.Equal(t, "transfer", items[0].Action)
	assert.True(t, items[0].OK)
	assert.Equal(t, common.HexToHash("0xabc").Hex(), items[0].Hash)
	assert.Equal(t, "2025-03-01T12:00:00Z", items[0].Time)

	assert.False(t, items[1].OK)
	assert.Empty(t, items[1].Hash)
	assert.Equal(t, uint64(42220), items[1].ChainID)
	assert.Contains(t, items[1].Error, "insufficient funds")
}

func TestAddFillsIDAndTime(t *testing.T) {
	s := fixedStore(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	s.Add(Item{Action: "switch", ChainID: 8453, OK: true})

	items := s.Snapshot()
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "2025-03-01T09:00:00Z", items[0].Time)

	items[0].Action = "mutated"
	assert.Equal(t, "switch", s.Snapshot()[0].Action)
	assert.Equal(t, 1, s.Len())
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log_data")
	s := fixedStore(time.Date(2025, 3, 1, 12, 30, 5, 0, time.UTC))
	s.Add(Item{ID: "a", Action: "eth_createAccessList", ChainID: 42220, Error: "boom"})

	path, err := s.WriteJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250301_123005.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		GeneratedAt string `json:"generatedAt"`
		Telemetry   []Item `json:"telemetry"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2025-03-01T12:30:05Z", got.GeneratedAt)
	assert.Equal(t, s.Snapshot(), got.Telemetry)
}

func TestErrString(t *testing.T) {
	assert.Empty(t, ErrString(nil))
	assert.Equal(t, "boom", ErrString(errors.New("boom")))
}
