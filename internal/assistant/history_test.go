package assistant

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendAndCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h := NewHistory(path)

	for i := 0; i < historyLimit+30; i++ {
		h.Append(HistoryEntry{TS: "2026-03-02T09:00:00Z", Input: fmt.Sprintf("cmd %d", i)})
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []HistoryEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, historyLimit)

	// Oldest 30 entries were dropped.
	assert.Equal(t, "cmd 30", entries[0].Input)
	assert.Equal(t, fmt.Sprintf("cmd %d", historyLimit+29), entries[len(entries)-1].Input)
}

func TestHistoryDisabledWithoutPath(t *testing.T) {
	h := NewHistory("")
	h.Append(HistoryEntry{Input: "ignored"})

	var nilHistory *History
	nilHistory.Append(HistoryEntry{Input: "also ignored"})
}

func TestHistorySurvivesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))

	h := NewHistory(path)
	h.Append(HistoryEntry{Input: "fresh start"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []HistoryEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh start", entries[0].Input)
}
