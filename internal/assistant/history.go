package assistant

import (
	"encoding/json"
	log "log/slog"
	"os"
	"path/filepath"
	"sync"
)

const historyLimit = 200

type HistoryEntry struct {
	TS     string `json:"ts"`
	Input  string `json:"input"`
	Intent string `json:"parsed_intent,omitempty"`
}

// History keeps a capped JSON log of turns. A nil path disables logging.
type History struct {
	mu   sync.Mutex
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// Append records one turn, dropping the oldest entries past the cap.
// Logging failures never interrupt a turn.
func (h *History) Append(e HistoryEntry) {
	if h == nil || h.path == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.read()
	entries = append(entries, e)
	if len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Warn("Failed to encode history", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		log.Warn("Failed to create history dir", "err", err)
		return
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Warn("Failed to write history", "err", err)
		return
	}
	if err := os.Rename(tmp, h.path); err != nil {
		log.Warn("Failed to replace history", "err", err)
	}
}

func (h *History) read() []HistoryEntry {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}
