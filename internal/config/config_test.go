package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.WakeWordEnabled)
	assert.Equal(t, "Yes?", cfg.WakeReply)
	assert.Equal(t, "gpt-5-nano", cfg.AIModel)
	assert.Equal(t, 400, cfg.AITTSMaxChars)
	assert.Equal(t, 600, cfg.ScrollStep)
	assert.Equal(t, "whatsapp", cfg.DefaultMessageChannel)
	assert.False(t, cfg.AIDefaultMode)
	assert.False(t, cfg.InputControlEnabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.json")
	body := `{
		"ai_model": "gpt-5",
		"conversation_window_seconds": 20,
		"input_control_enabled": true,
		"wake_word_enabled": false
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-5", cfg.AIModel)
	assert.Equal(t, 20, cfg.ConversationWindowSeconds)
	assert.True(t, cfg.InputControlEnabled)
	assert.False(t, cfg.WakeWordEnabled)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 400, cfg.AITTSMaxChars)
	assert.Equal(t, "reminders.json", cfg.RemindersPath)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
