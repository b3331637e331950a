// Package config loads the assistant configuration. One explicit Config
// value is built at startup and passed down by reference; nothing in the
// pipeline reads process-wide state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	// Wake and conversation flow.
	WakeWordEnabled           bool   `json:"wake_word_enabled"`
	WakeReply                 string `json:"wake_reply"`
	PersonaEnabled            bool   `json:"persona_enabled"`
	PlayWakeChime             bool   `json:"play_wake_chime"`
	PlayCompletionChime       bool   `json:"play_completion_chime"`
	SpeakPromptOnWake         bool   `json:"speak_prompt_on_wake"`
	SpeakPromptOnTrigger      bool   `json:"speak_prompt_on_trigger"`
	ConversationWindowSeconds int    `json:"conversation_window_seconds"`
	ChimePath                 string `json:"chime_path"`

	// Speech I/O.
	Language  string `json:"language"`
	VoiceLang string `json:"voice_lang"`
	VoiceRate int    `json:"voice_rate"`

	// AI behaviour.
	AIModel               string `json:"ai_model"`
	AIActionRouting       bool   `json:"ai_action_routing"`
	AIDefaultMode         bool   `json:"ai_default_mode"`
	AIDefaultForQuestions bool   `json:"ai_default_for_questions"`
	AITTSMaxChars         int    `json:"ai_tts_max_chars"`
	AIPrintFullAnswer     bool   `json:"ai_print_full_answer"`
	AlsoOpenWebOnAnswer   bool   `json:"also_open_web_on_ai_answer"`
	WebFallbackOnFailure  bool   `json:"web_fallback_on_ai_failure"`

	// Actions.
	InputControlEnabled   bool   `json:"input_control_enabled"`
	ScrollStep            int    `json:"scroll_step"`
	CommunicationsEnabled bool   `json:"communications_enabled"`
	DefaultMessageChannel string `json:"default_message_channel"`
	CallHandler           string `json:"call_handler"`

	// Data files.
	RemindersPath      string `json:"reminders_path"`
	ContactsPath       string `json:"contacts_path"`
	CustomCommandsPath string `json:"custom_commands_path"`
	HistoryPath        string `json:"history_path"`

	// Whisper model for the default transcriber.
	WhisperModelPath string `json:"whisper_model_path"`
}

// Default returns the configuration used when config.json is absent or
// silent on a key.
func Default() Config {
	return Config{
		WakeWordEnabled:       true,
		WakeReply:             "Yes?",
		Language:              "en",
		VoiceLang:             "en",
		AIModel:               "gpt-5-nano",
		AIActionRouting:       true,
		AITTSMaxChars:         400,
		AlsoOpenWebOnAnswer:   true,
		WebFallbackOnFailure:  true,
		ScrollStep:            600,
		CommunicationsEnabled: true,
		DefaultMessageChannel: "whatsapp",
		CallHandler:           "tel",
		RemindersPath:         "reminders.json",
		ContactsPath:          "contacts.json",
		CustomCommandsPath:    "custom_commands.json",
		HistoryPath:           "logs/conv-history.json",
		WhisperModelPath:      "third_party/whisper.cpp/models/ggml-medium.bin",
	}
}

// Load merges the JSON file at path over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
