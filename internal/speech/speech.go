// Package speech defines the capability interfaces for spoken I/O. The core
// pipeline depends only on these; concrete backends (internal/tts, pkg/stt)
// live in their own packages so importing the interfaces never pulls in cgo.
package speech

import (
	"context"
	log "log/slog"
	"sync"
	"time"
)

// Speaker renders one utterance. Implementations may block for playback.
type Speaker interface {
	Speak(text string) error
}

// Transcriber turns 16 kHz mono PCM into text. An empty string means the
// audio carried no recognizable speech.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}

// Null speaks nothing. Default when no TTS backend is available.
type Null struct{}

func (Null) Speak(string) error { return nil }

// Serialized guards a Speaker so only one utterance plays at a time. A failed
// attempt gets exactly one retry after a short delay and is then dropped
// silently.
type Serialized struct {
	mu    sync.Mutex
	out   Speaker
	delay time.Duration
}

// Serialize wraps out in the single-playback discipline.
func Serialize(out Speaker) *Serialized {
	return &Serialized{out: out, delay: 100 * time.Millisecond}
}

func (s *Serialized) Speak(text string) error {
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.out.Speak(text); err != nil {
		time.Sleep(s.delay)
		if err := s.out.Speak(text); err != nil {
			log.Warn("Dropping utterance after retry", "err", err)
		}
	}
	return nil
}
