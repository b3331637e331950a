package assistant

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/openai/openai-go/v3"

	"jarvis/internal/config"
	"jarvis/internal/exec"
	"jarvis/internal/intent"
	"jarvis/internal/reminder"
)

type fakeSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (f *fakeSpeaker) Speak(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSpeaker) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

func (f *fakeSpeaker) last() string {
	s := f.all()
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// okSystem accepts every OS action without doing anything.
type okSystem struct{}

func (okSystem) Launch(string) error      { return nil }
func (okSystem) Terminate([]string) error { return nil }
func (okSystem) OpenURL(string) error     { return nil }
func (okSystem) Volume(string) error      { return nil }
func (okSystem) Brightness(string) error  { return nil }
func (okSystem) Media(string) error       { return nil }
func (okSystem) TypeText(string) error    { return nil }
func (okSystem) PressKeys([]string) error { return nil }
func (okSystem) Scroll(string, int) error { return nil }
func (okSystem) Screenshot() error        { return nil }
func (okSystem) Window(string) error      { return nil }

// newTestAssistant builds an assistant whose executor accepts every action.
// AI routing and fallbacks are off so no turn ever reaches the model client.
func newTestAssistant(t *testing.T) (*Assistant, *fakeSpeaker) {
	t.Helper()

	cfg := config.Default()
	cfg.AIActionRouting = false
	cfg.WebFallbackOnFailure = false
	cfg.ConversationWindowSeconds = 10

	spk := &fakeSpeaker{}
	store := reminder.NewStore(filepath.Join(t.TempDir(), "reminders.json"))

	executor := &exec.Executor{
		Cfg:       &cfg,
		Speaker:   spk,
		System:    okSystem{},
		Comms:     exec.NullComms{},
		Knowledge: exec.NullKnowledge{},
		Contacts: intent.NewContacts([]string{"mom"}, map[string]intent.Contact{
			"mom": {Phone: "+15551234"},
		}),
		Scheduler: reminder.NewScheduler(store, spk),
		Store:     store,
	}

	history := NewHistory(filepath.Join(t.TempDir(), "history.json"))
	a := New(&cfg, openai.Client{}, executor, spk, executor.Contacts, nil, history)
	return a, spk
}

func TestObserveWakeCapturesTrailingCommand(t *testing.T) {
	a, _ := newTestAssistant(t)

	require.True(t, a.ObserveWake("hey Jarvis what time is it"))
	cmd, ok := a.TakePending()
	require.True(t, ok)
	assert.Equal(t, "hey what time is it", cmd)

	// Consumed exactly once.
	_, ok = a.TakePending()
	assert.False(t, ok)
}

func TestObserveWakeVariants(t *testing.T) {
	a, _ := newTestAssistant(t)

	for _, text := range []string{"jarvis", "jar viz", "jervis", "jar wish please"} {
		assert.True(t, a.ObserveWake(text), text)
		a.TakePending()
	}
	assert.False(t, a.ObserveWake("hello there"))
}

func TestObserveWakeBareWordSpeaksPrompt(t *testing.T) {
	a, spk := newTestAssistant(t)
	a.cfg.SpeakPromptOnWake = true

	require.True(t, a.ObserveWake("jarvis"))
	_, ok := a.TakePending()
	assert.False(t, ok)
	assert.Equal(t, "Yes?", spk.last())
}

func TestConversationWindow(t *testing.T) {
	a, _ := newTestAssistant(t)

	base := time.Now()
	a.now = func() time.Time { return base }
	assert.False(t, a.InConversation(), "no turn happened yet")

	a.HandleUtterance(context.Background(), "hello")

	a.now = func() time.Time { return base.Add(9 * time.Second) }
	assert.True(t, a.InConversation())

	a.now = func() time.Time { return base.Add(11 * time.Second) }
	assert.False(t, a.InConversation())
}

func TestConversationWindowDisabledWhenZero(t *testing.T) {
	a, _ := newTestAssistant(t)
	a.cfg.ConversationWindowSeconds = 0

	a.HandleUtterance(context.Background(), "hello")
	assert.False(t, a.InConversation())
}

func TestHandleUtteranceRuleMatchShortCircuits(t *testing.T) {
	a, spk := newTestAssistant(t)

	running := a.HandleUtterance(context.Background(), "what time is it")
	assert.True(t, running)
	require.NotEmpty(t, spk.all())
	assert.Contains(t, spk.last(), "It's")
}

func TestHandleUtteranceContactResolution(t *testing.T) {
	a, spk := newTestAssistant(t)

	// The leading words keep the strict call rule from matching, so this
	// reaches the contact stage, which claims it before any AI involvement.
	running := a.HandleUtterance(context.Background(), "could you call mom for me")
	assert.True(t, running)
	assert.Contains(t, spk.last(), "mom")
}

func TestHandleUtteranceExitStops(t *testing.T) {
	a, spk := newTestAssistant(t)

	running := a.HandleUtterance(context.Background(), "bye")
	assert.False(t, running)
	assert.Equal(t, "Goodbye", spk.last())
}

func TestHandleUtteranceEmptyIsNoop(t *testing.T) {
	a, spk := newTestAssistant(t)

	running := a.HandleUtterance(context.Background(), "   ")
	assert.True(t, running)
	assert.Empty(t, spk.all())
}

func TestReadFullAnswerChunks(t *testing.T) {
	a, spk := newTestAssistant(t)
	a.cfg.AITTSMaxChars = 50 // clamped up to the 200 floor

	long := make([]rune, 0, 450)
	for i := 0; i < 450; i++ {
		long = append(long, 'a')
	}
	a.lastAnswer = string(long)

	a.ReadFullAnswer()

	chunks := spk.all()
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 200)
	assert.Len(t, chunks[1], 200)
	assert.Len(t, chunks[2], 50)
}

func TestReadFullAnswerWithoutAnswer(t *testing.T) {
	a, spk := newTestAssistant(t)

	a.ReadFullAnswer()
	assert.Equal(t, "I don't have an answer to read yet.", spk.last())
}

func TestReadFullAnswerViaUtterance(t *testing.T) {
	a, spk := newTestAssistant(t)
	a.lastAnswer = "short answer"

	a.HandleUtterance(context.Background(), "read the answer")
	assert.Equal(t, "short answer", spk.last())
}

func TestIsQuestion(t *testing.T) {
	assert.True(t, isQuestion("what is the capital of peru"))
	assert.True(t, isQuestion("Explain quicksort"))
	assert.True(t, isQuestion("tell me a story"))
	assert.True(t, isQuestion("is go compiled?"))
	assert.False(t, isQuestion("open notepad"))
	assert.False(t, isQuestion(""))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "abc...", truncateRunes("abcdefgh", 3))
	assert.Equal(t, "abcdefgh", truncateRunes("abcdefgh", 0))
}
