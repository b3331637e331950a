package exec

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarvis/internal/config"
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

func (f *fakeSpeaker) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.spoken) == 0 {
		return ""
	}
	return f.spoken[len(f.spoken)-1]
}

// fakeSystem records calls and succeeds at everything.
type fakeSystem struct {
	launched   []string
	opened     []string
	terminated [][]string
	volumes    []string
	typed      []string
}

func (f *fakeSystem) Launch(cmd string) error          { f.launched = append(f.launched, cmd); return nil }
func (f *fakeSystem) Terminate(procs []string) error   { f.terminated = append(f.terminated, procs); return nil }
func (f *fakeSystem) OpenURL(u string) error           { f.opened = append(f.opened, u); return nil }
func (f *fakeSystem) Volume(d string) error            { f.volumes = append(f.volumes, d); return nil }
func (f *fakeSystem) Brightness(string) error          { return nil }
func (f *fakeSystem) Media(string) error               { return nil }
func (f *fakeSystem) TypeText(text string) error       { f.typed = append(f.typed, text); return nil }
func (f *fakeSystem) PressKeys([]string) error         { return nil }
func (f *fakeSystem) Scroll(string, int) error         { return nil }
func (f *fakeSystem) Screenshot() error                { return nil }
func (f *fakeSystem) Window(string) error              { return nil }

func newTestExecutor(t *testing.T) (*Executor, *fakeSpeaker, *fakeSystem) {
	t.Helper()

	cfg := config.Default()
	cfg.InputControlEnabled = true
	cfg.CommunicationsEnabled = true
	cfg.DefaultMessageChannel = "whatsapp"

	spk := &fakeSpeaker{}
	sys := &fakeSystem{}
	store := reminder.NewStore(filepath.Join(t.TempDir(), "reminders.json"))

	e := &Executor{
		Cfg:       &cfg,
		Speaker:   spk,
		System:    sys,
		Comms:     NullComms{},
		Knowledge: NullKnowledge{},
		Contacts: intent.NewContacts([]string{"mom"}, map[string]intent.Contact{
			"mom": {Phone: "+1 555 1234", Email: "mom@example.org"},
		}),
		Scheduler: reminder.NewScheduler(store, spk),
		Store:     store,
		Now: func() time.Time {
			return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) // a Monday
		},
	}
	return e, spk, sys
}

func TestExecuteOpenApp(t *testing.T) {
	e, spk, sys := newTestExecutor(t)

	running := e.Execute(context.Background(), intent.Classification{Intent: intent.OpenApp, Arg: "notepad"})
	assert.True(t, running)
	assert.Equal(t, []string{"gedit"}, sys.launched)
	assert.Equal(t, "Opening notepad", spk.last())
}

func TestExecuteOpenSiteWhitelist(t *testing.T) {
	e, spk, sys := newTestExecutor(t)

	e.Execute(context.Background(), intent.Classification{Intent: intent.OpenSite, Arg: "github"})
	assert.Equal(t, []string{"https://github.com"}, sys.opened)
	assert.Equal(t, "Opening github", spk.last())

	e.Execute(context.Background(), intent.Classification{Intent: intent.OpenSite, Arg: "evil"})
	assert.Equal(t, "Site evil is not allowed", spk.last())
	assert.Len(t, sys.opened, 1, "non-whitelisted site must not be opened")
}

func TestExecuteTimeAndDate(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	e.Execute(context.Background(), intent.Classification{Intent: intent.Time})
	assert.Equal(t, "It's 9:30 AM", spk.last())

	e.Execute(context.Background(), intent.Classification{Intent: intent.Date})
	assert.Equal(t, "Today is Monday, March 2, 2026", spk.last())
}

func TestExecuteExitStopsLoop(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	running := e.Execute(context.Background(), intent.Classification{Intent: intent.Exit})
	assert.False(t, running)
	assert.Equal(t, "Goodbye", spk.last())
}

// futureClock pins the executor clock to 09:30 UTC on a date at least a year
// ahead of the real clock, so scheduled timers never fire during the test.
// The returned cancel tears the waiting goroutines down before TempDir
// cleanup.
func futureClock(t *testing.T, e *Executor) (pinned time.Time, ctx context.Context) {
	t.Helper()

	pinned = time.Date(time.Now().Year()+1, 3, 2, 9, 30, 0, 0, time.UTC)
	e.Now = func() time.Time { return pinned }

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		e.Scheduler.Wait()
	})
	return pinned, ctx
}

func TestExecuteRemindAtRollsToTomorrow(t *testing.T) {
	e, spk, _ := newTestExecutor(t)
	pinned, ctx := futureClock(t, e)

	e.Execute(ctx, intent.Classification{
		Intent: intent.RemindAt,
		Arg:    intent.ReminderAt{Hour: 8, Minute: 0, Message: "standup"},
	})
	assert.Equal(t, "Reminder set for 08:00", spk.last())

	// 08:00 is already past the pinned 09:30 clock, so the stored entry is
	// tomorrow morning.
	rs, err := e.Store.List()
	require.NoError(t, err)
	require.Len(t, rs, 1)
	want := time.Date(pinned.Year(), 3, 3, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, want, rs[0].When.UTC())
}

func TestExecuteRemindInPersists(t *testing.T) {
	e, spk, _ := newTestExecutor(t)
	pinned, ctx := futureClock(t, e)

	e.Execute(ctx, intent.Classification{
		Intent: intent.RemindIn,
		Arg:    intent.ReminderIn{Amount: 10, Unit: "minutes", Message: "stretch"},
	})
	assert.Equal(t, "Reminder set in 10 minutes", spk.last())

	rs, err := e.Store.List()
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "stretch", rs[0].Message)
	assert.Equal(t, pinned.Add(10*time.Minute), rs[0].When.UTC())
}

func TestExecuteCalc(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	e.Execute(context.Background(), intent.Classification{Intent: intent.Calc, Arg: "2+2"})
	assert.Equal(t, "The result is 4", spk.last())

	e.Execute(context.Background(), intent.Classification{Intent: intent.Calc, Arg: "import os"})
	assert.Equal(t, "I can only calculate basic arithmetic", spk.last())
}

func TestExecuteConvert(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	e.Execute(context.Background(), intent.Classification{
		Intent: intent.Convert,
		Arg:    intent.Conversion{Value: 100, Src: "c", Dst: "f"},
	})
	assert.Equal(t, "100 c is 212 f", spk.last())

	e.Execute(context.Background(), intent.Classification{
		Intent: intent.Convert,
		Arg:    intent.Conversion{Value: 1, Src: "c", Dst: "kg"},
	})
	assert.Equal(t, "I don't support that conversion yet", spk.last())
}

func TestExecuteDateOfWeek(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	e.Execute(context.Background(), intent.Classification{Intent: intent.DateOfWeek, Arg: "2031-05-04"})
	assert.Equal(t, "That is a Sunday", spk.last())

	e.Execute(context.Background(), intent.Classification{Intent: intent.DateOfWeek, Arg: "05/04/2031"})
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", spk.last())
}

func TestExecuteCleanSlateClearsReminders(t *testing.T) {
	e, spk, sys := newTestExecutor(t)

	require.NoError(t, e.Store.Add(reminder.Reminder{
		When:    time.Now().Add(time.Hour),
		Message: "to be wiped",
	}))

	e.Execute(context.Background(), intent.Classification{Intent: intent.ProtocolCleanSlate})
	assert.Equal(t, "Clean Slate completed", spk.last())
	assert.Equal(t, []string{"mute"}, sys.volumes)
	require.Len(t, sys.terminated, 1)
	assert.NotContains(t, sys.terminated[0], "nautilus", "file manager survives clean slate")

	rs, err := e.Store.List()
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestExecuteInputControlGate(t *testing.T) {
	e, spk, sys := newTestExecutor(t)
	e.Cfg.InputControlEnabled = false

	e.Execute(context.Background(), intent.Classification{Intent: intent.TypeText, Arg: "hello"})
	assert.Equal(t, "Typing is disabled", spk.last())
	assert.Empty(t, sys.typed)

	e.Cfg.InputControlEnabled = true
	e.Execute(context.Background(), intent.Classification{Intent: intent.TypeText, Arg: "hello"})
	assert.Equal(t, "Typed", spk.last())
	assert.Equal(t, []string{"hello"}, sys.typed)
}

func TestExecuteMessageWhatsAppFallback(t *testing.T) {
	e, spk, sys := newTestExecutor(t)

	// NullComms fails, so the browser chat link is the fallback.
	e.Execute(context.Background(), intent.Classification{
		Intent: intent.Message,
		Arg:    intent.ContactMessage{Name: "mom", Body: "on my way"},
	})
	assert.Equal(t, "Opening WhatsApp chat with mom", spk.last())
	require.Len(t, sys.opened, 1)
	assert.Equal(t, "https://wa.me/+15551234?text=on+my+way", sys.opened[0])
}

func TestExecuteMessageGates(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	e.Cfg.CommunicationsEnabled = false
	e.Execute(context.Background(), intent.Classification{
		Intent: intent.Message,
		Arg:    intent.ContactMessage{Name: "mom", Body: "hi"},
	})
	assert.Equal(t, "Messaging is disabled in settings", spk.last())

	e.Cfg.CommunicationsEnabled = true
	e.Execute(context.Background(), intent.Classification{
		Intent: intent.Message,
		Arg:    intent.ContactMessage{Name: "stranger", Body: "hi"},
	})
	assert.Equal(t, "I don't have contact info for stranger", spk.last())
}

func TestExecuteCallFallsBackToTelLink(t *testing.T) {
	e, spk, sys := newTestExecutor(t)

	e.Execute(context.Background(), intent.Classification{Intent: intent.Call, Arg: "mom"})
	assert.Equal(t, "Calling mom", spk.last())
	require.Len(t, sys.opened, 1)
	assert.Equal(t, "tel:+15551234", sys.opened[0])
}

func TestExecuteUnknownFallsThrough(t *testing.T) {
	e, spk, _ := newTestExecutor(t)

	running := e.Execute(context.Background(), intent.Classification{Intent: intent.Unknown, Arg: "gibberish"})
	assert.True(t, running)
	assert.Equal(t, "I didn't understand that command", spk.last())
}
