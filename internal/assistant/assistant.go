// Package assistant sequences the escalation chain for each turn: rule
// matching, then contact lookup, then AI routing, then the generic
// answer-or-search fallback. The first stage to produce a classification
// wins. It also owns the cross-turn conversational state: the conversation
// window, a pending command captured alongside the wake word, and the last
// AI answer for replay.
package assistant

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"

	"jarvis/internal/config"
	"jarvis/internal/exec"
	"jarvis/internal/intent"
	"jarvis/internal/router"
	"jarvis/internal/speech"
)

// WakeWords arm command capture. The variants cover common mishearings.
var WakeWords = []string{"jarvis", "jar viz", "jervis", "jar wish"}

type Assistant struct {
	cfg      *config.Config
	client   openai.Client
	executor *exec.Executor
	speaker  speech.Speaker
	contacts *intent.Contacts
	custom   intent.CustomCommands
	history  *History

	lastInteraction time.Time
	pendingCommand  string
	lastAnswer      string

	now func() time.Time
}

func New(cfg *config.Config, client openai.Client, executor *exec.Executor,
	speaker speech.Speaker, contacts *intent.Contacts, custom intent.CustomCommands,
	history *History) *Assistant {
	return &Assistant{
		cfg:      cfg,
		client:   client,
		executor: executor,
		speaker:  speaker,
		contacts: contacts,
		custom:   custom,
		history:  history,
		now:      time.Now,
	}
}

// InConversation reports whether the last successful turn is recent enough
// that wake-word detection should be bypassed.
func (a *Assistant) InConversation() bool {
	window := a.cfg.ConversationWindowSeconds
	return window > 0 && a.now().Sub(a.lastInteraction) <= time.Duration(window)*time.Second
}

// ObserveWake inspects a wake-loop utterance. If it contains a wake word the
// remainder of the utterance (if any) becomes the pending command, so
// "jarvis what time is it" needs no second capture. Returns whether the wake
// word was heard.
func (a *Assistant) ObserveWake(text string) bool {
	t := strings.ToLower(text)
	heard := false
	for _, w := range WakeWords {
		if strings.Contains(t, w) {
			heard = true
			t = strings.ReplaceAll(t, w, " ")
		}
	}
	if !heard {
		return false
	}

	tail := strings.Join(strings.Fields(t), " ")
	if tail != "" {
		a.pendingCommand = tail
	} else if a.cfg.SpeakPromptOnWake {
		a.speak(a.wakeReply())
	}
	return true
}

// TakePending consumes the command captured during wake, if any.
func (a *Assistant) TakePending() (string, bool) {
	if a.pendingCommand == "" {
		return "", false
	}
	cmd := a.pendingCommand
	a.pendingCommand = ""
	return cmd, true
}

// PromptOnTrigger speaks the wake reply for an external trigger (hotkey,
// control socket) when configured to.
func (a *Assistant) PromptOnTrigger() {
	if a.cfg.SpeakPromptOnTrigger {
		a.speak(a.wakeReply())
	}
}

func (a *Assistant) wakeReply() string {
	if a.cfg.PersonaEnabled && a.cfg.WakeReply != "" {
		return a.cfg.WakeReply
	}
	return "Yes?"
}

// HandleUtterance runs one full turn for a captured command and reports
// whether the assistant should keep running.
func (a *Assistant) HandleUtterance(ctx context.Context, command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		log.Info("Empty command")
		return true
	}
	log.Info("Command", "text", command)

	cls := intent.Match(command, a.custom)
	a.history.Append(HistoryEntry{
		TS:     a.now().Format(time.RFC3339),
		Input:  command,
		Intent: string(cls.Intent),
	})

	// AI-default mode sends everything that is not a deterministic action
	// straight to the answer stage, even when a rule matched.
	if a.cfg.AIDefaultMode && !intent.IsAction(cls.Intent) {
		if a.answerOrSearch(ctx, command) {
			a.touch()
			return true
		}
	}

	if a.cfg.AIDefaultForQuestions && !intent.IsAction(cls.Intent) && isQuestion(command) {
		if a.answerOrSearch(ctx, command) {
			a.touch()
			return true
		}
	}

	if cls.Intent == intent.Unknown {
		// Contact-aware quick match before AI routing.
		if resolved, ok := intent.ResolveContact(command, a.contacts); ok {
			log.Info("Resolved via contact lookup", "intent", resolved.Intent)
			running := a.executor.Execute(ctx, resolved)
			a.touch()
			return running
		}
		if a.cfg.AIActionRouting {
			if routed, ok := router.Route(ctx, a.client, a.cfg.AIModel, command); ok {
				log.Info("Resolved via AI routing", "intent", routed.Intent)
				running := a.executor.Execute(ctx, routed)
				a.touch()
				return running
			}
		}
		if a.answerOrSearch(ctx, command) {
			a.touch()
			return true
		}
	}

	if cls.Intent == intent.ReadFullAnswer {
		a.ReadFullAnswer()
		a.touch()
		return true
	}

	running := a.executor.Execute(ctx, cls)
	a.touch()
	return running
}

func (a *Assistant) touch() { a.lastInteraction = a.now() }

func (a *Assistant) speak(text string) {
	if err := a.speaker.Speak(text); err != nil {
		log.Warn("Failed to speak", "err", err)
	}
}

var questionStarters = []string{
	"what", "who", "why", "how", "when", "where", "which",
	"explain", "define", "tell me", "describe", "compare", "summarize",
}

func isQuestion(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	if strings.HasSuffix(t, "?") {
		return true
	}
	for _, s := range questionStarters {
		if strings.HasPrefix(t, s) {
			return true
		}
	}
	return false
}
