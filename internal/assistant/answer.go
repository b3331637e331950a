package assistant

import (
	"context"
	"fmt"
	log "log/slog"
	"net/url"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// answer asks the model a free-form question and returns the plain-text
// reply, or "" on any failure.
func (a *Assistant) answer(ctx context.Context, question string) string {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.cfg.AIModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a concise voice assistant. Answer briefly and factually."),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		log.Warn("Answer request failed", "err", err)
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// answerOrSearch tries the model first and falls back to a web search when
// the model produced nothing. Returns whether the query was handled.
func (a *Assistant) answerOrSearch(ctx context.Context, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}

	if ans := a.answer(ctx, query); ans != "" {
		a.lastAnswer = ans
		a.speakAnswer(ans)
		if a.cfg.AlsoOpenWebOnAnswer {
			if err := a.executor.System.OpenURL(searchURL(query)); err != nil {
				log.Warn("Failed to open web search", "err", err)
			}
		}
		return true
	}

	if !a.cfg.WebFallbackOnFailure {
		a.speak("I don't have that answer right now.")
		return true
	}
	if err := a.executor.System.OpenURL(searchURL(query)); err != nil {
		log.Warn("Failed to open web search", "err", err)
		return false
	}
	a.speak("Searching Google for " + query)
	return true
}

// speakAnswer speaks a snippet of the answer, keeping the full text
// available for the "read the full answer" command.
func (a *Assistant) speakAnswer(ans string) {
	if a.cfg.AIPrintFullAnswer {
		fmt.Println("----- AI ANSWER -----")
		fmt.Println(ans)
		fmt.Println("---------------------")
	}
	snippet := truncateRunes(ans, a.cfg.AITTSMaxChars)
	if snippet != ans {
		snippet += " Say: read the full answer, to hear everything."
	}
	a.speak(snippet)
}

// ReadFullAnswer replays the last AI answer in chunks sized for the
// synthesizer.
func (a *Assistant) ReadFullAnswer() {
	if a.lastAnswer == "" {
		a.speak("I don't have an answer to read yet.")
		return
	}
	size := a.cfg.AITTSMaxChars
	if size < 200 {
		size = 200
	}
	if size > 1200 {
		size = 1200
	}
	runes := []rune(a.lastAnswer)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		a.speak(string(runes[start:end]))
	}
}

// LastAnswer returns the most recent AI answer, if any.
func (a *Assistant) LastAnswer() string { return a.lastAnswer }

func searchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
