// Package router asks the language model to map an utterance onto the fixed
// intent taxonomy. The model is never trusted: its reply must be a single
// JSON object and every argument is validated locally before anything is
// returned. Any failure at all means "no match" — the caller escalates.
package router

import (
	"context"
	"encoding/json"
	log "log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"

	"jarvis/internal/intent"
)

const systemPrompt = `You are a command router. Map the user's sentence to one of these intents: ` +
	`open_app, open_site, open_browser, search_web, search_youtube, time, date, greet, exit, ` +
	`volume, brightness, media, remind_in, remind_at, calc, convert, date_of_week, read_full_answer. ` +
	`Only choose intents that are obviously implied. If unsure, return intent 'none'.

Return STRICT JSON with keys: intent, args. Where args depends on intent:
- open_app: {target} (e.g., 'notepad', 'calculator', 'paint', 'vscode', 'explorer')
- open_site: {target} (e.g., 'google', 'youtube', 'github', 'gmail')
- open_browser: {}
- search_web: {query}
- search_youtube: {query}
- time/date/greet/exit/read_full_answer: {}
- volume: {direction} where direction in ['up','down','mute']
- brightness: {direction} where direction in ['up','down']
- media: {action} where action in ['play_pause','next','previous']
- remind_in: {amount, unit, message} with unit in ['seconds','minutes','hours']
- remind_at: {hour, minute, message} 24h integers
- calc: {expr} using only digits +-*/().
- convert: {value, src, dst} like 10, 'cm', 'inch'
- date_of_week: {date} in YYYY-MM-DD.
Respond with ONLY the JSON, no extra text.`

// Route classifies one utterance through the model. The second return value
// is false when the model declined, replied out of schema, or the call failed;
// errors never propagate past this function.
func Route(ctx context.Context, client openai.Client, model, text string) (intent.Classification, bool) {
	if text == "" {
		return intent.Classification{}, false
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage("User: " + text),
		},
		Model: model,
	})
	if err != nil {
		log.Debug("AI routing call failed", "err", err)
		return intent.Classification{}, false
	}
	if len(resp.Choices) == 0 {
		return intent.Classification{}, false
	}

	return Parse(resp.Choices[0].Message.Content)
}

// Parse validates a raw model reply against the intent whitelist and the
// per-intent argument schema. Code fences are stripped before JSON parsing.
func Parse(raw string) (intent.Classification, bool) {
	raw = stripFences(strings.TrimSpace(raw))

	var data struct {
		Intent string          `json:"intent"`
		Args   json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Debug("AI routing returned invalid JSON")
		return intent.Classification{}, false
	}

	name := strings.TrimSpace(data.Intent)
	if name == "" || strings.EqualFold(name, "none") {
		return intent.Classification{}, false
	}

	args := map[string]any{}
	if len(data.Args) > 0 {
		// Non-object args are tolerated as absent, same as a missing field.
		_ = json.Unmarshal(data.Args, &args)
	}

	return validate(intent.Intent(name), args)
}

var calcExprRe = regexp.MustCompile(`^[0-9\s+\-*/().]+$`)

func validate(it intent.Intent, args map[string]any) (intent.Classification, bool) {
	switch it {
	case intent.OpenApp, intent.OpenSite:
		return intent.Classification{Intent: it, Arg: strings.ToLower(str(args, "target"))}, true

	case intent.OpenBrowser, intent.Time, intent.Date, intent.Greet, intent.Exit, intent.ReadFullAnswer:
		return intent.Classification{Intent: it}, true

	case intent.SearchWeb, intent.SearchYouTube:
		return intent.Classification{Intent: it, Arg: str(args, "query")}, true

	case intent.Volume:
		switch d := str(args, "direction"); d {
		case "up", "down", "mute":
			return intent.Classification{Intent: it, Arg: d}, true
		}

	case intent.Brightness:
		switch d := str(args, "direction"); d {
		case "up", "down":
			return intent.Classification{Intent: it, Arg: d}, true
		}

	case intent.Media:
		switch a := str(args, "action"); a {
		case "play_pause", "next", "previous":
			return intent.Classification{Intent: it, Arg: a}, true
		}

	case intent.RemindIn:
		amount, ok := num(args, "amount")
		unit := strings.ToLower(str(args, "unit"))
		message := str(args, "message")
		if ok && amount > 0 && validUnit(unit) && message != "" {
			return intent.Classification{Intent: it, Arg: intent.ReminderIn{
				Amount:  int(amount),
				Unit:    unit,
				Message: message,
			}}, true
		}

	case intent.RemindAt:
		hour, hok := num(args, "hour")
		minute, mok := num(args, "minute")
		message := str(args, "message")
		if hok && mok && hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 && message != "" {
			return intent.Classification{Intent: it, Arg: intent.ReminderAt{
				Hour:    int(hour),
				Minute:  int(minute),
				Message: message,
			}}, true
		}

	case intent.Calc:
		expr := str(args, "expr")
		if expr != "" && calcExprRe.MatchString(expr) {
			return intent.Classification{Intent: it, Arg: expr}, true
		}

	case intent.Convert:
		value, ok := num(args, "value")
		src := strings.ToLower(str(args, "src"))
		dst := strings.ToLower(str(args, "dst"))
		if ok && src != "" && dst != "" {
			return intent.Classification{Intent: it, Arg: intent.Conversion{Value: value, Src: src, Dst: dst}}, true
		}

	case intent.DateOfWeek:
		date := str(args, "date")
		if _, err := time.Parse("2006-01-02", date); err == nil {
			return intent.Classification{Intent: it, Arg: date}, true
		}
	}

	// Outside the whitelist, or arguments failed schema checks.
	return intent.Classification{}, false
}

func validUnit(unit string) bool {
	switch unit {
	case "second", "seconds", "minute", "minutes", "hour", "hours":
		return true
	}
	return false
}

func str(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func num(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func stripFences(raw string) string {
	if strings.HasPrefix(raw, "```json") && strings.HasSuffix(raw, "```") {
		return strings.TrimSpace(raw[len("```json") : len(raw)-3])
	}
	if strings.HasPrefix(raw, "```") && strings.HasSuffix(raw, "```") && len(raw) > 6 {
		return strings.TrimSpace(raw[3 : len(raw)-3])
	}
	return raw
}
