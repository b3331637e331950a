package exec

import (
	"context"
	"fmt"
	log "log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jarvis/internal/config"
	"jarvis/internal/intent"
	"jarvis/internal/reminder"
	"jarvis/internal/speech"
)

// Executor turns classifications into effects. Computable intents (time,
// calc, convert, reminders, protocols) are handled here; everything touching
// the OS or the network goes through the injected capabilities.
type Executor struct {
	Cfg       *config.Config
	Speaker   speech.Speaker
	System    System
	Comms     Comms
	Knowledge Knowledge
	Contacts  *intent.Contacts
	Scheduler *reminder.Scheduler
	Store     *reminder.Store

	// Now is the clock; tests pin it. Nil means time.Now.
	Now func() time.Time
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Executor) say(text string) {
	if err := e.Speaker.Speak(text); err != nil {
		log.Warn("Failed to speak", "err", err)
	}
}

// Execute performs one classification and reports whether the assistant
// should keep running (false only for exit).
func (e *Executor) Execute(ctx context.Context, cls intent.Classification) bool {
	switch cls.Intent {

	case intent.OpenApp:
		name, _ := cls.Arg.(string)
		command, ok := intent.WhitelistedApps[name]
		if ok && e.System.Launch(command) == nil {
			e.say("Opening " + name)
		} else {
			e.say("I couldn't open " + name)
		}

	case intent.OpenBrowser:
		if e.System.OpenURL("https://www.google.com") == nil {
			e.say("Opening browser")
		} else {
			e.say("I couldn't open the browser")
		}

	case intent.OpenSite:
		name, _ := cls.Arg.(string)
		siteURL, ok := intent.WhitelistedSites[name]
		if !ok {
			e.say("Site " + name + " is not allowed")
			break
		}
		if e.System.OpenURL(siteURL) == nil {
			e.say("Opening " + name)
		} else {
			e.say("I couldn't open " + name)
		}

	case intent.PromptOpen:
		e.say("What should I open?")

	case intent.OpenURL:
		target, _ := cls.Arg.(string)
		if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
			e.say("Invalid URL")
			break
		}
		if e.System.OpenURL(target) == nil {
			e.say("Opening site")
		} else {
			e.say("I couldn't open that site")
		}

	case intent.CloseBrowser:
		if e.System.Terminate(intent.BrowserProcesses) == nil {
			e.say("Closed browser")
		} else {
			e.say("I couldn't close the browser")
		}

	case intent.CloseApp:
		name, _ := cls.Arg.(string)
		if name == "explorer" {
			e.say("Closing the file manager is not supported for safety")
			break
		}
		if e.System.Terminate(intent.AppProcesses[name]) == nil {
			e.say("Closed " + name)
		} else {
			e.say("I couldn't close " + name)
		}

	case intent.UnknownOpen:
		if target, _ := cls.Arg.(string); target != "" {
			e.say("I can't open " + target + " yet. Say a known app or website.")
		} else {
			e.say("What should I open?")
		}

	case intent.UnknownClose:
		if target, _ := cls.Arg.(string); target != "" {
			e.say("I can't close " + target + " yet. Say a known app.")
		} else {
			e.say("What should I close?")
		}

	case intent.SearchWeb:
		query, _ := cls.Arg.(string)
		if query == "" {
			e.say("What should I search for?")
			break
		}
		if e.System.OpenURL(searchURL(query)) == nil {
			e.say("Searching Google for " + query)
		} else {
			e.say("I couldn't search for " + query)
		}

	case intent.SearchYouTube:
		query, _ := cls.Arg.(string)
		if query == "" {
			if e.System.OpenURL("https://www.youtube.com") == nil {
				e.say("Opening YouTube")
			} else {
				e.say("I couldn't open YouTube")
			}
			break
		}
		target := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
		if e.System.OpenURL(target) == nil {
			e.say("Searching YouTube for " + query)
		} else {
			e.say("I couldn't open YouTube")
		}

	case intent.Time:
		e.say("It's " + e.now().Format("3:04 PM"))

	case intent.Date:
		e.say("Today is " + e.now().Format("Monday, January 2, 2006"))

	case intent.Greet:
		e.say("Hello, how can I help?")

	case intent.Exit:
		e.say("Goodbye")
		return false

	case intent.Volume:
		direction, _ := cls.Arg.(string)
		if e.System.Volume(direction) == nil {
			e.say("Done")
		} else {
			e.say("Volume control not available")
		}

	case intent.Brightness:
		direction, _ := cls.Arg.(string)
		if e.System.Brightness(direction) == nil {
			e.say("Done")
		} else {
			e.say("Brightness control not available")
		}

	case intent.Media:
		action, _ := cls.Arg.(string)
		if e.System.Media(action) == nil {
			e.say("Done")
		} else {
			e.say("Media control not available")
		}

	case intent.RemindIn:
		arg, ok := cls.Arg.(intent.ReminderIn)
		if !ok {
			e.say("I didn't understand that reminder")
			break
		}
		mult := time.Second
		switch {
		case strings.HasPrefix(arg.Unit, "minute"):
			mult = time.Minute
		case strings.HasPrefix(arg.Unit, "hour"):
			mult = time.Hour
		}
		when := e.now().Add(time.Duration(arg.Amount) * mult)
		e.Scheduler.Schedule(ctx, when, arg.Message)
		e.say(fmt.Sprintf("Reminder set in %d %s", arg.Amount, arg.Unit))

	case intent.RemindAt:
		arg, ok := cls.Arg.(intent.ReminderAt)
		if !ok {
			e.say("I didn't understand that reminder")
			break
		}
		now := e.now()
		when := time.Date(now.Year(), now.Month(), now.Day(), arg.Hour, arg.Minute, 0, 0, now.Location())
		if when.Before(now) {
			when = when.Add(24 * time.Hour)
		}
		e.Scheduler.Schedule(ctx, when, arg.Message)
		e.say(fmt.Sprintf("Reminder set for %02d:%02d", arg.Hour, arg.Minute))

	case intent.Calc:
		expr, _ := cls.Arg.(string)
		if !arithmeticRe.MatchString(expr) {
			e.say("I can only calculate basic arithmetic")
			break
		}
		result, err := EvalArithmetic(expr)
		if err != nil {
			e.say("I couldn't compute that")
		} else {
			e.say("The result is " + result)
		}

	case intent.Convert:
		arg, ok := cls.Arg.(intent.Conversion)
		if !ok {
			break
		}
		converted, supported := Convert(arg.Value, arg.Src, arg.Dst)
		if !supported {
			e.say("I don't support that conversion yet")
			break
		}
		e.say(fmt.Sprintf("%s %s is %s %s",
			formatNumber(arg.Value), arg.Src, formatNumber(round4(converted)), arg.Dst))

	case intent.DateOfWeek:
		date, _ := cls.Arg.(string)
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			e.say("Invalid date format. Use YYYY-MM-DD")
		} else {
			e.say("That is a " + d.Format("Monday"))
		}

	case intent.ProtocolStealth:
		e.System.Volume("mute")
		e.System.Brightness("down")
		e.say("Stealth mode engaged")

	case intent.ProtocolHouseParty:
		e.System.Brightness("up")
		e.System.Media("play_pause")
		e.say("House Party Protocol activated")

	case intent.ProtocolCleanSlate:
		var procs []string
		for app, names := range intent.AppProcesses {
			if app == "explorer" {
				continue
			}
			procs = append(procs, names...)
		}
		e.System.Terminate(procs)
		e.System.Volume("mute")
		if err := e.Store.Clear(); err != nil {
			log.Warn("Failed to clear reminders", "err", err)
		}
		e.say("Clean Slate completed")

	case intent.WinMinimize:
		e.window("minimize", "Minimized", "I couldn't minimize the window")
	case intent.WinRestore:
		e.window("restore", "Restored", "I couldn't restore the window")
	case intent.WinClose:
		e.window("close", "Closed", "I couldn't close the window")
	case intent.WinSwitch:
		e.window("switch", "Switching", "I couldn't switch windows")

	case intent.TypeText:
		if !e.Cfg.InputControlEnabled {
			e.say("Typing is disabled")
			break
		}
		text, _ := cls.Arg.(string)
		if e.System.TypeText(text) == nil {
			e.say("Typed")
		} else {
			e.say("I couldn't type")
		}

	case intent.PressKey:
		if !e.Cfg.InputControlEnabled {
			e.say("Key press is disabled")
			break
		}
		keys, _ := cls.Arg.([]string)
		if len(keys) > 0 && e.System.PressKeys(keys) == nil {
			e.say("Done")
		} else {
			e.say("I couldn't press that")
		}

	case intent.Scroll:
		if !e.Cfg.InputControlEnabled {
			e.say("Scrolling is disabled")
			break
		}
		direction, _ := cls.Arg.(string)
		if e.System.Scroll(direction, e.Cfg.ScrollStep) == nil {
			e.say("Scrolled")
		} else {
			e.say("I couldn't scroll")
		}

	case intent.Screenshot:
		if !e.Cfg.InputControlEnabled {
			e.say("Screenshot is disabled")
			break
		}
		if e.System.Screenshot() == nil {
			e.say("Captured screenshot")
		} else {
			e.say("I couldn't take a screenshot")
		}

	case intent.Weather:
		e.weather(ctx, cls)
	case intent.Wiki:
		e.wiki(ctx, cls)
	case intent.Translate:
		e.translate(ctx, cls)
	case intent.News:
		e.news(ctx, cls)

	case intent.Message:
		e.message(cls)
	case intent.Email:
		e.email(cls)
	case intent.Call:
		e.call(cls)

	default:
		e.say("I didn't understand that command")
	}

	return true
}

func (e *Executor) window(action, ok, failed string) {
	if e.System.Window(action) == nil {
		e.say(ok)
	} else {
		e.say(failed)
	}
}

func searchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
