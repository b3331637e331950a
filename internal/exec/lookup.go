package exec

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jarvis/internal/intent"
)

// Network lookups: try the Knowledge capability, fall back to opening the
// matching web page, and only then admit failure out loud.

func (e *Executor) weather(ctx context.Context, cls intent.Classification) {
	location, _ := cls.Arg.(string)
	report, err := e.Knowledge.Weather(ctx, location)
	if err == nil && report != "" {
		e.say(report)
		return
	}
	if e.System.OpenURL(searchURL("weather "+location)) == nil {
		e.say("Opening weather")
		return
	}
	e.say("I couldn't get the weather")
}

func (e *Executor) wiki(ctx context.Context, cls intent.Classification) {
	topic, _ := cls.Arg.(string)
	summary, err := e.Knowledge.WikiSummary(ctx, topic)
	if err == nil && summary != "" {
		e.say(truncate(summary, 500))
		return
	}
	if e.System.OpenURL("https://en.wikipedia.org/wiki/"+url.PathEscape(topic)) == nil {
		e.say("Opening Wikipedia")
		return
	}
	e.say("I couldn't look that up")
}

func (e *Executor) translate(ctx context.Context, cls intent.Classification) {
	arg, ok := cls.Arg.(intent.Translation)
	if !ok {
		return
	}
	translated, err := e.Knowledge.Translate(ctx, arg.Text, arg.Lang)
	if err == nil && translated != "" {
		e.say(truncate(translated, 500))
		return
	}
	target := "https://translate.google.com/?sl=auto&tl=" + url.QueryEscape(arg.Lang) +
		"&text=" + url.QueryEscape(arg.Text) + "&op=translate"
	if e.System.OpenURL(target) == nil {
		e.say("Opening translation to " + arg.Lang)
		return
	}
	e.say("I couldn't translate that")
}

func (e *Executor) news(ctx context.Context, cls intent.Classification) {
	topic, _ := cls.Arg.(string)
	headlines, err := e.Knowledge.Headlines(ctx, topic)
	if err == nil && len(headlines) > 0 {
		if len(headlines) > 5 {
			headlines = headlines[:5]
		}
		if topic != "" {
			e.say(fmt.Sprintf("Top %d headlines about %s:", len(headlines), topic))
		} else {
			e.say(fmt.Sprintf("Top %d headlines:", len(headlines)))
		}
		for _, h := range headlines {
			e.say(truncate(h, 200))
		}
		return
	}
	if e.System.OpenURL("https://news.google.com") == nil {
		e.say("Opening Google News")
		return
	}
	e.say("I couldn't get the news")
}

func (e *Executor) message(cls intent.Classification) {
	arg, ok := cls.Arg.(intent.ContactMessage)
	if !ok {
		return
	}
	if !e.Cfg.CommunicationsEnabled {
		e.say("Messaging is disabled in settings")
		return
	}
	info, ok := e.Contacts.Get(arg.Name)
	if !ok {
		e.say("I don't have contact info for " + arg.Name)
		return
	}

	channel := strings.ToLower(e.Cfg.DefaultMessageChannel)
	switch channel {
	case "whatsapp":
		phone := strings.ReplaceAll(firstNonEmpty(info.Phone, info.WhatsApp), " ", "")
		if phone == "" {
			e.say(arg.Name + " has no WhatsApp number saved")
			return
		}
		if e.Comms.Message("whatsapp", phone, arg.Body) == nil {
			e.say("Message sent to " + arg.Name + " on WhatsApp")
			return
		}
		// Fall back to a prefilled chat in the browser.
		if e.System.OpenURL("https://wa.me/"+phone+"?text="+url.QueryEscape(arg.Body)) == nil {
			e.say("Opening WhatsApp chat with " + arg.Name)
			return
		}
		e.say("Failed to compose message")
	case "email":
		if info.Email == "" {
			e.say(arg.Name + " has no email saved")
			return
		}
		e.sendEmail(arg.Name, info.Email, arg.Body)
	default:
		e.say("Unsupported message channel")
	}
}

func (e *Executor) email(cls intent.Classification) {
	arg, ok := cls.Arg.(intent.ContactMessage)
	if !ok {
		return
	}
	info, ok := e.Contacts.Get(arg.Name)
	if !ok || info.Email == "" {
		e.say("I don't have an email for " + arg.Name)
		return
	}
	e.sendEmail(arg.Name, info.Email, arg.Body)
}

func (e *Executor) sendEmail(name, address, body string) {
	if e.Comms.Email(address, "", body) == nil {
		e.say("Email sent to " + name)
		return
	}
	if e.System.OpenURL("mailto:"+address+"?body="+url.QueryEscape(body)) == nil {
		e.say("Opening email to " + name)
		return
	}
	e.say("Failed to compose email")
}

func (e *Executor) call(cls intent.Classification) {
	name, _ := cls.Arg.(string)
	info, ok := e.Contacts.Get(name)
	if !ok || info.Phone == "" {
		e.say("I don't have a phone number for " + name)
		return
	}
	number := strings.ReplaceAll(info.Phone, " ", "")
	handler := strings.ToLower(e.Cfg.CallHandler)
	if e.Comms.Call(handler, number) == nil {
		e.say("Trying to call " + name)
		return
	}
	if e.System.OpenURL("tel:"+number) == nil {
		e.say("Calling " + name)
		return
	}
	e.say("Failed to start call")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
