package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// CustomCommand is a user-defined exact-phrase override resolved before any
// generic rule.
type CustomCommand struct {
	Action string `json:"action"`
	Target string `json:"target"`
}

// CustomCommands maps an exact lowercase phrase to its pre-resolved command.
type CustomCommands map[string]CustomCommand

// WhitelistedApps maps spoken app names to launch commands.
var WhitelistedApps = map[string]string{
	"notepad":    "gedit",
	"calculator": "gnome-calculator",
	"paint":      "gimp",
	"vscode":     "code",
	"explorer":   "nautilus",
	"chrome":     "google-chrome",
	"edge":       "microsoft-edge",
	"firefox":    "firefox",
	"brave":      "brave",
	"opera":      "opera",
	"spotify":    "spotify",
	"whatsapp":   "whatsapp",
	"zoom":       "zoom",
}

// AppProcesses lists process names safe to terminate per whitelisted app.
var AppProcesses = map[string][]string{
	"notepad":    {"gedit"},
	"calculator": {"gnome-calculator"},
	"paint":      {"gimp"},
	"vscode":     {"code"},
	"explorer":   {"nautilus"},
	"chrome":     {"chrome", "google-chrome"},
	"edge":       {"msedge", "microsoft-edge"},
	"firefox":    {"firefox"},
	"brave":      {"brave"},
	"opera":      {"opera"},
	"spotify":    {"spotify"},
	"whatsapp":   {"whatsapp"},
	"zoom":       {"zoom"},
}

// BrowserProcesses are terminated on "close browser".
var BrowserProcesses = []string{
	"chrome", "google-chrome", "msedge", "firefox", "brave", "opera",
}

// WhitelistedSites maps spoken site names to URLs.
var WhitelistedSites = map[string]string{
	"google":        "https://www.google.com",
	"youtube":       "https://www.youtube.com",
	"github":        "https://github.com",
	"gmail":         "https://mail.google.com",
	"wikipedia":     "https://www.wikipedia.org",
	"stackoverflow": "https://stackoverflow.com",
	"netflix":       "https://www.netflix.com",
	"whatsapp":      "https://web.whatsapp.com",
}

type utterance struct {
	norm string // lower-cased, trimmed
	raw  string // original casing, trimmed
}

// rule is one row of the dispatch table: a predicate-plus-extractor that
// either claims the utterance or passes it down.
type rule struct {
	name string
	try  func(u utterance) (Classification, bool)
}

// Match resolves a command to exactly one classification. Custom commands are
// consulted first; then the rule table in order; the bottom case is
// (unknown, normalized text).
func Match(command string, custom CustomCommands) Classification {
	u := utterance{
		norm: strings.ToLower(strings.TrimSpace(command)),
		raw:  strings.TrimSpace(command),
	}

	if act, ok := custom[u.norm]; ok {
		return Classification{Intent: Intent(act.Action), Arg: act.Target}
	}

	for _, r := range rules {
		if cls, ok := r.try(u); ok {
			return cls
		}
	}

	return Classification{Intent: Unknown, Arg: u.norm}
}

// Evaluation order mirrors the assistant's long-standing priority: structural
// verb rules, then fixed phrase sets, then regex extraction, then unknown.
var rules = []rule{
	{"open", matchOpen},
	{"close", matchClose},
	{"goto", matchGoTo},
	{"search", matchSearch},
	{"youtube", matchYouTube},
	{"type", matchType},
	{"press", matchPress},
	{"scroll", matchScroll},
	{"screenshot", matchScreenshot},
	{"time", matchTime},
	{"date", matchDate},
	{"volume", matchVolume},
	{"brightness", matchBrightness},
	{"media", matchMedia},
	{"remind_in", matchRemindIn},
	{"remind_at", matchRemindAt},
	{"greet", matchGreet},
	{"exit", matchExit},
	{"calc", matchCalc},
	{"convert", matchConvert},
	{"date_of_week", matchDateOfWeek},
	{"read_full_answer", matchReadFull},
	{"protocols", matchProtocols},
	{"message", matchMessage},
	{"email", matchEmail},
	{"call", matchCall},
	{"weather", matchWeather},
	{"wiki", matchWiki},
	{"timer", matchTimer},
	{"alarm", matchAlarm},
	{"translate", matchTranslate},
	{"news", matchNews},
}

var domainRe = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}(/.*)?$`)

func matchOpen(u utterance) (Classification, bool) {
	c := u.norm
	if c == "open" {
		return Classification{Intent: PromptOpen}, true
	}
	if !strings.HasPrefix(c, "open ") {
		return Classification{}, false
	}
	target := strings.TrimSpace(strings.TrimPrefix(c, "open "))

	// Explicit "in browser"/"web" phrasing prefers the site over the app.
	if strings.Contains(target, " in browser") || strings.Contains(target, " on browser") || strings.Contains(target, " web") {
		hint := target
		for _, mark := range []string{" in browser", " on browser", " web"} {
			hint = strings.ReplaceAll(hint, mark, "")
		}
		hint = strings.TrimSpace(hint)
		if _, ok := WhitelistedSites[hint]; ok {
			return Classification{Intent: OpenSite, Arg: hint}, true
		}
		if hint == "whatsapp" || hint == "whatsapp web" {
			return Classification{Intent: OpenSite, Arg: "whatsapp"}, true
		}
	}

	if _, ok := WhitelistedApps[target]; ok {
		return Classification{Intent: OpenApp, Arg: target}, true
	}
	if _, ok := WhitelistedSites[target]; ok {
		return Classification{Intent: OpenSite, Arg: target}, true
	}
	if target == "chrome" || target == "browser" {
		return Classification{Intent: OpenBrowser}, true
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return Classification{Intent: OpenURL, Arg: target}, true
	}
	if domainRe.MatchString(target) {
		return Classification{Intent: OpenURL, Arg: "https://" + target}, true
	}
	return Classification{Intent: UnknownOpen, Arg: target}, true
}

var determinerRe = regexp.MustCompile(`^(the|my)\s+`)

func matchClose(u utterance) (Classification, bool) {
	c := u.norm
	if c == "close browser" || c == "close the browser" {
		return Classification{Intent: CloseBrowser}, true
	}
	if !strings.HasPrefix(c, "close ") {
		return Classification{}, false
	}
	target := strings.TrimSpace(c[len("close "):])
	target = determinerRe.ReplaceAllString(target, "")
	switch target {
	case "browser", "chrome", "google", "edge", "firefox", "brave", "opera":
		return Classification{Intent: CloseBrowser}, true
	}
	if _, ok := WhitelistedApps[target]; ok {
		return Classification{Intent: CloseApp, Arg: target}, true
	}
	return Classification{Intent: UnknownClose, Arg: target}, true
}

func matchGoTo(u utterance) (Classification, bool) {
	c := u.norm
	if !strings.HasPrefix(c, "go to ") && !strings.HasPrefix(c, "goto ") {
		return Classification{}, false
	}
	parts := strings.SplitN(c, " ", 3)
	target := strings.TrimSpace(parts[len(parts)-1])
	if _, ok := WhitelistedSites[target]; ok {
		return Classification{Intent: OpenSite, Arg: target}, true
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return Classification{Intent: OpenURL, Arg: target}, true
	}
	if domainRe.MatchString(target) {
		return Classification{Intent: OpenURL, Arg: "https://" + target}, true
	}
	return Classification{Intent: UnknownSite, Arg: target}, true
}

func matchSearch(u utterance) (Classification, bool) {
	c := u.norm
	if !strings.HasPrefix(c, "search ") && !strings.HasPrefix(c, "google ") {
		return Classification{}, false
	}
	query := strings.TrimSpace(strings.SplitN(c, " ", 2)[1])
	return Classification{Intent: SearchWeb, Arg: query}, true
}

func matchYouTube(u utterance) (Classification, bool) {
	c := u.norm
	if !strings.HasPrefix(c, "youtube ") && !strings.HasPrefix(c, "search youtube ") {
		return Classification{}, false
	}
	q := ""
	if i := strings.Index(c, " "); i >= 0 {
		q = strings.TrimSpace(c[i+1:])
	}
	return Classification{Intent: SearchYouTube, Arg: q}, true
}

func matchType(u utterance) (Classification, bool) {
	if !strings.HasPrefix(u.norm, "type ") {
		return Classification{}, false
	}
	// Payload keeps the original casing.
	text := strings.TrimSpace(u.raw[len("type "):])
	if text == "" {
		return Classification{}, false
	}
	return Classification{Intent: TypeText, Arg: text}, true
}

var keySynonyms = map[string]string{
	"enter": "enter", "return": "enter",
	"escape": "esc", "esc": "esc",
	"control": "ctrl", "ctrl": "ctrl",
	"alternate": "alt", "alt": "alt",
	"tab": "tab", "space": "space",
	"delete": "delete", "backspace": "backspace",
}

var keySplitRe = regexp.MustCompile(`[+\-]`)

func matchPress(u utterance) (Classification, bool) {
	if !strings.HasPrefix(u.norm, "press ") {
		return Classification{}, false
	}
	key := strings.TrimSpace(u.norm[len("press "):])
	var parts []string
	for _, p := range keySplitRe.Split(key, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if mapped, ok := keySynonyms[p]; ok {
			p = mapped
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return Classification{}, false
	}
	return Classification{Intent: PressKey, Arg: parts}, true
}

func matchScroll(u utterance) (Classification, bool) {
	switch u.norm {
	case "scroll up", "scroll down", "scroll top", "scroll bottom":
		return Classification{Intent: Scroll, Arg: strings.SplitN(u.norm, " ", 2)[1]}, true
	}
	return Classification{}, false
}

func matchScreenshot(u utterance) (Classification, bool) {
	switch u.norm {
	case "screenshot", "take screenshot", "capture screen":
		return Classification{Intent: Screenshot}, true
	}
	return Classification{}, false
}

func matchTime(u utterance) (Classification, bool) {
	if strings.Contains(u.norm, "time") {
		return Classification{Intent: Time}, true
	}
	return Classification{}, false
}

func matchDate(u utterance) (Classification, bool) {
	if strings.Contains(u.norm, "date") || strings.Contains(u.norm, "day") {
		return Classification{Intent: Date}, true
	}
	return Classification{}, false
}

func matchVolume(u utterance) (Classification, bool) {
	switch u.norm {
	case "volume up", "increase volume":
		return Classification{Intent: Volume, Arg: "up"}, true
	case "volume down", "decrease volume":
		return Classification{Intent: Volume, Arg: "down"}, true
	case "mute", "unmute", "toggle mute":
		return Classification{Intent: Volume, Arg: "mute"}, true
	}
	return Classification{}, false
}

func matchBrightness(u utterance) (Classification, bool) {
	switch u.norm {
	case "brightness up", "increase brightness":
		return Classification{Intent: Brightness, Arg: "up"}, true
	case "brightness down", "decrease brightness":
		return Classification{Intent: Brightness, Arg: "down"}, true
	}
	return Classification{}, false
}

func matchMedia(u utterance) (Classification, bool) {
	switch u.norm {
	case "play", "pause", "play pause", "resume":
		return Classification{Intent: Media, Arg: "play_pause"}, true
	case "next", "next track", "next song":
		return Classification{Intent: Media, Arg: "next"}, true
	case "previous", "previous track", "previous song":
		return Classification{Intent: Media, Arg: "previous"}, true
	}
	return Classification{}, false
}

var remindInRe = regexp.MustCompile(`^remind me in (\d+) (second|seconds|minute|minutes|hour|hours) to (.+)`)

func matchRemindIn(u utterance) (Classification, bool) {
	m := remindInRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	amount, _ := strconv.Atoi(m[1])
	return Classification{Intent: RemindIn, Arg: ReminderIn{Amount: amount, Unit: m[2], Message: m[3]}}, true
}

var remindAtRe = regexp.MustCompile(`^remind me at (\d{1,2}):(\d{2}) to (.+)`)

func matchRemindAt(u utterance) (Classification, bool) {
	m := remindAtRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return Classification{Intent: RemindAt, Arg: ReminderAt{Hour: hh, Minute: mm, Message: m[3]}}, true
}

func matchGreet(u utterance) (Classification, bool) {
	switch u.norm {
	case "hello", "hi", "hey":
		return Classification{Intent: Greet}, true
	}
	return Classification{}, false
}

func matchExit(u utterance) (Classification, bool) {
	switch u.norm {
	case "stop", "exit", "quit", "bye":
		return Classification{Intent: Exit}, true
	}
	return Classification{}, false
}

// calcRe restricts bare arithmetic to digits and +-*/(). before anything is
// ever evaluated.
var calcRe = regexp.MustCompile(`^(what is |what's )?([0-9\s+\-*/().]+)$`)

func matchCalc(u utterance) (Classification, bool) {
	c := u.norm
	if strings.HasPrefix(c, "calculate ") {
		expr := strings.TrimSpace(strings.TrimPrefix(c, "calculate "))
		return Classification{Intent: Calc, Arg: expr}, true
	}
	if m := calcRe.FindStringSubmatch(c); m != nil {
		return Classification{Intent: Calc, Arg: strings.TrimSpace(m[2])}, true
	}
	return Classification{}, false
}

var convertRe = regexp.MustCompile(`^convert\s+([\d.]+)\s*([a-z]+)\s+to\s+([a-z]+)`)

func matchConvert(u utterance) (Classification, bool) {
	m := convertRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Classification{}, false
	}
	return Classification{Intent: Convert, Arg: Conversion{Value: val, Src: m[2], Dst: m[3]}}, true
}

var dateOfWeekRe = regexp.MustCompile(`^what (day|day of week) is (\d{4}-\d{2}-\d{2})`)

func matchDateOfWeek(u utterance) (Classification, bool) {
	m := dateOfWeekRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	return Classification{Intent: DateOfWeek, Arg: m[2]}, true
}

func matchReadFull(u utterance) (Classification, bool) {
	switch u.norm {
	case "read full answer", "read the answer", "read again", "repeat answer", "repeat the answer":
		return Classification{Intent: ReadFullAnswer}, true
	}
	return Classification{}, false
}

func matchProtocols(u utterance) (Classification, bool) {
	switch u.norm {
	case "engage stealth mode", "stealth mode", "enter stealth mode":
		return Classification{Intent: ProtocolStealth}, true
	case "house party protocol", "initiate house party", "start house party":
		return Classification{Intent: ProtocolHouseParty}, true
	case "clean slate protocol", "initiate clean slate", "clean slate":
		return Classification{Intent: ProtocolCleanSlate}, true
	}
	return Classification{}, false
}

var (
	messageBodyRe = regexp.MustCompile(`^(send\s+)?message\s+(to\s+)?([a-z\s]+?)[,:]?\s+(.*)$`)
	messageNameRe = regexp.MustCompile(`^(send\s+)?(a\s+)?message\s+to\s+([a-z\s]+)$`)
)

func matchMessage(u utterance) (Classification, bool) {
	if m := messageBodyRe.FindStringSubmatch(u.norm); m != nil {
		name := strings.TrimSpace(m[3])
		body := strings.TrimSpace(m[4])
		if name != "" && body != "" {
			return Classification{Intent: Message, Arg: ContactMessage{Name: name, Body: body}}, true
		}
	}
	if m := messageNameRe.FindStringSubmatch(u.norm); m != nil {
		return Classification{Intent: Message, Arg: ContactMessage{Name: strings.TrimSpace(m[3])}}, true
	}
	return Classification{}, false
}

var emailRe = regexp.MustCompile(`^(send\s+)?email\s+(to\s+)?([a-z\s]+?)(?:\s+about|\s+regarding|\s+subject)?[,:]?\s*(.*)$`)

func matchEmail(u utterance) (Classification, bool) {
	m := emailRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	return Classification{Intent: Email, Arg: ContactMessage{
		Name: strings.TrimSpace(m[3]),
		Body: strings.TrimSpace(m[4]),
	}}, true
}

var callRe = regexp.MustCompile(`^(call|dial)\s+([a-z\s]+)$`)

func matchCall(u utterance) (Classification, bool) {
	m := callRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	return Classification{Intent: Call, Arg: strings.TrimSpace(m[2])}, true
}

var weatherRe = regexp.MustCompile(`^(what'?s\s+the\s+)?(weather|temperature)(\s+in\s+(.+))?`)

func matchWeather(u utterance) (Classification, bool) {
	m := weatherRe.FindStringSubmatch(u.norm)
	if m == nil || m[2] == "" {
		return Classification{}, false
	}
	return Classification{Intent: Weather, Arg: strings.TrimSpace(m[4])}, true
}

var wikiRe = regexp.MustCompile(`^(who is|what is|tell me about)\s+(.+)$`)

func matchWiki(u utterance) (Classification, bool) {
	m := wikiRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	return Classification{Intent: Wiki, Arg: strings.TrimSpace(m[2])}, true
}

var timerRe = regexp.MustCompile(`^(set\s+)?(a\s+)?timer\s+for\s+(\d+)\s+(second|seconds|minute|minutes|hour|hours)`)

func matchTimer(u utterance) (Classification, bool) {
	m := timerRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	amount, _ := strconv.Atoi(m[3])
	return Classification{Intent: RemindIn, Arg: ReminderIn{Amount: amount, Unit: m[4], Message: "Timer finished"}}, true
}

var alarmRe = regexp.MustCompile(`^(set\s+)?(an\s+)?alarm\s+(for|at)\s+(\d{1,2})(:(\d{2}))?\s*(am|pm)?`)

func matchAlarm(u utterance) (Classification, bool) {
	m := alarmRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	hh, _ := strconv.Atoi(m[4])
	mm := 0
	if m[6] != "" {
		mm, _ = strconv.Atoi(m[6])
	}
	// 12-hour to 24-hour: 12 AM is midnight, 12 PM stays noon.
	switch m[7] {
	case "pm":
		if hh < 12 {
			hh += 12
		}
	case "am":
		if hh == 12 {
			hh = 0
		}
	}
	return Classification{Intent: RemindAt, Arg: ReminderAt{Hour: hh, Minute: mm, Message: "Alarm"}}, true
}

var translateRe = regexp.MustCompile(`^translate\s+(.+?)\s+to\s+([a-zA-Z\-]+)$`)

func matchTranslate(u utterance) (Classification, bool) {
	m := translateRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	return Classification{Intent: Translate, Arg: Translation{Text: strings.TrimSpace(m[1]), Lang: strings.TrimSpace(m[2])}}, true
}

var newsRe = regexp.MustCompile(`^(news|headlines)(\s+about\s+(.+))?$`)

func matchNews(u utterance) (Classification, bool) {
	m := newsRe.FindStringSubmatch(u.norm)
	if m == nil {
		return Classification{}, false
	}
	return Classification{Intent: News, Arg: strings.TrimSpace(m[3])}, true
}
