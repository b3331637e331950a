// Package intent turns a normalized utterance into a single classification.
// Matching is deterministic: an ordered rule table is scanned top to bottom
// and the first rule whose predicate succeeds wins.
package intent

// Intent is a tag from the fixed closed set of actions and queries the
// pipeline can resolve an utterance to.
type Intent string

const (
	OpenApp      Intent = "open_app"
	OpenBrowser  Intent = "open_browser"
	OpenSite     Intent = "open_site"
	OpenURL      Intent = "open_url"
	PromptOpen   Intent = "prompt_open"
	UnknownOpen  Intent = "unknown_open"
	CloseApp     Intent = "close_app"
	CloseBrowser Intent = "close_browser"
	UnknownClose Intent = "unknown_close"
	UnknownSite  Intent = "unknown_site"

	SearchWeb     Intent = "search_web"
	SearchYouTube Intent = "search_youtube"

	TypeText   Intent = "type_text"
	PressKey   Intent = "press_key"
	Scroll     Intent = "scroll"
	Screenshot Intent = "screenshot"

	WinMinimize Intent = "win_minimize"
	WinRestore  Intent = "win_restore"
	WinClose    Intent = "win_close"
	WinSwitch   Intent = "win_switch"

	Time       Intent = "time"
	Date       Intent = "date"
	Volume     Intent = "volume"
	Brightness Intent = "brightness"
	Media      Intent = "media"

	RemindIn Intent = "remind_in"
	RemindAt Intent = "remind_at"

	Greet Intent = "greet"
	Exit  Intent = "exit"

	Calc       Intent = "calc"
	Convert    Intent = "convert"
	DateOfWeek Intent = "date_of_week"

	ReadFullAnswer Intent = "read_full_answer"

	ProtocolStealth    Intent = "protocol_stealth"
	ProtocolHouseParty Intent = "protocol_house_party"
	ProtocolCleanSlate Intent = "protocol_clean_slate"

	Message Intent = "message"
	Email   Intent = "email"
	Call    Intent = "call"

	Weather   Intent = "weather"
	Wiki      Intent = "wiki"
	Translate Intent = "translate"
	News      Intent = "news"

	Unknown Intent = "unknown"
)

// Classification is the result of resolving one utterance: an intent plus an
// intent-specific argument (string, typed struct, []string, or nil).
type Classification struct {
	Intent Intent
	Arg    any
}

// ReminderIn is the argument of a relative reminder ("remind me in N unit to ...").
type ReminderIn struct {
	Amount  int
	Unit    string
	Message string
}

// ReminderAt is the argument of an absolute reminder, 24-hour clock.
type ReminderAt struct {
	Hour    int
	Minute  int
	Message string
}

// Conversion is the argument of a unit conversion request.
type Conversion struct {
	Value float64
	Src   string
	Dst   string
}

// ContactMessage is the argument of a message/email intent. Body may be empty
// when the utterance named a contact without dictating content.
type ContactMessage struct {
	Name string
	Body string
}

// Translation is the argument of a translate intent.
type Translation struct {
	Text string
	Lang string
}

var actionIntents = map[Intent]bool{
	OpenApp: true, OpenBrowser: true, OpenSite: true,
	CloseApp: true, CloseBrowser: true,
	SearchWeb: true, SearchYouTube: true, Time: true, Date: true,
	Volume: true, Brightness: true, Media: true,
	RemindIn: true, RemindAt: true,
	Calc: true, Convert: true, DateOfWeek: true,
	WinMinimize: true, WinRestore: true, WinClose: true, WinSwitch: true,
	TypeText: true, PressKey: true, Scroll: true, Screenshot: true,
	Greet: true, Exit: true,
	Call: true, Message: true, Email: true,
}

// IsAction reports whether an intent belongs to the fixed allow-list of
// deterministic action intents. When the assistant runs in AI-default mode,
// only these bypass the generic answer stage.
func IsAction(i Intent) bool { return actionIntents[i] }
