package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"jarvis/internal/assistant"
	"jarvis/internal/audio"
	"jarvis/internal/bus"
	"jarvis/internal/config"
	"jarvis/internal/exec"
	"jarvis/internal/intent"
	"jarvis/internal/ipc"
	"jarvis/internal/notify"
	"jarvis/internal/proxy"
	"jarvis/internal/reminder"
	"jarvis/internal/speech"
	"jarvis/internal/tts"
	"jarvis/pkg/audioconv"
	"jarvis/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type daemon struct {
	cfg       *config.Config
	asst      *assistant.Assistant
	speaker   speech.Speaker
	rec       *audio.Recorder
	whisper   *stt.Transcriber
	ducker    *audio.Ducker
	system    exec.System
	turns     chan string
	dictation chan struct{}
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configPath := cli.StringP("config", "c", "jarvis.json", "Config file path")
	proxyAddr := cli.StringP("proxy", "p", "", "SOCKS proxy address, empty for direct")
	socketPath := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	busURL := cli.StringP("bus", "b", "", "Hub websocket URL, empty to disable")
	textMode := cli.BoolP("text", "t", false, "Read commands from stdin instead of the microphone")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	loaded, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	cfg := &loaded

	httpClient := http.DefaultClient
	if *proxyAddr != "" {
		httpClient, err = proxy.NewSocksClient(*proxyAddr, 0)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	speaker := speech.Serialize(&tts.Espeak{Lang: cfg.VoiceLang, Rate: cfg.VoiceRate})

	contacts, err := intent.LoadContacts(cfg.ContactsPath)
	if err != nil {
		log.Warn("Failed to load contacts", "err", err)
		contacts = intent.NewContacts(nil, map[string]intent.Contact{})
	}
	custom, err := intent.LoadCustomCommands(cfg.CustomCommandsPath)
	if err != nil {
		log.Warn("Failed to load custom commands", "err", err)
	}

	store := reminder.NewStore(cfg.RemindersPath)
	sched := reminder.NewScheduler(store, speaker)
	restored, err := sched.Restore(ctx)
	if err != nil {
		log.Warn("Failed to restore reminders", "err", err)
	} else {
		log.Info("Restored reminders", "count", restored)
	}

	executor := &exec.Executor{
		Cfg:       cfg,
		Speaker:   speaker,
		System:    exec.ShellSystem{},
		Comms:     exec.NullComms{},
		Knowledge: exec.HTTPKnowledge{Client: httpClient},
		Contacts:  contacts,
		Scheduler: sched,
		Store:     store,
		Now:       time.Now,
	}

	history := assistant.NewHistory(cfg.HistoryPath)
	asst := assistant.New(cfg, client, executor, speaker, contacts, custom, history)

	d := &daemon{
		cfg:     cfg,
		asst:    asst,
		speaker: speaker,
		system:  executor.System,
		turns:   make(chan string, 8),
	}

	if !*textMode {
		d.rec = audio.NewRecorder(audio.DefaultSettings())
		if err := d.rec.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer d.rec.Close()

		d.whisper, err = stt.NewTranscriber(cfg.WhisperModelPath, stt.Options{
			Language: cfg.Language,
		})
		if err != nil {
			log.Error("Failed to init whisper", "err", err)
			os.Exit(1)
		}
		defer d.whisper.Close()

		d.ducker = audio.NewDucker([]string{"jarvis"}, 20)
		log.Debug("Loaded recorder and whisper")
	}

	srv, err := ipc.StartServer(*socketPath)
	if err != nil {
		log.Error("Failed to start control socket", "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	var hub *bus.Bus
	if *busURL != "" {
		hub, err = bus.Dial(*busURL, 0)
		if err != nil {
			log.Error("Failed to connect to hub", "url", *busURL, "err", err)
			os.Exit(1)
		}
		defer hub.Close()
		go hub.Run(d.turns)
	}

	if *textMode {
		go d.readStdin()
	} else if cfg.WakeWordEnabled {
		go d.wakeLoop(ctx)
	}

	log.Info("Boot up - successful")
	speaker.Speak("Jarvis online.")

	running := true
	for running {
		select {
		case <-ctx.Done():
			running = false

		case text := <-d.turns:
			running = asst.HandleUtterance(ctx, text)
			if hub != nil {
				if ans := asst.LastAnswer(); ans != "" {
					hub.Send(bus.Event{Kind: "answer", Content: ans})
				}
			}
			if cfg.PlayCompletionChime {
				d.chime()
			}

		case msg := <-srv.Messages():
			d.handleControl(ctx, msg)
		}
	}

	cancel()
	sched.Wait()
	log.Info("Shut down")
}

// wakeLoop listens continuously. Inside the conversation window every
// utterance is a command; otherwise a wake word arms capture.
func (d *daemon) wakeLoop(ctx context.Context) {
	for ctx.Err() == nil {
		text, err := d.listen(ctx)
		if err != nil {
			log.Error("Failed to capture audio", "err", err)
			continue
		}
		if text == "" {
			continue
		}

		if d.asst.InConversation() {
			d.turns <- text
			continue
		}

		if !d.asst.ObserveWake(text) {
			continue
		}
		if cmd, ok := d.asst.TakePending(); ok {
			d.turns <- cmd
			continue
		}

		if d.cfg.PlayWakeChime {
			d.chime()
		}
		cmd, err := d.listen(ctx)
		if err != nil {
			log.Error("Failed to capture command", "err", err)
			continue
		}
		if cmd != "" {
			d.turns <- cmd
		}
	}
}

// listen ducks other audio, records one utterance, and transcribes it.
func (d *daemon) listen(ctx context.Context) (string, error) {
	if err := d.ducker.DuckOthers(ctx, 0.3, 200*time.Millisecond); err != nil {
		log.Debug("Ducking unavailable", "err", err)
	}
	defer func() {
		if err := d.ducker.UnduckOthers(ctx, 200*time.Millisecond); err != nil {
			log.Debug("Unducking failed", "err", err)
		}
	}()

	pcm, err := d.rec.RecordAuto()
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}

	tctx, tcancel := context.WithTimeout(ctx, 60*time.Second)
	defer tcancel()
	return d.whisper.Transcribe(tctx, pcm)
}

func (d *daemon) handleControl(ctx context.Context, msg ipc.ControlMessage) {
	log.Debug("Control message", "cmd", msg.Cmd, "arg", msg.Arg)

	switch msg.Cmd {
	case "trigger":
		if d.rec == nil {
			log.Warn("Trigger ignored in text mode")
			return
		}
		d.asst.PromptOnTrigger()
		notify.Desktop("Listening...")
		go func() {
			text, err := d.listen(ctx)
			if err != nil {
				log.Error("Failed to capture command", "err", err)
				return
			}
			if text != "" {
				d.turns <- text
			}
		}()

	case "say":
		if err := d.speaker.Speak(msg.Arg); err != nil {
			log.Error("Failed to speak", "err", err)
		}

	case "transcribe":
		if d.whisper == nil {
			log.Warn("Transcribe ignored in text mode")
			return
		}
		go func() {
			pcm, err := audioconv.DecodeFile(msg.Arg, 0)
			if err != nil {
				log.Error("Failed to decode audio file", "path", msg.Arg, "err", err)
				return
			}
			text, err := d.whisper.Transcribe(ctx, pcm)
			if err != nil {
				log.Error("Failed to transcribe file", "path", msg.Arg, "err", err)
				return
			}
			d.turns <- text
		}()

	case "read-full":
		d.asst.ReadFullAnswer()

	case "dictate":
		d.toggleDictation(ctx)

	default:
		log.Warn("Unknown control command", "cmd", msg.Cmd)
	}
}

// toggleDictation starts free-running capture on the first call and on the
// second stops it, transcribes, and types the text into the focused window.
func (d *daemon) toggleDictation(ctx context.Context) {
	if d.rec == nil {
		log.Warn("Dictation ignored in text mode")
		return
	}
	if d.dictation != nil {
		close(d.dictation)
		d.dictation = nil
		return
	}

	stop := make(chan struct{})
	d.dictation = stop

	go func() {
		pcm, err := d.rec.RecordUntil(stop, 60*time.Second)
		if err != nil {
			log.Error("Failed to record dictation", "err", err)
			return
		}
		text, err := d.whisper.Transcribe(ctx, pcm)
		if err != nil {
			log.Error("Failed to transcribe dictation", "err", err)
			return
		}
		if text == "" {
			return
		}
		if err := d.system.TypeText(text); err != nil {
			log.Error("Failed to type dictation", "err", err)
		}
	}()
}

func (d *daemon) readStdin() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		d.turns <- line
	}
}

func (d *daemon) chime() {
	if d.cfg.ChimePath == "" {
		return
	}
	if err := notify.Chime(d.cfg.ChimePath); err != nil {
		log.Debug("Chime failed", "err", err)
	}
}
