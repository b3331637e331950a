package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Settings tune voice-activity detection for the auto recorder.
type Settings struct {
	SilenceThresholdRMS float64
	SilenceDuration     time.Duration
	MaxUtterance        time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		SilenceThresholdRMS: 0.015,
		SilenceDuration:     600 * time.Millisecond,
		MaxUtterance:        10 * time.Second,
	}
}

type Recorder struct {
	settings Settings
}

func NewRecorder(settings Settings) *Recorder {
	if settings.SilenceThresholdRMS <= 0 {
		settings = DefaultSettings()
	}
	return &Recorder{settings: settings}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms
)

// RecordAuto captures one utterance: it waits for speech, then stops after
// the configured run of trailing silence or the utterance cap. Returns
// 16 kHz mono PCM.
func (r *Recorder) RecordAuto() ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	frameDur := 20 * time.Millisecond
	silenceFramesMax := int(r.settings.SilenceDuration / frameDur)
	maxFrames := int(r.settings.MaxUtterance / frameDur)

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > r.settings.SilenceThresholdRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if silenceFrames >= silenceFramesMax {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

// RecordUntil captures continuously until the stop channel fires or maxDur
// elapses. Used for dictation, where trailing silence must not end capture.
func (r *Recorder) RecordUntil(stop <-chan struct{}, maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 15 * time.Second
	}

	const dictationFrame = 1024
	buf := make([]float32, dictationFrame)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxDur)
	out := make([]float32, 0, int(sampleRate*maxDur.Seconds()))

	for {
		if time.Now().After(deadline) {
			break
		}

		select {
		case <-stop:
			return out, nil
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
