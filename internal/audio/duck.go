package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type streamInfo struct {
	ID      int
	Volume  int
	AppName string
}

type fadeTarget struct {
	id   int
	from int
	to   int
}

// Ducker fades other applications' audio streams down while the assistant
// is listening or speaking, and restores them afterwards. Streams whose
// application.name is in selfNames are left alone.
type Ducker struct {
	mu          sync.Mutex
	active      bool
	selfNames   []string
	originalVol map[int]int // id -> original volume percent
	minVolume   int
}

func NewDucker(selfNames []string, minVolume int) *Ducker {
	if minVolume < 0 {
		minVolume = 0
	}
	if minVolume > 150 {
		minVolume = 150
	}

	return &Ducker{
		selfNames:   append([]string(nil), selfNames...),
		originalVol: make(map[int]int),
		minVolume:   minVolume,
	}
}

// DuckOthers fades every foreign stream to current*factor, clamped to
// [minVolume, 150]. A second call while active is a no-op.
func (d *Ducker) DuckOthers(ctx context.Context, factor float64, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := listStreams(ctx)
	if err != nil {
		return fmt.Errorf("listStreams: %w", err)
	}

	d.originalVol = make(map[int]int)

	var targets []fadeTarget

	for _, s := range streams {
		if d.isSelfStream(s) {
			continue
		}

		from := s.Volume

		targetFloat := float64(from) * factor
		if targetFloat < float64(d.minVolume) {
			targetFloat = float64(d.minVolume)
		}
		if targetFloat > 150.0 {
			targetFloat = 150.0
		}

		d.originalVol[s.ID] = from

		targets = append(targets, fadeTarget{
			id:   s.ID,
			from: from,
			to:   int(math.Round(targetFloat)),
		})
	}

	if len(targets) == 0 {
		d.active = true
		return nil
	}

	if err := fadeInputs(ctx, targets, duration); err != nil {
		return err
	}

	d.active = true

	return nil
}

// UnduckOthers fades foreign streams back to their recorded volumes.
func (d *Ducker) UnduckOthers(ctx context.Context, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := listStreams(ctx)
	if err != nil {
		return fmt.Errorf("listStreams: %w", err)
	}

	curVol := make(map[int]int)

	for _, s := range streams {
		if d.isSelfStream(s) {
			continue
		}
		curVol[s.ID] = s.Volume
	}

	var targets []fadeTarget

	for id, from := range curVol {
		orig, ok := d.originalVol[id]
		if !ok {
			// stream appeared after the duck, leave it as is
			continue
		}

		targets = append(targets, fadeTarget{
			id:   id,
			from: from,
			to:   orig,
		})
	}

	if len(targets) > 0 {
		if err := fadeInputs(ctx, targets, duration); err != nil {
			return err
		}
	}

	d.originalVol = make(map[int]int)
	d.active = false

	return nil
}

func (d *Ducker) isSelfStream(s streamInfo) bool {
	for _, name := range d.selfNames {
		if s.AppName == name {
			return true
		}
	}

	return false
}

// fadeInputs steps a set of sink inputs towards their targets.
func fadeInputs(ctx context.Context, targets []fadeTarget, duration time.Duration) error {
	if duration <= 0 {
		for _, t := range targets {
			if err := setSinkInputVolume(ctx, t.id, t.to); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}

		return nil
	}

	const minStepDuration = 10 * time.Millisecond

	steps := int(duration / minStepDuration)
	if steps < 1 {
		steps = 1
	}

	stepDuration := duration / time.Duration(steps)

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tFrac := float64(i) / float64(steps)

		for _, s := range targets {
			delta := s.to - s.from
			v := int(math.Round(float64(s.from) + float64(delta)*tFrac))

			if err := setSinkInputVolume(ctx, s.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", s.id, err)
			}
		}

		if i < steps {
			time.Sleep(stepDuration)
		}
	}

	return nil
}

// --- pactl helpers ---

func listStreams(ctx context.Context) ([]streamInfo, error) {
	cmd := exec.CommandContext(ctx, "pactl", "list", "sink-inputs")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	parts := strings.Split(string(out), "Sink Input #")
	if len(parts) <= 1 {
		return nil, nil
	}

	var res []streamInfo

	for i := 1; i < len(parts); i++ {
		block := parts[i]

		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}

		idStr := strings.TrimSpace(block[:newline])
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}

		lines := strings.Split(block[newline+1:], "\n")

		s := streamInfo{ID: id}

		for _, line := range lines {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				m := percentRe.FindStringSubmatch(line)
				if len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}

			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				// application.name = "Firefox"
				idx := strings.Index(line, "\"")
				if idx >= 0 {
					rest := line[idx+1:]
					if idx2 := strings.Index(rest, "\""); idx2 >= 0 {
						s.AppName = rest[:idx2]
					}
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}

		res = append(res, s)
	}

	return res, nil
}

func setSinkInputVolume(ctx context.Context, id int, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 150 {
		percent = 150
	}

	arg := fmt.Sprintf("%d%%", percent)

	cmd := exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg)

	return cmd.Run()
}
