package exec

import (
	"fmt"
	osexec "os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ShellSystem drives the desktop through the usual Linux command-line
// tools: pactl for volume, brightnessctl for backlight, playerctl for
// media, xdotool for synthetic input, xdg-open for URLs.
type ShellSystem struct {
	ScreenshotDir string
}

func (s ShellSystem) Launch(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return ErrUnavailable
	}
	cmd := osexec.Command(parts[0], parts[1:]...)
	return cmd.Start()
}

func (s ShellSystem) Terminate(processes []string) error {
	var firstErr error
	killed := false
	for _, p := range processes {
		if err := osexec.Command("pkill", "-f", p).Run(); err == nil {
			killed = true
		} else if firstErr == nil {
			firstErr = err
		}
	}
	if killed {
		return nil
	}
	return firstErr
}

func (s ShellSystem) OpenURL(url string) error {
	return osexec.Command("xdg-open", url).Start()
}

func (s ShellSystem) Volume(direction string) error {
	switch direction {
	case "up":
		return osexec.Command("pactl", "set-sink-volume", "@DEFAULT_SINK@", "+10%").Run()
	case "down":
		return osexec.Command("pactl", "set-sink-volume", "@DEFAULT_SINK@", "-10%").Run()
	case "mute":
		return osexec.Command("pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle").Run()
	}
	return fmt.Errorf("unknown volume direction %q", direction)
}

func (s ShellSystem) Brightness(direction string) error {
	switch direction {
	case "up":
		return osexec.Command("brightnessctl", "set", "+10%").Run()
	case "down":
		return osexec.Command("brightnessctl", "set", "10%-").Run()
	}
	return fmt.Errorf("unknown brightness direction %q", direction)
}

func (s ShellSystem) Media(action string) error {
	switch action {
	case "play_pause":
		return osexec.Command("playerctl", "play-pause").Run()
	case "next":
		return osexec.Command("playerctl", "next").Run()
	case "previous":
		return osexec.Command("playerctl", "previous").Run()
	}
	return fmt.Errorf("unknown media action %q", action)
}

func (s ShellSystem) TypeText(text string) error {
	return osexec.Command("xdotool", "type", "--delay", "30", text).Run()
}

func (s ShellSystem) PressKeys(keys []string) error {
	if len(keys) == 0 {
		return ErrUnavailable
	}
	return osexec.Command("xdotool", "key", strings.Join(keys, "+")).Run()
}

func (s ShellSystem) Scroll(direction string, step int) error {
	// xdotool scrolls by clicks, not pixels
	clicks := step / 120
	if clicks < 1 {
		clicks = 1
	}
	button := "5"
	if direction == "up" {
		button = "4"
	}
	return osexec.Command("xdotool", "click", "--repeat", strconv.Itoa(clicks), button).Run()
}

func (s ShellSystem) Screenshot() error {
	dir := s.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	name := filepath.Join(dir, "screenshot_"+time.Now().Format("20060102_150405")+".png")
	if err := osexec.Command("grim", name).Run(); err == nil {
		return nil
	}
	return osexec.Command("scrot", name).Run()
}

func (s ShellSystem) Window(action string) error {
	switch action {
	case "minimize":
		return osexec.Command("xdotool", "getactivewindow", "windowminimize").Run()
	case "restore":
		return osexec.Command("wmctrl", "-r", ":ACTIVE:", "-b", "add,maximized_vert,maximized_horz").Run()
	case "close":
		return osexec.Command("xdotool", "getactivewindow", "windowclose").Run()
	case "switch":
		return osexec.Command("xdotool", "key", "alt+Tab").Run()
	}
	return fmt.Errorf("unknown window action %q", action)
}
