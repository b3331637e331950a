// Package exec carries a resolved classification out into the world.
// Everything that touches the OS, the browser, or a network service sits
// behind a capability interface with a no-op default; the executor itself
// only computes, composes, and speaks.
package exec

import (
	"context"
	"errors"
)

// ErrUnavailable is what every null capability returns. The executor maps it
// to the action-specific spoken failure message.
var ErrUnavailable = errors.New("capability unavailable")

// System is the OS-control surface: launching and terminating applications,
// opening URLs in the default browser, and input/volume/brightness/media
// control.
type System interface {
	Launch(command string) error
	Terminate(processes []string) error
	OpenURL(url string) error
	Volume(direction string) error
	Brightness(direction string) error
	Media(action string) error
	TypeText(text string) error
	PressKeys(keys []string) error
	Scroll(direction string, step int) error
	Screenshot() error
	Window(action string) error
}

// Comms sends messages on behalf of the user.
type Comms interface {
	Call(handler, number string) error
	Message(channel, address, body string) error
	Email(address, subject, body string) error
}

// Knowledge answers lookups that need the network.
type Knowledge interface {
	Weather(ctx context.Context, location string) (string, error)
	WikiSummary(ctx context.Context, topic string) (string, error)
	Headlines(ctx context.Context, topic string) ([]string, error)
	Translate(ctx context.Context, text, lang string) (string, error)
}

// NullSystem refuses everything.
type NullSystem struct{}

func (NullSystem) Launch(string) error              { return ErrUnavailable }
func (NullSystem) Terminate([]string) error         { return ErrUnavailable }
func (NullSystem) OpenURL(string) error             { return ErrUnavailable }
func (NullSystem) Volume(string) error              { return ErrUnavailable }
func (NullSystem) Brightness(string) error          { return ErrUnavailable }
func (NullSystem) Media(string) error               { return ErrUnavailable }
func (NullSystem) TypeText(string) error            { return ErrUnavailable }
func (NullSystem) PressKeys([]string) error         { return ErrUnavailable }
func (NullSystem) Scroll(string, int) error         { return ErrUnavailable }
func (NullSystem) Screenshot() error                { return ErrUnavailable }
func (NullSystem) Window(string) error              { return ErrUnavailable }

// NullComms refuses everything.
type NullComms struct{}

func (NullComms) Call(string, string) error            { return ErrUnavailable }
func (NullComms) Message(string, string, string) error { return ErrUnavailable }
func (NullComms) Email(string, string, string) error   { return ErrUnavailable }

// NullKnowledge knows nothing.
type NullKnowledge struct{}

func (NullKnowledge) Weather(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
func (NullKnowledge) WikiSummary(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
func (NullKnowledge) Headlines(context.Context, string) ([]string, error) {
	return nil, ErrUnavailable
}
func (NullKnowledge) Translate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
