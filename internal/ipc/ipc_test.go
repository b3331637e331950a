package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "jarvis.sock")

	srv, err := StartServer(socket)
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, SendCommand(socket, ControlMessage{Cmd: "say", Arg: "hello"}))

	select {
	case msg := <-srv.Messages():
		assert.Equal(t, ControlMessage{Cmd: "say", Arg: "hello"}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("control message never arrived")
	}
}

func TestControlPreservesOrder(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "jarvis.sock")

	srv, err := StartServer(socket)
	require.NoError(t, err)
	defer srv.Close()

	cmds := []string{"trigger", "read-full", "dictate"}
	for _, c := range cmds {
		require.NoError(t, SendCommand(socket, ControlMessage{Cmd: c}))
		// Each message rides its own connection; receive before sending the
		// next so arrival order is deterministic.
		select {
		case msg := <-srv.Messages():
			assert.Equal(t, c, msg.Cmd)
		case <-time.After(2 * time.Second):
			t.Fatalf("message %q never arrived", c)
		}
	}
}

func TestSendCommandWithoutServer(t *testing.T) {
	err := SendCommand(filepath.Join(t.TempDir(), "absent.sock"), ControlMessage{Cmd: "trigger"})
	assert.Error(t, err)
}

func TestStartServerReplacesStaleSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "jarvis.sock")

	first, err := StartServer(socket)
	require.NoError(t, err)
	first.Close()

	second, err := StartServer(socket)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, SendCommand(socket, ControlMessage{Cmd: "trigger"}))
	select {
	case msg := <-second.Messages():
		assert.Equal(t, "trigger", msg.Cmd)
	case <-time.After(2 * time.Second):
		t.Fatal("message never arrived on replacement socket")
	}
}
