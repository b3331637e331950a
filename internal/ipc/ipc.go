// Package ipc exposes a unix-socket control surface for the daemon. Each
// connection carries one JSON ControlMessage; the server decodes it and
// hands it to the daemon over a channel.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/jarvis.sock"

type ControlMessage struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

type Server struct {
	ln   net.Listener
	msgs chan ControlMessage
}

// StartServer listens on the unix socket and forwards decoded control
// messages on the returned server's channel. A stale socket file from a
// previous run is removed first.
func StartServer(path string) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	srv := &Server{
		ln:   ln,
		msgs: make(chan ControlMessage, 8),
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.handleConn(conn)
		}
	}()

	return srv, nil
}

// Messages yields control messages in arrival order.
func (s *Server) Messages() <-chan ControlMessage { return s.msgs }

func (s *Server) Close() error { return s.ln.Close() }

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var msg ControlMessage
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&msg); err != nil {
		return
	}
	s.msgs <- msg
}

// SendCommand delivers one control message to a running daemon.
func SendCommand(path string, msg ControlMessage) error {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	return enc.Encode(msg)
}
