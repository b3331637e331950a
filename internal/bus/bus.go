// Package bus connects the daemon to a hub over a websocket so commands can
// be typed from another machine. Each inbound text frame is one utterance;
// replies go back as JSON events.
package bus

import (
	"encoding/json"
	log "log/slog"
	"time"

	ws "github.com/gorilla/websocket"
)

// Event is one reply to the hub.
type Event struct {
	Kind    string `json:"kind"` // "answer", "status"
	Content string `json:"content"`
}

type Bus struct {
	conn   *ws.Conn
	url    string
	reconn time.Duration
}

func Dial(url string, reconnEvery time.Duration) (*Bus, error) {
	log.Debug("Dialing hub", "url", url)

	if reconnEvery <= 0 {
		reconnEvery = 5 * time.Second
	}

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	return &Bus{
		conn:   conn,
		url:    url,
		reconn: reconnEvery,
	}, nil
}

// Run reads utterances until the connection is closed for good, pushing
// each onto out. Transient closures trigger reconnects.
func (b *Bus) Run(out chan<- string) {
	for {
		_, msg, err := b.conn.ReadMessage()
		if err != nil {
			if !isClosed(err) {
				log.Error("Failed to read from hub", "err", err)
				continue
			}
			log.Warn("Hub connection closed, reconnecting", "url", b.url)
			if !b.tryReconn() {
				return
			}
			log.Info("Reconnected to hub")
			continue
		}

		text := string(msg)
		log.Debug("Hub utterance", "text", text)
		out <- text
	}
}

// Send writes one event back to the hub.
func (b *Bus) Send(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.conn.WriteMessage(ws.TextMessage, payload)
}

func (b *Bus) Close() error { return b.conn.Close() }

func (b *Bus) tryReconn() bool {
	for i := 0; i < 60; i++ {
		conn, _, err := ws.DefaultDialer.Dial(b.url, nil)
		if err == nil {
			b.conn = conn
			return true
		}
		time.Sleep(b.reconn)
	}
	return false
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
