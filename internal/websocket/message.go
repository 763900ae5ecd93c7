package websocket

import (
	"encoding/json"
	"time"
)

// Message types sent to chat clients. Catalog events use their own type
// ("product:created" and so on).
const (
	TypeMessage   = "message"
	TypeHeartbeat = "heartbeat"

	WelcomeText = "Welcome to the chat"
)

// Message is the frame written to clients
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage stamps a message with the current time
func NewMessage(msgType string, data interface{}) Message {
	return Message{Type: msgType, Data: data, Timestamp: time.Now().UTC()}
}

func (m Message) encode() ([]byte, error) {
	return json.Marshal(m)
}

// inbound is the subset of a client frame the server inspects
type inbound struct {
	Type string `json:"type"`
}

// isHeartbeat reports whether a client frame is a keepalive
func isHeartbeat(payload []byte) bool {
	var in inbound
	if err := json.Unmarshal(payload, &in); err != nil {
		return false
	}
	return in.Type == TypeHeartbeat
}
