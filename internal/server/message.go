package server

import "github.com/zeusync/focusar/internal/core/presentation"

const (
	MessageHello   = "hello"
	MessageCommand = "command"
)

// Message is the JSON envelope sent to renderers. A hello is sent once per
// connection, followed by a snapshot of the current scene state and then the
// live command stream.
type Message struct {
	Type        string                `json:"type"`
	Seq         uint64                `json:"seq,omitempty"`
	Client      string                `json:"client,omitempty"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Command     *presentation.Command `json:"command,omitempty"`
}
