package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
)

// Message is the JSON form of a dispenser event on the wire.
type Message struct {
	ID          string    `json:"id"`
	Seq         uint64    `json:"seq"`
	Kind        string    `json:"kind"`
	Token       string    `json:"token,omitempty"`
	Number      uint64    `json:"number,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Waiting     int       `json:"waiting"`
	TotalIssued uint64    `json:"total_issued"`
	At          time.Time `json:"at"`
}

// FromEvent converts ev and assigns a fresh message ID.
func FromEvent(ev dispenser.Event) Message {
	msg := Message{
		ID:          uuid.NewString(),
		Seq:         ev.Seq,
		Kind:        string(ev.Kind),
		Token:       ev.Token.Label,
		Number:      ev.Token.Number,
		Waiting:     len(ev.Waiting),
		TotalIssued: ev.TotalIssued,
		At:          ev.At.UTC(),
	}
	if ev.Reason != nil {
		msg.Reason = ev.Reason.Error()
	}
	return msg
}
