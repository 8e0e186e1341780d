package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Notification is a status update of a single submission. It is one of
// Ready, Broadcast, InBlock, Finalized, Failed or Unknown.
type Notification interface {
	isNotification()
}

// Ready is sent when the transaction pool accepted the call.
type Ready struct{}

// Broadcast is sent when the call was gossiped to peers.
type Broadcast struct {
	Peers []string
}

// InBlock is sent when the call was included in a block. The block can
// still be reorganized away.
type InBlock struct {
	Block string
}

// Finalized is sent when the block including the call is final. Events are
// the events emitted by the call.
type Finalized struct {
	Block  string
	Events []Event
}

// Failed is sent when the call was dropped or rejected.
type Failed struct {
	Reason string
}

// Unknown carries a status that is not understood.
type Unknown struct {
	Raw string
}

func (Ready) isNotification()     {}
func (Broadcast) isNotification() {}
func (InBlock) isNotification()   {}
func (Finalized) isNotification() {}
func (Failed) isNotification()    {}
func (Unknown) isNotification()   {}

func describe(n Notification) string {
	switch n := n.(type) {
	case Ready:
		return "ready"
	case Broadcast:
		return fmt.Sprintf("broadcast to %d peers", len(n.Peers))
	case InBlock:
		return "in block " + n.Block
	case Finalized:
		return "finalized in " + n.Block
	case Failed:
		return "failed: " + n.Reason
	case Unknown:
		return "unknown status " + n.Raw
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Event is a chain event emitted while executing a call.
type Event struct {
	Section string          `json:"section"`
	Method  string          `json:"method"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e Event) is(section, method string) bool {
	return strings.EqualFold(e.Section, section) && e.Method == method
}

// HasSuccess returns true if the events contain the ExtrinsicSuccess event
// of the system pallet.
func HasSuccess(events []Event) bool {
	for _, e := range events {
		if e.is("system", "ExtrinsicSuccess") {
			return true
		}
	}
	return false
}

// FailureEvent returns the ExtrinsicFailed event of the system pallet or
// nil.
func FailureEvent(events []Event) *Event {
	for i := range events {
		if events[i].is("system", "ExtrinsicFailed") {
			return &events[i]
		}
	}
	return nil
}

// ParseStatus maps the transaction status of an author_extrinsicUpdate
// notification. A status is either a plain string ("ready", "future",
// "dropped", "invalid") or an object with a single key ({"inBlock": hash}).
// Anything that cannot be parsed is returned as Unknown.
func ParseStatus(raw json.RawMessage) Notification {
	raw = bytes.TrimSpace(raw)

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case "ready":
			return Ready{}
		case "dropped", "invalid":
			return Failed{Reason: name}
		default:
			return Unknown{Raw: name}
		}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj) != 1 {
		return Unknown{Raw: string(raw)}
	}
	for key, value := range obj {
		switch key {
		case "broadcast":
			var peers []string
			if err := json.Unmarshal(value, &peers); err != nil {
				return Unknown{Raw: string(raw)}
			}
			return Broadcast{Peers: peers}
		case "inBlock", "finalized", "usurped", "finalityTimeout":
			var hash string
			if err := json.Unmarshal(value, &hash); err != nil {
				return Unknown{Raw: string(raw)}
			}
			switch key {
			case "inBlock":
				return InBlock{Block: hash}
			case "finalized":
				return Finalized{Block: hash}
			default:
				return Failed{Reason: key + " " + hash}
			}
		}
	}
	return Unknown{Raw: string(raw)}
}
