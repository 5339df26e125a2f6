package snakes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type (
	CallbackId    uuid.UUID
	EventCallback func(event Event)
)

type EventName string

// Event is a message sent from the server to the client.
//
// Name is the variant tag: the key of a single-key object or the value of a bare string.
// It is empty for any other JSON value. Data holds the payload of a single-key object.
// Raw is the complete frame.
type Event struct {
	Name EventName
	Data json.RawMessage
	Raw  json.RawMessage
}

// UnmarshalData decodes the event data into the struct pointed to by targetObjPtr.
func (e *Event) UnmarshalData(targetObjPtr any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %q has no data", e.Name)
	}
	return json.Unmarshal(e.Data, targetObjPtr)
}

// Decode parses an inbound frame. Any well-formed JSON value is accepted.
func Decode(frame []byte) (Event, error) {
	frame = bytes.TrimSpace(frame)
	if !json.Valid(frame) {
		var v any
		err := json.Unmarshal(frame, &v)
		if err == nil {
			err = errors.New("invalid json")
		}
		return Event{}, &DecodeError{Frame: frame, Err: err}
	}

	event := Event{Raw: json.RawMessage(frame)}
	switch frame[0] {
	case '"':
		var name string
		if err := json.Unmarshal(frame, &name); err != nil {
			return Event{}, &DecodeError{Frame: frame, Err: err}
		}
		event.Name = EventName(name)
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(frame, &wrapper); err != nil {
			return Event{}, &DecodeError{Frame: frame, Err: err}
		}
		if len(wrapper) == 1 {
			for name, data := range wrapper {
				event.Name = EventName(name)
				event.Data = data
			}
		}
	}
	return event, nil
}

// DecodeStrict is like Decode but rejects frames that are not a known server event.
func DecodeStrict(frame []byte) (Event, error) {
	event, err := Decode(frame)
	if err != nil {
		return Event{}, err
	}
	switch event.Name {
	case EventTick:
		if len(event.Data) > 0 {
			var data TickData
			if err := event.UnmarshalData(&data); err != nil {
				return Event{}, &DecodeError{Frame: event.Raw, Err: fmt.Errorf("invalid %s data: %w", event.Name, err)}
			}
		}
	default:
		return Event{}, &DecodeError{Frame: event.Raw, Err: fmt.Errorf("unknown event %q", event.Name)}
	}
	return event, nil
}
