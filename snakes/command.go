package snakes

import (
	"encoding/json"
	"errors"
	"fmt"
)

type CommandName string

const (
	CommandSetName CommandName = "SetName"
	CommandTurn    CommandName = "Turn"
)

// Command is a message sent from the client to the server.
// It is encoded as a JSON object with the command name as its only key.
type Command interface {
	Tag() CommandName
	payload() (any, error)
}

// SetName announces the display name of the player. It is sent automatically
// as the first frame of every connection.
type SetName struct {
	Name string
}

func (SetName) Tag() CommandName { return CommandSetName }

func (c SetName) payload() (any, error) { return c.Name, nil }

// Turn rotates the snake for the current tick.
type Turn struct {
	Direction TurnDirection
}

func (Turn) Tag() CommandName { return CommandTurn }

func (c Turn) payload() (any, error) {
	if !c.Direction.Valid() {
		return nil, fmt.Errorf("invalid turn direction %q", c.Direction)
	}
	return c.Direction, nil
}

type TurnDirection string

const (
	Clockwise        TurnDirection = "Clockwise"
	CounterClockwise TurnDirection = "CounterClockwise"
)

func (d TurnDirection) Valid() bool {
	return d == Clockwise || d == CounterClockwise
}

// Encode returns the JSON text frame of cmd.
func Encode(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("%w: nil command", ErrEncodeFailed)
	}
	data, err := cmd.payload()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncodeFailed, err)
	}
	frame, err := json.Marshal(map[CommandName]any{cmd.Tag(): data})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncodeFailed, err)
	}
	return frame, nil
}

// DecodeCommand parses a frame produced by Encode.
func DecodeCommand(frame []byte) (Command, error) {
	var wrapper map[CommandName]json.RawMessage
	if err := json.Unmarshal(frame, &wrapper); err != nil {
		return nil, &DecodeError{Frame: frame, Err: err}
	}
	if len(wrapper) != 1 {
		return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("expected exactly one command tag, got %d", len(wrapper))}
	}

	for name, data := range wrapper {
		switch name {
		case CommandSetName:
			var cmd SetName
			if err := json.Unmarshal(data, &cmd.Name); err != nil {
				return nil, &DecodeError{Frame: frame, Err: err}
			}
			return cmd, nil
		case CommandTurn:
			var cmd Turn
			if err := json.Unmarshal(data, &cmd.Direction); err != nil {
				return nil, &DecodeError{Frame: frame, Err: err}
			}
			if !cmd.Direction.Valid() {
				return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("invalid turn direction %q", cmd.Direction)}
			}
			return cmd, nil
		default:
			return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("unknown command %q", name)}
		}
	}
	return nil, &DecodeError{Frame: frame, Err: errors.New("empty command")}
}
