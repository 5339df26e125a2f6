// Package strategy contains responders that decide how the snake moves.
package strategy

import (
	"fmt"

	"github.com/snakes-game/go-client/snakes"
)

const (
	NameClockwise        = "clockwise"
	NameCounterClockwise = "counter-clockwise"
	NameSurvivor         = "survivor"
)

// ByName returns the responder registered under name.
func ByName(name string) (snakes.Responder, error) {
	switch name {
	case NameClockwise:
		return snakes.Constant(snakes.Turn{Direction: snakes.Clockwise}), nil
	case NameCounterClockwise:
		return snakes.Constant(snakes.Turn{Direction: snakes.CounterClockwise}), nil
	case NameSurvivor:
		return Survivor, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

type option struct {
	turn *snakes.TurnDirection
	cmd  snakes.Command
}

// Survivor answers Tick events with the move whose next cell is free, preferring apples
// and going straight on ties. Going straight sends no command. Other events are ignored.
func Survivor(event snakes.Event) snakes.Command {
	if event.Name != snakes.EventTick {
		return nil
	}
	var tick snakes.TickData
	if err := event.UnmarshalData(&tick); err != nil {
		return nil
	}

	clockwise, counterClockwise := snakes.Clockwise, snakes.CounterClockwise
	options := []option{
		{turn: nil, cmd: nil},
		{turn: &clockwise, cmd: snakes.Turn{Direction: clockwise}},
		{turn: &counterClockwise, cmd: snakes.Turn{Direction: counterClockwise}},
	}

	best, bestScore := options[0], -1
	for _, o := range options {
		direction := tick.YourDirection
		if o.turn != nil {
			direction = direction.Turn(*o.turn)
		}
		score := scorePiece(tick.At(direction.Step(tick.YourPosition, tick.MapSize)))
		if score > bestScore {
			best, bestScore = o, score
		}
	}
	return best.cmd
}

func scorePiece(piece snakes.MapPiece) int {
	switch {
	case piece.Blocked():
		return 0
	case piece.Kind == snakes.PieceApple:
		return 2
	default:
		return 1
	}
}
