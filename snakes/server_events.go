package snakes

import (
	"encoding/json"
	"fmt"
)

// The Tick event is sent to every player once per game tick. The server accepts one command per player per tick.
const EventTick EventName = "Tick"

type TickData struct {
	Map           []MapPiece `json:"map"`
	MapSize       Size       `json:"map_size"`
	YourPosition  Position   `json:"your_position"`
	YourDirection Direction  `json:"your_direction"`
}

// At returns the piece at p. Positions outside the map are reported as empty.
func (t TickData) At(p Position) MapPiece {
	if p.X < 0 || p.Y < 0 || p.X >= t.MapSize.Width || p.Y >= t.MapSize.Height {
		return MapPiece{Kind: PieceEmpty}
	}
	index := p.X + p.Y*t.MapSize.Width
	if index >= len(t.Map) {
		return MapPiece{Kind: PieceEmpty}
	}
	return t.Map[index]
}

// Returns true if eventName is an event sent by the server.
func IsServerEvent(eventName EventName) bool {
	return eventName == EventTick
}

type Direction string

const (
	Left  Direction = "Left"
	Right Direction = "Right"
	Up    Direction = "Up"
	Down  Direction = "Down"
)

// DirectionFromIndex maps i modulo 4 to Left, Right, Up and Down.
func DirectionFromIndex(i int) Direction {
	switch ((i % 4) + 4) % 4 {
	case 0:
		return Left
	case 1:
		return Right
	case 2:
		return Up
	default:
		return Down
	}
}

// Turn returns the direction after rotating d by t.
func (d Direction) Turn(t TurnDirection) Direction {
	cw := t == Clockwise
	switch d {
	case Left:
		if cw {
			return Up
		}
		return Down
	case Right:
		if cw {
			return Down
		}
		return Up
	case Up:
		if cw {
			return Right
		}
		return Left
	case Down:
		if cw {
			return Left
		}
		return Right
	}
	return d
}

// Step moves p one cell in direction d. The board wraps around at its edges.
func (d Direction) Step(p Position, size Size) Position {
	switch d {
	case Left:
		p.X--
	case Right:
		p.X++
	case Up:
		p.Y--
	case Down:
		p.Y++
	}
	if size.Width > 0 {
		p.X = ((p.X % size.Width) + size.Width) % size.Width
	}
	if size.Height > 0 {
		p.Y = ((p.Y % size.Height) + size.Height) % size.Height
	}
	return p
}

// Position is encoded as a [x, y] pair.
type Position struct {
	X, Y int
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Size is encoded as a [width, height] pair.
type Size struct {
	Width, Height int
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Width, s.Height})
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	s.Width, s.Height = pair[0], pair[1]
	return nil
}

type PieceKind string

const (
	PieceEmpty     PieceKind = "Empty"
	PieceApple     PieceKind = "Apple"
	PieceSnake     PieceKind = "Snake"
	PieceSnakeHead PieceKind = "SnakeHead"
)

// MapPiece is one cell of the map. Snake pieces carry the id of the owning player.
//
// Empty and Apple are encoded as bare strings, snake pieces as {"Snake": id} or {"SnakeHead": id}.
type MapPiece struct {
	Kind  PieceKind
	Owner int
}

// Blocked reports whether moving onto the piece kills the snake.
func (m MapPiece) Blocked() bool {
	return m.Kind == PieceSnake || m.Kind == PieceSnakeHead
}

func (m MapPiece) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case PieceEmpty, PieceApple:
		return json.Marshal(m.Kind)
	case PieceSnake, PieceSnakeHead:
		return json.Marshal(map[PieceKind]int{m.Kind: m.Owner})
	default:
		return nil, fmt.Errorf("invalid map piece %q", m.Kind)
	}
}

func (m *MapPiece) UnmarshalJSON(data []byte) error {
	var kind PieceKind
	if err := json.Unmarshal(data, &kind); err == nil {
		if kind != PieceEmpty && kind != PieceApple {
			return fmt.Errorf("invalid map piece %q", kind)
		}
		*m = MapPiece{Kind: kind}
		return nil
	}

	var snake map[PieceKind]int
	if err := json.Unmarshal(data, &snake); err != nil {
		return fmt.Errorf("invalid map piece: %w", err)
	}
	if len(snake) != 1 {
		return fmt.Errorf("invalid map piece: expected one key, got %d", len(snake))
	}
	for kind, owner := range snake {
		if kind != PieceSnake && kind != PieceSnakeHead {
			return fmt.Errorf("invalid map piece %q", kind)
		}
		*m = MapPiece{Kind: kind, Owner: owner}
	}
	return nil
}
