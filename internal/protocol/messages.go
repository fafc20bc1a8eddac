package protocol

import (
	"encoding/json"
	"fmt"

	apperrors "airhockey/pkg/errors"
)

type Header string

const (
	// Client to server.
	HeaderJoinGame   Header = "JOIN_GAME"
	HeaderPlayerMove Header = "PLAYER_MOVE"

	// Server to client.
	HeaderPlayerPos  Header = "PLAYER_POS"
	HeaderGameUpdate Header = "GAME_UPDATE"
	HeaderGoal       Header = "GOAL"
	HeaderGameOver   Header = "GAME_OVER"
)

// Body is the typed payload of one header.
type Body interface {
	Header() Header
}

// Point is an (x, y) pair, sent on the wire as [x, y].
type Point [2]float64

func Pt(x, y float64) Point { return Point{x, y} }

func (p Point) X() float64 { return p[0] }
func (p Point) Y() float64 { return p[1] }

func (p *Point) UnmarshalJSON(b []byte) error {
	var xs []float64
	if err := json.Unmarshal(b, &xs); err != nil {
		return err
	}
	if len(xs) != 2 {
		return fmt.Errorf("point needs 2 coordinates, got %d", len(xs))
	}
	p[0], p[1] = xs[0], xs[1]
	return nil
}

type JoinGame struct{}

type PlayerMove struct {
	Rect     Point `json:"rect"`
	Velocity Point `json:"velocity"`
}

// PlayerPos places the receiving player, in its own coordinates.
type PlayerPos struct {
	Rect Point `json:"rect"`
}

// GameUpdate carries the ball and the opponent, in the receiver's coordinates.
type GameUpdate struct {
	Ball     Point `json:"ball"`
	Opponent Point `json:"opponent"`
}

// Goal carries the scores as [receiver, opponent].
type Goal struct {
	Scores [2]int `json:"scores"`
}

type GameOver struct {
	Winner bool `json:"winner"`
}

func (JoinGame) Header() Header   { return HeaderJoinGame }
func (PlayerMove) Header() Header { return HeaderPlayerMove }
func (PlayerPos) Header() Header  { return HeaderPlayerPos }
func (GameUpdate) Header() Header { return HeaderGameUpdate }
func (Goal) Header() Header       { return HeaderGoal }
func (GameOver) Header() Header   { return HeaderGameOver }

type schema struct {
	required []string
	decode   func(json.RawMessage) (Body, error)
}

var schemas = map[Header]schema{
	HeaderJoinGame:   {decode: decodeAs[JoinGame]},
	HeaderPlayerMove: {required: []string{"rect", "velocity"}, decode: decodeAs[PlayerMove]},
	HeaderPlayerPos:  {required: []string{"rect"}, decode: decodeAs[PlayerPos]},
	HeaderGameUpdate: {required: []string{"ball", "opponent"}, decode: decodeAs[GameUpdate]},
	HeaderGoal:       {required: []string{"scores"}, decode: decodeAs[Goal]},
	HeaderGameOver:   {required: []string{"winner"}, decode: decodeAs[GameOver]},
}

func decodeAs[T Body](raw json.RawMessage) (Body, error) {
	var b T
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// Parse turns a decoded message into its typed body. The returned value is
// one of the body structs of this package (not a pointer).
func Parse(m Message) (Body, error) {
	s, ok := schemas[m.Header]
	if !ok {
		return nil, apperrors.ErrUnknownHeader.WithDetails("%q", m.Header)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(m.Body, &fields); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
	}
	for _, f := range s.required {
		v, ok := fields[f]
		if !ok || string(v) == "null" {
			return nil, apperrors.ErrMissingField.WithDetails("%s.%s", m.Header, f)
		}
	}

	b, err := s.decode(m.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
	}
	return b, nil
}
