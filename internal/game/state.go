package game

import (
	"airhockey/internal/hockey"
	"airhockey/internal/protocol"
)

// Peer is the network side of a seated player.
type Peer interface {
	ID() string
	Send(b protocol.Body) error
}

type State int

const (
	Active State = iota
	GoalPause
	Finished
)

func (s State) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case GoalPause:
		return "GOAL_PAUSE"
	case Finished:
		return "FINISHED"
	}
	return "UNKNOWN"
}

// Seat is one side of the table. Its body is kept in table coordinates.
type Seat struct {
	Peer Peer
	Side hockey.Side
	Body hockey.Body
}

// Snapshot is a read-only copy of a match, in table coordinates.
type Snapshot struct {
	State  State
	Ball   hockey.Body
	Top    hockey.Body
	Down   hockey.Body
	Scores [2]int
	Ticks  uint64
}
