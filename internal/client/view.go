package client

import "airhockey/internal/hockey"

type Phase int

const (
	Menu Phase = iota
	Waiting
	Playing
	GoalPause
	Over
)

func (p Phase) String() string {
	switch p {
	case Menu:
		return "MENU"
	case Waiting:
		return "WAITING"
	case Playing:
		return "PLAYING"
	case GoalPause:
		return "GOAL"
	case Over:
		return "OVER"
	}
	return "UNKNOWN"
}

// View is everything a frame needs to draw, always from the local player's
// point of view (the local player sits at the bottom).
type View struct {
	Phase    Phase
	Self     hockey.Vector
	Opponent hockey.Vector
	Ball     hockey.Vector
	// Scores is [own, opponent].
	Scores [2]int
	Won    bool
	// Placements counts PLAYER_POS messages so callers can tell when their
	// player was put back on its start spot.
	Placements int
	Err        error
}

func startView(t *hockey.Table, phase Phase) View {
	return View{
		Phase:    phase,
		Self:     t.Start(hockey.Down),
		Opponent: t.Start(hockey.Top),
		Ball:     t.Center(),
	}
}
