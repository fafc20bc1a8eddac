package client

import (
	"time"

	"airhockey/internal/config"
	"airhockey/internal/hockey"
)

// Practice runs a whole match locally: the computer plays the top half and
// the local controller the bottom one.
type Practice struct {
	table        *hockey.Table
	ai           hockey.Controller
	top          hockey.Body
	down         hockey.Body
	ball         hockey.Body
	scores       [2]int // indexed by hockey.Side
	phase        Phase
	won          bool
	goalAt       time.Time
	goalDelay    time.Duration
	winningScore int
	placements   int
}

func NewPractice(table *hockey.Table, rules config.Game, ai hockey.Controller) *Practice {
	p := &Practice{
		table:        table,
		ai:           ai,
		goalDelay:    rules.GoalDelay(),
		winningScore: rules.WinningScore,
	}
	p.Restart()
	return p
}

// Restart clears the scores and puts everything back on its start spot.
func (p *Practice) Restart() {
	p.scores = [2]int{}
	p.won = false
	p.reset()
}

// Update advances the table by one frame at time now, moving the local
// player with self.
func (p *Practice) Update(now time.Time, self hockey.Controller) View {
	switch p.phase {
	case Over:
		return p.View()
	case GoalPause:
		if now.Sub(p.goalAt) >= p.goalDelay {
			p.reset()
		}
		return p.View()
	}

	elapsed := p.table.TickMillis
	hockey.Drive(&p.top, p.ai, hockey.View{Table: p.table, Side: hockey.Top, Ball: p.ball}, elapsed)
	hockey.Drive(&p.down, self, hockey.View{Table: p.table, Side: hockey.Down, Ball: p.ball}, elapsed)

	scorer, goal := p.table.Step(&p.ball, p.top, p.down)
	if !goal {
		return p.View()
	}

	p.scores[scorer]++
	if p.scores[scorer] >= p.winningScore {
		p.phase = Over
		p.won = scorer == hockey.Down
	} else {
		p.phase = GoalPause
		p.goalAt = now
	}
	return p.View()
}

func (p *Practice) View() View {
	return View{
		Phase:      p.phase,
		Self:       p.down.Pos,
		Opponent:   p.top.Pos,
		Ball:       p.ball.Pos,
		Scores:     [2]int{p.scores[hockey.Down], p.scores[hockey.Top]},
		Won:        p.won,
		Placements: p.placements,
	}
}

func (p *Practice) reset() {
	p.top = p.table.NewPlayer(hockey.Top)
	p.down = p.table.NewPlayer(hockey.Down)
	p.ball = p.table.NewBall()
	p.phase = Playing
	p.placements++
}
