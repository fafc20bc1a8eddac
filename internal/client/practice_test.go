package client

import (
	"testing"
	"time"

	"airhockey/internal/config"
	"airhockey/internal/hockey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPractice(t *testing.T) (*Practice, config.Configuration) {
	t.Helper()
	cfg := config.Default()
	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())
	return NewPractice(table, cfg.Game, hockey.NewHeuristic(1, 0, 1)), cfg
}

func TestPracticeStartsReady(t *testing.T) {
	p, _ := newPractice(t)

	v := p.View()
	assert.Equal(t, Playing, v.Phase)
	assert.Equal(t, hockey.V(180, 450), v.Self)
	assert.Equal(t, hockey.V(180, 200), v.Opponent)
	assert.Equal(t, hockey.V(180, 325), v.Ball)
	assert.Equal(t, 1, v.Placements)
}

func TestPracticeGoalPause(t *testing.T) {
	p, cfg := newPractice(t)
	idle := &hockey.Pointer{}
	now := time.Unix(10, 0)

	p.ball = hockey.Body{Pos: hockey.V(180, 75), Vel: hockey.V(0, -10), Radius: p.ball.Radius}
	v := p.Update(now, idle)

	assert.Equal(t, GoalPause, v.Phase)
	assert.Equal(t, [2]int{1, 0}, v.Scores)

	v = p.Update(now.Add(cfg.Game.GoalDelay()/2), idle)
	assert.Equal(t, GoalPause, v.Phase)

	v = p.Update(now.Add(cfg.Game.GoalDelay()), idle)
	assert.Equal(t, Playing, v.Phase)
	assert.Equal(t, 2, v.Placements)
	assert.Equal(t, hockey.V(180, 325), v.Ball)
	assert.Equal(t, [2]int{1, 0}, v.Scores)
}

func TestPracticeLosing(t *testing.T) {
	p, cfg := newPractice(t)
	idle := &hockey.Pointer{}
	now := time.Unix(10, 0)

	for i := 0; i < cfg.Game.WinningScore; i++ {
		require.NotEqual(t, Over, p.View().Phase)
		p.ball = hockey.Body{Pos: hockey.V(180, 575), Vel: hockey.V(0, 10), Radius: p.ball.Radius}
		p.Update(now, idle)
		now = now.Add(cfg.Game.GoalDelay())
		p.Update(now, idle)
	}

	v := p.View()
	assert.Equal(t, Over, v.Phase)
	assert.False(t, v.Won)
	assert.Equal(t, [2]int{0, cfg.Game.WinningScore}, v.Scores)

	p.Restart()
	assert.Equal(t, Playing, p.View().Phase)
	assert.Equal(t, [2]int{0, 0}, p.View().Scores)
}

func TestPracticeComputerMoves(t *testing.T) {
	p, _ := newPractice(t)
	p.ball = hockey.Body{Pos: hockey.V(100, 150), Radius: p.ball.Radius}

	before := p.View().Opponent
	v := p.Update(time.Unix(0, 0), &hockey.Pointer{})

	assert.Less(t, v.Opponent.X, before.X)
	assert.Less(t, v.Opponent.Y, before.Y)
	assert.Equal(t, hockey.V(180, 450), v.Self)
}

func TestPracticeComputerChasesBallInTableCoordinates(t *testing.T) {
	p, _ := newPractice(t)
	p.ball = hockey.Body{Pos: hockey.V(100, 150), Radius: p.ball.Radius}

	v := p.Update(time.Unix(10, 0), &hockey.Pointer{})

	// The ball sits in the top half, so the computer heads straight for it.
	assert.Less(t, v.Opponent.X, 180.0)
	assert.Less(t, v.Opponent.Y, 200.0)
	assert.Equal(t, hockey.V(100, 150), v.Ball)
}

func TestCursor(t *testing.T) {
	cfg := config.Default()
	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())
	c := NewCursor(table, 10)

	target, speed := c.Controller().Target(hockey.View{Table: table, Side: hockey.Down, Self: table.NewPlayer(hockey.Down)})
	assert.Equal(t, hockey.V(180, 450), target)
	assert.Zero(t, speed)

	c.Nudge(1, -2)
	assert.Equal(t, hockey.V(190, 430), c.Pos())

	for i := 0; i < 50; i++ {
		c.Nudge(0, -1)
	}
	assert.Equal(t, hockey.V(190, 351), c.Pos())

	v := View{Self: hockey.V(180, 450), Ball: table.Center()}
	pos, vel := Steer(table, v, c.Controller())
	assert.Less(t, pos.Y, 450.0)
	assert.InDelta(t, table.MaxPlayerSpeed*table.TickMillis, vel.Length(), 1e-9)

	c.Reset(hockey.V(180, 450))
	pos, vel = Steer(table, v, c.Controller())
	assert.Equal(t, hockey.V(180, 450), pos)
	assert.True(t, vel.IsZero())
}
