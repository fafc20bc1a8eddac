package hockey_test

import (
	"testing"

	"airhockey/internal/config"
	"airhockey/internal/hockey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, tweak func(c *config.Table)) *hockey.Table {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(&cfg.Table)
	}
	return hockey.NewTable(cfg.Table, cfg.Game.TickMillis())
}

func TestVector(t *testing.T) {
	assert.Equal(t, hockey.Vector{}, hockey.Vector{}.Normalize())
	assert.Equal(t, hockey.Vector{}, hockey.Vector{}.ScaleToLength(5))
	assert.InDelta(t, 5.0, hockey.V(3, 4).Length(), 1e-9)
	assert.InDelta(t, 1.0, hockey.V(3, 4).Normalize().Length(), 1e-9)
	assert.Equal(t, 11.0, hockey.V(1, 2).Dot(hockey.V(3, 4)))
	assert.Equal(t, hockey.V(6, 8), hockey.ClampSpeed(hockey.V(30, 40), 10))
	assert.Equal(t, hockey.V(3, 4), hockey.ClampSpeed(hockey.V(3, 4), 10))
}

func TestGeometry(t *testing.T) {
	table := newTable(t, nil)

	assert.Equal(t, hockey.V(180, 325), table.Center())
	assert.Equal(t, hockey.V(180, 450), table.Start(hockey.Down))
	assert.Equal(t, hockey.V(180, 200), table.Start(hockey.Top))
	assert.Equal(t, 120.0, table.GoalEdge())
	assert.Equal(t, hockey.Rect{Left: 0, Top: 50, Width: 360, Height: 275}, table.Half(hockey.Top))
	assert.Equal(t, hockey.Rect{Left: 0, Top: 325, Width: 360, Height: 275}, table.Half(hockey.Down))
}

func TestResolveIsAnInvolution(t *testing.T) {
	table := newTable(t, nil)
	points := []hockey.Vector{
		hockey.V(0, 0), hockey.V(180, 325), hockey.V(0.1, 599.9), hockey.V(-40, 1000), hockey.V(33.3, 77.7),
	}

	for _, p := range points {
		assert.Equal(t, p, table.Resolve(hockey.Down, p))

		twice := table.Resolve(hockey.Top, table.Resolve(hockey.Top, p))
		assert.InDelta(t, p.X, twice.X, 1e-9)
		assert.InDelta(t, p.Y, twice.Y, 1e-9)
	}

	assert.Equal(t, hockey.V(360, 650), table.Resolve(hockey.Top, hockey.V(0, 0)))
	assert.Equal(t, hockey.V(-2, 3), table.ResolveVelocity(hockey.Top, hockey.V(2, -3)))
	assert.Equal(t, hockey.V(2, -3), table.ResolveVelocity(hockey.Down, hockey.V(2, -3)))
}

func TestCollideHeadOn(t *testing.T) {
	table := newTable(t, nil)
	ball := hockey.Body{Pos: hockey.V(100, 300), Vel: hockey.V(5, 0), Radius: 20}
	player := hockey.Body{Pos: hockey.V(140, 300), Vel: hockey.V(-5, 0), Radius: 26}

	require.True(t, table.Collide(&ball, player))

	assert.Less(t, ball.Vel.X, 0.0)
	assert.InDelta(t, -15.0, ball.Vel.X, 1e-9)
	assert.InDelta(t, 0.0, ball.Vel.Y, 1e-9)
	assert.InDelta(t, 92.0, ball.Pos.X, 1e-9)
}

func TestCollideStationaryPlayerRestitution(t *testing.T) {
	for _, e := range []float64{0.6, 0.8, 1.0} {
		table := newTable(t, func(c *config.Table) { c.CollisionRestitution = e })
		ball := hockey.Body{Pos: hockey.V(180, 300), Vel: hockey.V(0, 10), Radius: 20}
		player := hockey.Body{Pos: hockey.V(180, 340), Radius: 26}

		require.True(t, table.Collide(&ball, player))

		assert.InDelta(t, -10*e, ball.Vel.Y, 1e-9, "restitution %v", e)
		assert.InDelta(t, 10*e, ball.Vel.Length(), 1e-9, "restitution %v", e)
	}
}

func TestCollideNoSticking(t *testing.T) {
	tests := []struct {
		name    string
		epsilon float64
		ball    hockey.Body
		player  hockey.Body
	}{
		{
			name:    "diagonal overlap",
			ball:    hockey.Body{Pos: hockey.V(100, 100), Vel: hockey.V(3, 3), Radius: 20},
			player:  hockey.Body{Pos: hockey.V(120, 120), Vel: hockey.V(-1, 0), Radius: 26},
			epsilon: 2,
		},
		{
			name:    "just touching",
			ball:    hockey.Body{Pos: hockey.V(100, 100), Radius: 20},
			player:  hockey.Body{Pos: hockey.V(146, 100), Radius: 26},
			epsilon: 2,
		},
		{
			name:    "concentric moving ball",
			ball:    hockey.Body{Pos: hockey.V(100, 100), Vel: hockey.V(0, -4), Radius: 20},
			player:  hockey.Body{Pos: hockey.V(100, 100), Radius: 26},
			epsilon: 2,
		},
		{
			name:    "concentric resting ball",
			ball:    hockey.Body{Pos: hockey.V(100, 100), Radius: 20},
			player:  hockey.Body{Pos: hockey.V(100, 100), Radius: 26},
			epsilon: 2,
		},
		{
			name:    "zero epsilon",
			ball:    hockey.Body{Pos: hockey.V(100, 100), Vel: hockey.V(2, 0), Radius: 20},
			player:  hockey.Body{Pos: hockey.V(130, 100), Radius: 26},
			epsilon: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTable(t, func(c *config.Table) { c.SeparationEpsilon = tt.epsilon })
			ball := tt.ball

			require.True(t, table.Collide(&ball, tt.player))

			dist := tt.player.Pos.Sub(ball.Pos).Length()
			assert.Greater(t, dist, ball.Radius+tt.player.Radius)
		})
	}
}

func TestCollideMiss(t *testing.T) {
	table := newTable(t, nil)
	ball := hockey.Body{Pos: hockey.V(100, 100), Vel: hockey.V(1, 1), Radius: 20}
	before := ball

	assert.False(t, table.Collide(&ball, hockey.Body{Pos: hockey.V(147, 100), Radius: 26}))
	assert.Equal(t, before, ball)
}

func TestIsGoalMouthEdges(t *testing.T) {
	table := newTable(t, nil)
	top, bottom := table.Bounds.Top, table.Bounds.Bottom()

	tests := []struct {
		name string
		pos  hockey.Vector
		want bool
	}{
		{name: "left edge on left post", pos: hockey.V(140, top), want: false},
		{name: "one pixel inside left post", pos: hockey.V(141, top), want: true},
		{name: "right edge on right post", pos: hockey.V(220, top), want: false},
		{name: "one pixel inside right post", pos: hockey.V(219, top), want: true},
		{name: "bottom goal center", pos: hockey.V(180, bottom), want: true},
		{name: "bottom left post", pos: hockey.V(140, bottom), want: false},
		{name: "outside the mouth", pos: hockey.V(60, top), want: false},
		{name: "inside the table", pos: hockey.V(180, 325), want: false},
		{name: "resting against the top wall", pos: hockey.V(180, top+20), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.IsGoal(tt.pos))
		})
	}
}

func TestAdvanceWallBounce(t *testing.T) {
	table := newTable(t, nil)

	side := hockey.Body{Pos: hockey.V(25, 300), Vel: hockey.V(-10, 0), Radius: 20}
	assert.False(t, table.Advance(&side))
	assert.Equal(t, hockey.V(5, 0), side.Vel)
	assert.Equal(t, hockey.V(30, 300), side.Pos)

	end := hockey.Body{Pos: hockey.V(50, 75), Vel: hockey.V(0, -10), Radius: 20}
	assert.False(t, table.Advance(&end))
	assert.Equal(t, hockey.V(0, 5), end.Vel)
	assert.Equal(t, hockey.V(50, 80), end.Pos)
}

func TestStepScoring(t *testing.T) {
	table := newTable(t, nil)

	ball := hockey.Body{Pos: hockey.V(180, 75), Vel: hockey.V(0, -10), Radius: 20}
	scorer, goal := table.Step(&ball)
	require.True(t, goal)
	assert.Equal(t, hockey.Down, scorer)

	ball = hockey.Body{Pos: hockey.V(180, 575), Vel: hockey.V(0, 10), Radius: 20}
	scorer, goal = table.Step(&ball)
	require.True(t, goal)
	assert.Equal(t, hockey.Top, scorer)
}

func TestStepClampsSpeed(t *testing.T) {
	table := newTable(t, nil)
	ball := table.NewBall()
	ball.Vel = hockey.V(100, 0)

	_, goal := table.Step(&ball)

	require.False(t, goal)
	assert.InDelta(t, table.MaxBallSpeed, ball.Vel.Length(), 1e-9)
	assert.InDelta(t, 180+table.MaxBallSpeed, ball.Pos.X, 1e-9)
}

func TestStepRestingBallStaysPut(t *testing.T) {
	table := newTable(t, nil)
	ball := table.NewBall()
	top, down := table.NewPlayer(hockey.Top), table.NewPlayer(hockey.Down)

	for i := 0; i < 100; i++ {
		_, goal := table.Step(&ball, top, down)
		require.False(t, goal)
	}

	assert.Equal(t, table.Center(), ball.Pos)
	assert.True(t, ball.Vel.IsZero())
}
