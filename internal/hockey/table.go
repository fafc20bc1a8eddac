package hockey

import "airhockey/internal/config"

// minSeparation keeps a collided ball strictly outside the player even when
// the configured epsilon is zero.
const minSeparation = 1e-6

// Table holds the geometry and tuning shared by every simulation step.
// Coordinates are those of the Down player's view.
type Table struct {
	Bounds       Rect
	ScreenHeight float64
	GoalWidth    float64
	PlayerRadius float64
	BallRadius   float64

	// MaxPlayerSpeed is per millisecond, MaxBallSpeed per tick.
	MaxPlayerSpeed float64
	MaxBallSpeed   float64
	TickMillis     float64

	WallRestitution      float64
	CollisionRestitution float64
	SeparationEpsilon    float64
}

func NewTable(c config.Table, tickMillis float64) *Table {
	return &Table{
		Bounds: Rect{
			Left:   0,
			Top:    c.BoardTop,
			Width:  c.ScreenWidth,
			Height: c.ScreenHeight - c.BoardTop,
		},
		ScreenHeight:         c.ScreenHeight,
		GoalWidth:            c.GoalWidth,
		PlayerRadius:         c.PlayerRadius,
		BallRadius:           c.BallRadius,
		MaxPlayerSpeed:       c.MaxPlayerSpeed,
		MaxBallSpeed:         c.MaxBallSpeed * tickMillis,
		TickMillis:           tickMillis,
		WallRestitution:      c.WallRestitution,
		CollisionRestitution: c.CollisionRestitution,
		SeparationEpsilon:    c.SeparationEpsilon,
	}
}

func (t *Table) Center() Vector {
	return t.Bounds.Center()
}

// Resolve converts a point between the table frame and side's own view.
// Top sees the table rotated by 180 degrees around its center, so applying
// Resolve twice gives back the original point.
func (t *Table) Resolve(side Side, p Vector) Vector {
	if side == Down {
		return p
	}
	c := t.Center()
	return Vector{2*c.X - p.X, 2*c.Y - p.Y}
}

// ResolveVelocity is Resolve for displacements.
func (t *Table) ResolveVelocity(side Side, v Vector) Vector {
	if side == Down {
		return v
	}
	return v.Neg()
}

// Start is where side's player is placed at kickoff and after every goal.
func (t *Table) Start(side Side) Vector {
	return t.Resolve(side, Vector{t.Bounds.Center().X, 3 * t.ScreenHeight / 4})
}

// Half is the part of the table side's player may move in.
func (t *Table) Half(side Side) Rect {
	h := Rect{
		Left:   t.Bounds.Left,
		Top:    t.Bounds.Top,
		Width:  t.Bounds.Width,
		Height: t.Bounds.Height / 2,
	}
	if side == Down {
		h.Top += t.Bounds.Height / 2
	}
	return h
}

func (t *Table) NewBall() Body {
	return Body{Pos: t.Center(), Radius: t.BallRadius}
}

func (t *Table) NewPlayer(side Side) Body {
	return Body{Pos: t.Start(side), Radius: t.PlayerRadius}
}

// GoalEdge is the x coordinate where the goal mouth starts.
func (t *Table) GoalEdge() float64 {
	return t.Bounds.Left + (t.Bounds.Width-t.GoalWidth)/2
}

// IsGoal reports whether a ball centered at pos has left the table through a
// goal mouth. The mouth is open at both ends: a ball whose edge sits exactly on
// a goal post is not in.
func (t *Table) IsGoal(pos Vector) bool {
	r := t.BallRadius
	if pos.Y-r >= t.Bounds.Top && pos.Y+r <= t.Bounds.Bottom() {
		return false
	}
	edge := t.GoalEdge()
	return pos.X-r > edge && pos.X+r < edge+t.GoalWidth
}

// Collide resolves a hit between the ball and a player, treating the player
// as infinitely heavy. It reports whether the two touched.
func (t *Table) Collide(ball *Body, player Body) bool {
	d := player.Pos.Sub(ball.Pos)
	dist := d.Length()
	reach := ball.Radius + player.Radius
	if dist > reach {
		return false
	}

	n := d.Normalize()
	if n.IsZero() {
		// Concentric: push the ball back along its own motion.
		n = ball.Vel.Normalize()
		if n.IsZero() {
			n = V(0, 1)
		}
	}

	bvi := ball.Vel.Dot(n)
	pvi := player.Vel.Dot(n)
	bvf := pvi + t.CollisionRestitution*(pvi-bvi)
	ball.Vel = ball.Vel.Add(n.Scale(bvf - bvi))

	eps := t.SeparationEpsilon
	if eps < minSeparation {
		eps = minSeparation
	}
	ball.Pos = ball.Pos.Sub(n.Scale(reach - dist + eps))
	return true
}

// Advance moves the ball one tick. Walls reflect and damp the velocity; a ball
// entering a goal mouth is moved in and reported.
func (t *Table) Advance(ball *Body) bool {
	target := ball.Pos.Add(ball.Vel)
	if t.IsGoal(target) {
		ball.Pos = target
		return true
	}

	r := ball.Radius
	if target.X-r < t.Bounds.Left || target.X+r > t.Bounds.Right() {
		ball.Vel.X *= -t.WallRestitution
	}
	if target.Y-r < t.Bounds.Top || target.Y+r > t.Bounds.Bottom() {
		ball.Vel.Y *= -t.WallRestitution
	}

	ball.Pos = t.Bounds.ClampCircle(ball.Pos.Add(ball.Vel), r)
	return false
}

// Step runs one tick of ball physics against the given players. When a goal
// is scored it returns the side that scored it.
func (t *Table) Step(ball *Body, players ...Body) (Side, bool) {
	for _, p := range players {
		t.Collide(ball, p)
	}

	ball.Vel = ClampSpeed(ball.Vel, t.MaxBallSpeed)

	if !t.Advance(ball) {
		return 0, false
	}
	if ball.Pos.Y < t.Center().Y {
		return Down, true
	}
	return Top, true
}
