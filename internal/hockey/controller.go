package hockey

import "golang.org/x/exp/rand"

// View is what a controller gets to see on every frame. Positions are in table
// coordinates; Side is the half the controlled player defends.
type View struct {
	Table *Table
	Side  Side
	Self  Body
	Ball  Body
}

// Controller decides where a player wants to go and how fast it may get there
// (in px per millisecond).
type Controller interface {
	Target(v View) (Vector, float64)
}

// Drive moves the player in v one frame of elapsed milliseconds using c.
func Drive(self *Body, c Controller, v View, elapsed float64) {
	v.Self = *self
	target, speed := c.Target(v)
	self.MoveTo(target, speed, elapsed)
}

// Pointer follows an already-sampled pointer position while it is pressed.
type Pointer struct {
	Pos     Vector
	Pressed bool
}

func (p *Pointer) Sample(pos Vector, pressed bool) {
	p.Pos = pos
	p.Pressed = pressed
}

func (p *Pointer) Target(v View) (Vector, float64) {
	if !p.Pressed {
		return v.Self.Pos, 0
	}
	return v.Table.Half(v.Side).ClampCircle(p.Pos, v.Self.Radius), v.Table.MaxPlayerSpeed
}

// Heuristic chases the ball while it is in its half and otherwise tracks it
// sideways from the middle of its half. Difficulty runs from 1 to 4.
type Heuristic struct {
	Difficulty int
	Jitter     float64

	rng *rand.Rand
}

func NewHeuristic(difficulty int, jitter float64, seed uint64) *Heuristic {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 4 {
		difficulty = 4
	}
	return &Heuristic{
		Difficulty: difficulty,
		Jitter:     jitter,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (h *Heuristic) Target(v View) (Vector, float64) {
	half := v.Table.Half(v.Side)
	self, ball := v.Self.Pos, v.Ball.Pos
	level := float64(h.Difficulty)

	var target Vector
	var speed float64
	if half.Contains(ball) {
		speed = level * v.Table.MaxPlayerSpeed / 4
		if h.touching(v) {
			// Back off through the ball's mirror image to get room for the next hit.
			target = self.Scale(2).Sub(ball)
		} else {
			target = ball.Add(h.wobble())
		}
	} else {
		speed = level * v.Table.MaxPlayerSpeed / 8
		target = V(ball.X+h.wobble().X, half.Center().Y)
	}

	return half.ClampCircle(target, v.Self.Radius), speed
}

func (h *Heuristic) touching(v View) bool {
	reach := v.Self.Radius + v.Ball.Radius - 2*float64(h.Difficulty)
	return v.Ball.Pos.Sub(v.Self.Pos).Length() < reach
}

func (h *Heuristic) wobble() Vector {
	if h.Jitter <= 0 {
		return Vector{}
	}
	return V((h.rng.Float64()*2-1)*h.Jitter, (h.rng.Float64()*2-1)*h.Jitter)
}
