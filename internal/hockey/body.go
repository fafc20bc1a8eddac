package hockey

// Side names one half of the table. Every client sees itself as Down.
type Side int

const (
	Top Side = iota
	Down
)

func (s Side) String() string {
	if s == Top {
		return "TOP"
	}
	return "DOWN"
}

func (s Side) Opponent() Side {
	if s == Top {
		return Down
	}
	return Top
}

// Body is a circle on the table: a player mallet or the ball.
// Vel is a displacement per tick.
type Body struct {
	Pos    Vector
	Vel    Vector
	Radius float64
}

// Touches reports whether the two circles overlap or touch.
func (b Body) Touches(o Body) bool {
	return o.Pos.Sub(b.Pos).Length() <= b.Radius+o.Radius
}

// MoveTo steps b toward target, covering at most maxSpeed*elapsed, and
// records the displacement as its velocity.
func (b *Body) MoveTo(target Vector, maxSpeed, elapsed float64) {
	v := target.Sub(b.Pos)
	if limit := maxSpeed * elapsed; v.Length() > limit {
		v = v.ScaleToLength(limit)
	}
	b.Vel = v
	b.Pos = b.Pos.Add(v)
}

// ClampSpeed rescales v to limit when it is faster.
func ClampSpeed(v Vector, limit float64) Vector {
	if v.Length() > limit {
		return v.ScaleToLength(limit)
	}
	return v
}
