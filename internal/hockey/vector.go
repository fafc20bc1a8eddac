package hockey

import "math"

type Vector struct {
	X float64
	Y float64
}

func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(k float64) Vector { return Vector{v.X * k, v.Y * k} }
func (v Vector) Neg() Vector { return Vector{-v.X, -v.Y} }
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector of v; the zero vector stays zero.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	return Vector{v.X / l, v.Y / l}
}

// ScaleToLength keeps the direction of v and sets its length to l.
func (v Vector) ScaleToLength(l float64) Vector {
	return v.Normalize().Scale(l)
}

// Rect is an axis-aligned rectangle in table coordinates (y grows downwards).
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

func (r Rect) Center() Vector {
	return Vector{r.Left + r.Width/2, r.Top + r.Height/2}
}

// Contains uses half-open intervals, so a point on the right or bottom edge
// is outside.
func (r Rect) Contains(p Vector) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// ClampCircle moves center so the circle's bounding square stays inside r.
func (r Rect) ClampCircle(center Vector, radius float64) Vector {
	if center.X-radius < r.Left {
		center.X = r.Left + radius
	} else if center.X+radius > r.Right() {
		center.X = r.Right() - radius
	}

	if center.Y-radius < r.Top {
		center.Y = r.Top + radius
	} else if center.Y+radius > r.Bottom() {
		center.Y = r.Bottom() - radius
	}
	return center
}
