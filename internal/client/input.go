package client

import "airhockey/internal/hockey"

// Cursor turns discrete key presses into a pointer the local player chases.
type Cursor struct {
	table   *hockey.Table
	step    float64
	pointer hockey.Pointer
}

// NewCursor starts at the local player's start spot; every nudge moves it by
// step pixels.
func NewCursor(table *hockey.Table, step float64) *Cursor {
	c := &Cursor{table: table, step: step}
	c.Reset(table.Start(hockey.Down))
	return c
}

func (c *Cursor) Nudge(dx, dy int) {
	pos := c.pointer.Pos.Add(hockey.V(float64(dx), float64(dy)).Scale(c.step))
	pos = c.table.Half(hockey.Down).ClampCircle(pos, c.table.PlayerRadius)
	c.pointer.Sample(pos, true)
}

// Reset parks the cursor on pos and releases it, so the player stays put
// until the next key press.
func (c *Cursor) Reset(pos hockey.Vector) {
	c.pointer.Sample(pos, false)
}

func (c *Cursor) Pos() hockey.Vector {
	return c.pointer.Pos
}

func (c *Cursor) Controller() hockey.Controller {
	return &c.pointer
}

// Steer moves the local player in v one frame toward what ctl wants and
// returns the new position and per-frame velocity.
func Steer(t *hockey.Table, v View, ctl hockey.Controller) (hockey.Vector, hockey.Vector) {
	self := hockey.Body{Pos: v.Self, Radius: t.PlayerRadius}
	ball := hockey.Body{Pos: v.Ball, Radius: t.BallRadius}
	hockey.Drive(&self, ctl, hockey.View{Table: t, Side: hockey.Down, Ball: ball}, t.TickMillis)
	return self.Pos, self.Vel
}
