// Package renderer draws a client.View into a terminal.
package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"airhockey/internal/ansii"
	"airhockey/internal/client"
	"airhockey/internal/hockey"
)

// statusRows are kept free under the table for scores and hints.
const statusRows = 2

const help = "arrows/wasd move · enter play again · q quit"

type Renderer struct {
	table *hockey.Table
	out   io.Writer
}

func New(table *hockey.Table, out io.Writer) *Renderer {
	return &Renderer{table: table, out: out}
}

// Render draws one frame sized to a width x height terminal.
func (r *Renderer) Render(v client.View, width, height int) error {
	var builder strings.Builder
	builder.WriteString(string(ansii.Screen.ClearScreen))

	rows := max(height-statusRows, 3)
	ansii.DrawBox(&builder, ansii.Offset{X: 1, Y: 1}, rows, width, ansii.Colors.White)
	r.drawGoals(&builder, width, rows)

	center := r.Cell(r.table.Center(), width, height)
	ansii.DrawLine(&builder, center.Y, 2, width-1, ansii.Blocks.Dash, ansii.Colors.Blue)

	ansii.DrawPixelStyle(&builder, r.Cell(v.Opponent, width, height), ansii.Blocks.Block, ansii.Colors.Red)
	ansii.DrawPixelStyle(&builder, r.Cell(v.Self, width, height), ansii.Blocks.Block, ansii.Colors.Cyan)
	ansii.DrawPixelStyle(&builder, r.Cell(v.Ball, width, height), ansii.Blocks.Ball, ansii.Styles.Bold)

	score := fmt.Sprintf("You %d : %d Them", v.Scores[0], v.Scores[1])
	ansii.DrawText(&builder, ansii.Offset{X: 1, Y: rows + 1}, score+"  "+Status(v), ansii.Styles.Bold)
	ansii.DrawText(&builder, ansii.Offset{X: 1, Y: rows + 2}, help, ansii.Styles.Plain)

	_, err := io.WriteString(r.out, builder.String())
	return err
}

// Cell maps a point in the local player's view to the terminal cell that
// shows it, inside the border.
func (r *Renderer) Cell(p hockey.Vector, width, height int) ansii.Offset {
	rows := max(height-statusRows, 3)
	b := r.table.Bounds
	fx := (p.X - b.Left) / b.Width
	fy := (p.Y - b.Top) / b.Height

	return ansii.Offset{
		X: 2 + clamp(int(math.Round(fx*float64(width-3))), 0, width-3),
		Y: 2 + clamp(int(math.Round(fy*float64(rows-3))), 0, rows-3),
	}
}

// Status is the one-line description of where the game is at.
func Status(v client.View) string {
	switch v.Phase {
	case client.Menu:
		if v.Err != nil {
			return "disconnected: " + v.Err.Error()
		}
		return "press enter to play"
	case client.Waiting:
		return "waiting for an opponent..."
	case client.GoalPause:
		return "goal!"
	case client.Over:
		if v.Won {
			return "you win!"
		}
		return "you lose."
	}
	return ""
}

func (r *Renderer) drawGoals(builder *strings.Builder, width, rows int) {
	t := r.table
	left := r.Cell(hockey.V(t.GoalEdge(), 0), width, rows+statusRows).X
	right := r.Cell(hockey.V(t.GoalEdge()+t.GoalWidth, 0), width, rows+statusRows).X
	ansii.DrawLine(builder, 1, left, right, " ", ansii.Styles.Plain)
	ansii.DrawLine(builder, rows, left, right, " ", ansii.Styles.Plain)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
