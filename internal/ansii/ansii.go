package ansii

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ANSI string

const (
	reset       ANSI = "\033[0m"
	plain       ANSI = ""
	bold        ANSI = "\033[1m"
	underline   ANSI = "\033[4m"
	red         ANSI = "\033[31m"
	green       ANSI = "\033[32m"
	yellow      ANSI = "\033[33m"
	blue        ANSI = "\033[34m"
	purple      ANSI = "\033[35m"
	cyan        ANSI = "\033[36m"
	white       ANSI = "\033[37m"
	clearScreen ANSI = "\033[2J"
	hideCursor  ANSI = "\033[?25l"
	showCursor  ANSI = "\033[?25h"
)

// Offset is a terminal cell. Both coordinates start at 1.
type Offset struct {
	X int
	Y int
}

type style struct {
	Reset     ANSI
	Plain     ANSI
	Bold      ANSI
	Underline ANSI
}

type color struct {
	Red    ANSI
	Green  ANSI
	Yellow ANSI
	Blue   ANSI
	Purple ANSI
	Cyan   ANSI
	White  ANSI
}

type screen struct {
	ClearScreen ANSI
	HideCursor  ANSI
	ShowCursor  ANSI
}

type ascii struct {
	Block string
	Ball  string
	Dash  string
}

var (
	Styles = style{Bold: bold, Underline: underline, Reset: reset, Plain: plain}
	Colors = color{Red: red, Green: green, Yellow: yellow, Blue: blue, Purple: purple, Cyan: cyan, White: white}
	Screen = screen{ClearScreen: clearScreen, HideCursor: hideCursor, ShowCursor: showCursor}
	Blocks = ascii{Block: "█", Ball: "●", Dash: "╌"}
)

func GetTermSize() (width int, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// MakeTermRaw switches stdin to raw mode so single key presses arrive
// without waiting for enter.
func MakeTermRaw() (*term.State, error) {
	return term.MakeRaw(int(os.Stdin.Fd()))
}

func RestoreTerm(prev *term.State) error {
	return term.Restore(int(os.Stdin.Fd()), prev)
}

func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (s screen) PlaceCursor(o Offset) ANSI {
	return ANSI(fmt.Sprintf("\033[%d;%dH", o.Y, o.X))
}

// Draws a box of dimensions `height` and `width` at `offset`.
// The `offset` is the top left cell of the box.
func DrawBox(builder *strings.Builder, offset Offset, height int, width int, style ANSI) {
	builder.WriteString(string(style))
	for hIdx := range height {
		if hIdx == 0 || hIdx == height-1 {
			for wIdx := range width {
				drawGlyph(builder, Offset{X: offset.X + wIdx, Y: offset.Y + hIdx}, Blocks.Block)
			}
		} else {
			drawGlyph(builder, Offset{X: offset.X, Y: offset.Y + hIdx}, Blocks.Block)
			drawGlyph(builder, Offset{X: offset.X + width - 1, Y: offset.Y + hIdx}, Blocks.Block)
		}
	}
	builder.WriteString(string(Styles.Reset))
}

// DrawLine draws glyph on row y from column x1 to x2 inclusive.
func DrawLine(builder *strings.Builder, y, x1, x2 int, glyph string, style ANSI) {
	builder.WriteString(string(style))
	for x := x1; x <= x2; x++ {
		drawGlyph(builder, Offset{X: x, Y: y}, glyph)
	}
	builder.WriteString(string(Styles.Reset))
}

func DrawPixelStyle(builder *strings.Builder, offset Offset, glyph string, style ANSI) {
	builder.WriteString(string(style))
	drawGlyph(builder, offset, glyph)
	builder.WriteString(string(Styles.Reset))
}

func DrawText(builder *strings.Builder, offset Offset, text string, style ANSI) {
	builder.WriteString(string(style))
	builder.WriteString(string(Screen.PlaceCursor(offset)))
	builder.WriteString(text)
	builder.WriteString(string(Styles.Reset))
}

func drawGlyph(builder *strings.Builder, offset Offset, glyph string) {
	builder.WriteString(string(Screen.PlaceCursor(offset)) + glyph)
}
