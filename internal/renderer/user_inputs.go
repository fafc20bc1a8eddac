package renderer

type UiAction rune

const (
	Unknown UiAction = iota
	Quit    UiAction = 81 // 'Q'
	Left    UiAction = 65 // 'A'
	Up      UiAction = 87 // 'W'
	Right   UiAction = 68 // 'D'
	Down    UiAction = 83 // 'S'
	Confirm UiAction = 13 // enter
)

const ctrlC = 3

// ProcessInput turns one read from a raw terminal into actions. Arrow keys
// arrive as ESC [ A..D.
func ProcessInput(buf []byte) []UiAction {
	var actions []UiAction
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == 27 && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				actions = append(actions, Up)
			case 'B':
				actions = append(actions, Down)
			case 'C':
				actions = append(actions, Right)
			case 'D':
				actions = append(actions, Left)
			default:
				actions = append(actions, Unknown)
			}
			i += 2
			continue
		}

		inputVal := int(b)
		// Convert to UpperCase
		if inputVal >= 97 && inputVal <= 122 {
			inputVal = inputVal - 32
		}
		switch UiAction(inputVal) {
		case Quit, Left, Up, Right, Down:
			actions = append(actions, UiAction(inputVal))
		case Confirm, '\n', ' ':
			actions = append(actions, Confirm)
		case ctrlC:
			actions = append(actions, Quit)
		default:
			actions = append(actions, Unknown)
		}
	}
	return actions
}

// Direction is the cursor nudge an action asks for.
func (a UiAction) Direction() (dx, dy int) {
	switch a {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	}
	return 0, 0
}
