package render

import (
	"io"
	"strconv"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe/internal/board"
)

const (
	colorX = "#E88388"
	colorO = "#66C2CD"
)

// NewColor renders X and O in two colors and position hints faint. The color
// profile follows w, so pipes and dumb terminals get plain text.
func NewColor(w io.Writer) Renderer {
	return newColor(termenv.NewOutput(w))
}

func newColor(output *termenv.Output) Renderer {
	cell := func(mark board.Mark, position int) string {
		switch mark {
		case board.X:
			return output.String(mark.String()).Foreground(output.Color(colorX)).Bold().String()
		case board.O:
			return output.String(mark.String()).Foreground(output.Color(colorO)).Bold().String()
		default:
			return output.String(strconv.Itoa(position)).Faint().String()
		}
	}

	return &textRenderer{w: output, cell: cell}
}
