// Package render draws boards and results as text. It holds no game logic.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe/internal/board"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const (
	SkinPlain = "plain"
	SkinColor = "color"
)

var ErrUnknownSkin = errors.New("unknown skin")

type Renderer interface {
	Board(b board.Board)
	Result(result board.Result)
	Score(score entity.Scoreboard)
	Message(format string, args ...any)
}

// New returns the renderer for skin writing to w.
func New(skin string, w io.Writer) (Renderer, error) {
	switch skin {
	case SkinPlain, "":
		return NewPlain(w), nil
	case SkinColor:
		return NewColor(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkin, skin)
	}
}

// cellFunc styles the text of one cell; empty cells get their position number.
type cellFunc func(mark board.Mark, position int) string

type textRenderer struct {
	w    io.Writer
	cell cellFunc
}

func (that *textRenderer) Board(b board.Board) {
	var sb strings.Builder

	sb.WriteString("\n" + strings.Repeat("=", 13) + "\n")
	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			position := row*3 + col + 1
			cells = append(cells, " "+that.cell(b.Cell(position), position)+" ")
		}
		sb.WriteString("|" + strings.Join(cells, "|") + "|\n")
		if row < 2 {
			sb.WriteString("|---+---+---|\n")
		}
	}
	sb.WriteString(strings.Repeat("=", 13) + "\n\n")

	fmt.Fprint(that.w, sb.String())
}

func (that *textRenderer) Result(result board.Result) {
	switch result.Status {
	case board.Win:
		fmt.Fprintf(that.w, "Player %s wins!\n", that.cell(result.Winner, 0))
	case board.Tie:
		fmt.Fprintln(that.w, "Game ended in a tie!")
	case board.Ongoing:
	}
}

func (that *textRenderer) Score(score entity.Scoreboard) {
	fmt.Fprintf(that.w, "Score after %d round(s): %s %d, %s %d, ties %d\n",
		score.Rounds(), that.cell(board.X, 0), score.X, that.cell(board.O, 0), score.O, score.Ties)
}

func (that *textRenderer) Message(format string, args ...any) {
	fmt.Fprintf(that.w, format+"\n", args...)
}

// NewPlain renders marks as bare letters.
func NewPlain(w io.Writer) Renderer {
	return &textRenderer{w: w, cell: plainCell}
}

func plainCell(mark board.Mark, position int) string {
	if mark == board.Empty {
		return strconv.Itoa(position)
	}
	return mark.String()
}
