package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/board"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const (
	ModePvP = "pvp"
	ModeBot = "bot"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the state of one session: its board, whose turn it is and the result.
type Game struct {
	ID      string       `json:"id"`
	Board   board.Board  `json:"board"`
	Turn    board.Mark   `json:"turn,omitempty"`
	Result  board.Result `json:"result"`
	Status  string       `json:"status"`
	Mode    string       `json:"mode"`
	BotMark board.Mark   `json:"bot_mark,omitempty"`
	Moves   []int        `json:"moves,omitempty"`
}

func NewGame(id, mode string) *Game {
	return &Game{
		ID:     id,
		Board:  board.New(),
		Turn:   board.X,
		Status: StatusOngoing,
		Mode:   mode,
	}
}

// MakeTurn plays mark at the 1-based position. The game is left untouched on error.
func (that *Game) MakeTurn(mark board.Mark, position int) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != mark {
		return fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, that.Turn)
	}

	next, err := that.Board.Apply(position, mark)
	if err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.Board = next
	that.Moves = append(that.Moves, position)
	that.updateGameState(mark)

	return nil
}

// updateGameState is checked right after every move, before the opponent can play.
func (that *Game) updateGameState(lastMark board.Mark) {
	that.Result = that.Board.Evaluate()

	if that.Result.IsTerminal() {
		that.Status = StatusFinished
		that.Turn = board.Empty
		return
	}

	that.Status = StatusOngoing
	that.Turn = lastMark.Opponent()
}

// Reset starts a new round on the same session.
func (that *Game) Reset() {
	that.Board = board.New()
	that.Turn = board.X
	that.Result = board.Result{}
	that.Status = StatusOngoing
	that.Moves = nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeBot
}

// IsBotTurn reports whether the bot seat is the one to move.
func (that *Game) IsBotTurn() bool {
	return that.IsWithBot() && that.IsOngoing() && that.Turn == that.BotMark
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// ValidMode reports whether mode names a supported game mode.
func ValidMode(mode string) bool {
	return mode == ModePvP || mode == ModeBot
}
