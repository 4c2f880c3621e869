// Package session runs local games in a terminal loop: ask the side to move
// for a position, apply it, evaluate, render, and offer a replay.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/board"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/movesource"
	"github.com/rocketscienceinc/tictactoe/internal/render"
)

// Prompter asks the replay question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

type Session struct {
	logger   *slog.Logger
	game     *entity.Game
	sources  map[board.Mark]movesource.MoveSource
	renderer render.Renderer
	prompter Prompter
	score    entity.Scoreboard
}

func New(logger *slog.Logger, game *entity.Game, x, o movesource.MoveSource, renderer render.Renderer, prompter Prompter) *Session {
	return &Session{
		logger: logger.With("component", "session", "game", game.ID),
		game:   game,
		sources: map[board.Mark]movesource.MoveSource{
			board.X: x,
			board.O: o,
		},
		renderer: renderer,
		prompter: prompter,
	}
}

// Score returns the tally of finished rounds.
func (that *Session) Score() entity.Scoreboard {
	return that.score
}

// Play runs rounds until a player quits, declines a replay or ctx is done.
// Quitting is not an error.
func (that *Session) Play(ctx context.Context) error {
	for {
		result, err := that.PlayRound(ctx)
		if isExit(err) {
			that.renderer.Message("\nGame exited.")
			return nil
		}
		if err != nil {
			return err
		}

		that.score.Record(result)
		that.renderer.Score(that.score)

		again, err := that.prompter.Confirm(ctx, "\nPlay again?")
		if isExit(err) || (err == nil && !again) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read replay answer: %w", err)
		}

		that.game.Reset()
		that.logger.Debug("new round")
	}
}

// PlayRound plays the current game until it reaches a terminal result.
func (that *Session) PlayRound(ctx context.Context) (board.Result, error) {
	log := that.logger.With("method", "PlayRound")

	for that.game.IsOngoing() {
		that.renderer.Board(that.game.Board)

		mark := that.game.Turn
		source, ok := that.sources[mark]
		if !ok || source == nil {
			return board.Result{}, fmt.Errorf("%w: %s", apperror.ErrNoActiveSource, mark)
		}

		position, err := source.NextMove(ctx, that.game.Board, mark)
		if err != nil {
			return board.Result{}, err
		}

		if err = that.game.MakeTurn(mark, position); err != nil {
			if message, recoverable := describe(err); recoverable {
				that.renderer.Message("\nInvalid move: %s\n", message)
				continue
			}
			return board.Result{}, fmt.Errorf("failed to make turn: %w", err)
		}

		log.Debug("move accepted", "mark", mark.String(), "position", position)
	}

	that.renderer.Board(that.game.Board)
	that.renderer.Result(that.game.Result)
	log.Debug("round finished", "result", that.game.Result.String())

	return that.game.Result, nil
}

// isExit reports whether err means the player left: an explicit quit, end of
// input or an interrupted context.
func isExit(err error) bool {
	return errors.Is(err, movesource.ErrQuit) || errors.Is(err, context.Canceled)
}

// describe turns a rejected move into a message for the player.
func describe(err error) (string, bool) {
	switch {
	case errors.Is(err, board.ErrOutOfRange):
		return "position must be between 1-9", true
	case errors.Is(err, board.ErrOccupiedCell):
		return "position already taken", true
	default:
		return "", false
	}
}
