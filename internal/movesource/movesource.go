// Package movesource supplies the next position to play, either from a human
// at a terminal or from a trivial random agent.
package movesource

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/board"
)

const (
	KindHuman  = "human"
	KindRandom = "random"
)

var (
	ErrQuit             = errors.New("player quit")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrUnknownKind      = errors.New("unknown move source")
	ErrNoTerminal       = errors.New("no terminal for a human player")
)

// MoveSource returns a 1-based position for mark to play on b.
type MoveSource interface {
	NextMove(ctx context.Context, b board.Board, mark board.Mark) (int, error)
}

// New builds a move source by its configured kind. Human kinds reuse the given
// terminal source; seed 0 seeds the random source from the clock.
func New(kind string, human *Interactive, seed uint64) (MoveSource, error) {
	switch kind {
	case KindHuman:
		if human == nil {
			return nil, ErrNoTerminal
		}
		return human, nil
	case KindRandom:
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return NewRandom(rand.New(rand.NewPCG(seed, seed>>1))), nil //nolint: gosec // it's ok
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
