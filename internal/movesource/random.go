package movesource

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/tictactoe/internal/board"
)

// Random picks uniformly among the open cells. It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandom(rnd *rand.Rand) *Random {
	return &Random{rnd: rnd}
}

func (that *Random) NextMove(ctx context.Context, b board.Board, _ board.Mark) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	available := b.Available()
	if len(available) == 0 {
		return 0, ErrNoAvailableMoves
	}

	that.mu.Lock()
	idx := that.rnd.IntN(len(available))
	that.mu.Unlock()

	return available[idx], nil
}
