package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/board"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	mockedUseCase "github.com/rocketscienceinc/tictactoe/mocks/usecase"
)

var errRedisDown = errors.New("redis down")

const e = board.Empty

// firstFree always plays the lowest open position.
type firstFree struct{}

func (firstFree) NextMove(_ context.Context, b board.Board, _ board.Mark) (int, error) {
	return b.Available()[0], nil
}

func newManager(repo gameRepo, botMark board.Mark) *GameManager {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	manager := NewGameManager(logger, repo, firstFree{})
	manager.newID = func() string { return "game-1" }
	manager.botMark = func() board.Mark { return botMark }

	return manager
}

func TestGameManager_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a pvp game", func(t *testing.T) {
		// Given: a repository that accepts the new game
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: creating a game
		game, err := manager.CreateGame(ctx, entity.ModePvP)

		// Then: a fresh game with X to move is returned
		require.NoError(t, err)
		assert.Equal(t, entity.NewGame("game-1", entity.ModePvP), game)
	})

	t.Run("Bot holding X opens the game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.X)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		game, err := manager.CreateGame(ctx, entity.ModeBot)

		require.NoError(t, err)
		assert.Equal(t, board.X, game.BotMark)
		assert.Equal(t, board.Board{board.X, e, e, e, e, e, e, e, e}, game.Board)
		assert.Equal(t, board.O, game.Turn)
	})

	t.Run("Bot holding O waits", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		game, err := manager.CreateGame(ctx, entity.ModeBot)

		require.NoError(t, err)
		assert.Equal(t, board.New(), game.Board)
		assert.Equal(t, board.X, game.Turn)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		game, err := manager.CreateGame(ctx, "tournament")

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
		assert.Nil(t, game)
	})

	t.Run("Returns error if storage fails", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(errRedisDown).
			Once()

		game, err := manager.CreateGame(ctx, entity.ModePvP)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies the move and stores the game", func(t *testing.T) {
		// Given: a stored pvp game
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		mockGameRepo.EXPECT().
			GetByID(mock.Anything, "game-1").
			Return(entity.NewGame("game-1", entity.ModePvP), nil).
			Once()
		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
				return game.Board.Cell(5) == board.X && game.Turn == board.O
			})).
			Return(nil).
			Once()

		// When: X plays the center
		game, err := manager.MakeTurn(ctx, "game-1", board.X, 5)

		// Then: the stored game reflects it
		require.NoError(t, err)
		assert.Equal(t, []int{5}, game.Moves)
	})

	t.Run("Bot replies in bot games", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		stored := entity.NewGame("game-1", entity.ModeBot)
		stored.BotMark = board.O

		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
		mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(nil).Once()

		game, err := manager.MakeTurn(ctx, "game-1", board.X, 5)

		require.NoError(t, err)
		assert.Equal(t, board.Board{board.O, e, e, e, board.X, e, e, e, e}, game.Board)
		assert.Equal(t, board.X, game.Turn)
	})

	t.Run("Bot does not move after a winning turn", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		stored := entity.NewGame("game-1", entity.ModeBot)
		stored.BotMark = board.O
		stored.Board = board.Board{board.X, board.X, e, board.O, board.O, e, e, e, e}

		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
		mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(nil).Once()

		game, err := manager.MakeTurn(ctx, "game-1", board.X, 3)

		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, board.Result{Status: board.Win, Winner: board.X}, game.Result)
		assert.Equal(t, 5, game.Board.Filled())
	})

	t.Run("Rejects moves for the bot seat", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		stored := entity.NewGame("game-1", entity.ModeBot)
		stored.BotMark = board.X

		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()

		_, err := manager.MakeTurn(ctx, "game-1", board.X, 1)

		require.ErrorIs(t, err, apperror.ErrBotSeat)
	})

	t.Run("Occupied cell is not stored", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		stored := entity.NewGame("game-1", entity.ModePvP)
		require.NoError(t, stored.MakeTurn(board.X, 1))

		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()

		game, err := manager.MakeTurn(ctx, "game-1", board.O, 1)

		require.ErrorIs(t, err, board.ErrOccupiedCell)
		assert.Nil(t, game)
	})

	t.Run("Unknown game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(mockGameRepo, board.O)

		mockGameRepo.EXPECT().
			GetByID(mock.Anything, "nope").
			Return((*entity.Game)(nil), apperror.ErrGameNotFound).
			Once()

		_, err := manager.MakeTurn(ctx, "nope", board.X, 1)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_ResetGame(t *testing.T) {
	ctx := context.Background()

	// Given: a finished bot game where the bot holds X
	mockGameRepo := mockedUseCase.NewMockgameRepo(t)
	manager := newManager(mockGameRepo, board.X)

	stored := entity.NewGame("game-1", entity.ModeBot)
	stored.BotMark = board.X
	stored.Status = entity.StatusFinished
	stored.Result = board.Result{Status: board.Tie}

	mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
	mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(nil).Once()

	// When: resetting
	game, err := manager.ResetGame(ctx, "game-1")

	// Then: a new round started and the bot already opened
	require.NoError(t, err)
	assert.True(t, game.IsOngoing())
	assert.Equal(t, board.Board{board.X, e, e, e, e, e, e, e, e}, game.Board)
	assert.Equal(t, board.O, game.Turn)
}

func TestGameManager_DeleteGame(t *testing.T) {
	ctx := context.Background()

	mockGameRepo := mockedUseCase.NewMockgameRepo(t)
	manager := newManager(mockGameRepo, board.O)

	mockGameRepo.EXPECT().DeleteByID(mock.Anything, "game-1").Return(nil).Once()
	mockGameRepo.EXPECT().DeleteByID(mock.Anything, "game-2").Return(apperror.ErrGameNotFound).Once()

	require.NoError(t, manager.DeleteGame(ctx, "game-1"))
	require.ErrorIs(t, manager.DeleteGame(ctx, "game-2"), apperror.ErrGameNotFound)
}

func TestGameManager_DeleteGame_WaitsForTurn(t *testing.T) {
	ctx := context.Background()

	// Given: a stored game whose lock is held by a turn in progress
	manager := newManager(repository.NewMemoryGameRepository(), board.O)
	game, err := manager.CreateGame(ctx, entity.ModePvP)
	require.NoError(t, err)

	unlock := manager.lock(game.ID)

	// When: the game is deleted meanwhile
	deleted := make(chan error, 1)
	go func() {
		deleted <- manager.DeleteGame(ctx, game.ID)
	}()

	// Then: the delete waits for the turn to release the lock
	select {
	case err = <-deleted:
		t.Fatalf("delete finished while the lock was held: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	require.NoError(t, <-deleted)

	// And: no lock is left behind, and later turns see the game gone
	_, ok := manager.locks.Load(game.ID)
	assert.False(t, ok)

	_, err = manager.MakeTurn(ctx, game.ID, board.X, 1)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	require.ErrorIs(t, manager.DeleteGame(ctx, "missing"), apperror.ErrGameNotFound)
	_, ok = manager.locks.Load("missing")
	assert.False(t, ok)
}

func TestGameManager_IndependentSessions(t *testing.T) {
	ctx := context.Background()

	// Given: a manager over the in-memory store with unique ids
	manager := newManager(repository.NewMemoryGameRepository(), board.O)
	var (
		mu  sync.Mutex
		seq int
	)
	manager.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("game-%d", seq)
	}

	// When: many sessions play a full game at the same time
	const sessions = 16
	ids := make(chan string, sessions)
	var wg sync.WaitGroup
	for range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()

			game, err := manager.CreateGame(ctx, entity.ModePvP)
			if !assert.NoError(t, err) {
				return
			}
			for i, position := range []int{1, 4, 2, 5, 3} {
				mark := board.X
				if i%2 == 1 {
					mark = board.O
				}
				_, err = manager.MakeTurn(ctx, game.ID, mark, position)
				assert.NoError(t, err)
			}
			ids <- game.ID
		}()
	}
	wg.Wait()
	close(ids)

	// Then: every session finished with its own X win
	for id := range ids {
		game, err := manager.GetGame(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, board.Result{Status: board.Win, Winner: board.X}, game.Result, id)
		assert.Equal(t, 5, game.Board.Filled(), id)
	}
}
