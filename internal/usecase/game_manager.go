package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/board"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/movesource"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs many independent sessions. Each stored game owns its own
// board; turns on the same game id are serialized within the process.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	bot      movesource.MoveSource

	newID   func() string
	botMark func() board.Mark

	locks sync.Map
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot movesource.MoveSource) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		bot:      bot,
		newID:    uuid.NewString,
		botMark:  randomMark,
	}
}

func randomMark() board.Mark {
	if rand.IntN(2) == 0 { //nolint: gosec // it's ok
		return board.X
	}
	return board.O
}

func (that *GameManager) lock(id string) func() {
	mu, _ := that.locks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()

	return mu.(*sync.Mutex).Unlock
}

// CreateGame starts a session. In bot mode the bot takes a random seat and
// opens when it holds X.
func (that *GameManager) CreateGame(ctx context.Context, mode string) (*entity.Game, error) {
	if !entity.ValidMode(mode) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}

	game := entity.NewGame(that.newID(), mode)
	if game.IsWithBot() {
		game.BotMark = that.botMark()
	}

	if err := that.botTurn(ctx, game); err != nil {
		return nil, err
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "mode", mode, "botMark", game.BotMark.String())

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn plays mark at position and, in bot games, the bot's reply.
func (that *GameManager) MakeTurn(ctx context.Context, id string, mark board.Mark, position int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", id)

	unlock := that.lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if game.IsWithBot() && mark == game.BotMark {
		return nil, apperror.ErrBotSeat
	}

	if err = game.MakeTurn(mark, position); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.botTurn(ctx, game); err != nil {
		return nil, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	log.Debug("turn made", "mark", mark.String(), "position", position, "status", game.Status)
	if game.IsFinished() {
		log.Info("game finished", "result", game.Result.String())
	}

	return game, nil
}

// ResetGame starts a new round on an existing session.
func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.Reset()

	if err = that.botTurn(ctx, game); err != nil {
		return nil, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// DeleteGame removes the session. Its lock is dropped while held, so a turn
// waiting on it sees the game gone instead of racing on a fresh lock.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	err := that.gameRepo.DeleteByID(ctx, id)
	that.locks.Delete(id)

	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// botTurn lets the bot move when it is the side to play.
func (that *GameManager) botTurn(ctx context.Context, game *entity.Game) error {
	if !game.IsBotTurn() {
		return nil
	}

	position, err := that.bot.NextMove(ctx, game.Board, game.BotMark)
	if err != nil {
		return fmt.Errorf("bot failed to pick a move: %w", err)
	}

	if err = game.MakeTurn(game.BotMark, position); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
