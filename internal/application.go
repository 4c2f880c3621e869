package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe/internal/board"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/movesource"
	"github.com/rocketscienceinc/tictactoe/internal/render"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe/internal/session"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/rocketscienceinc/tictactoe/transport/rest"
)

const localGameID = "local"

// RunServer - runs the multi-session HTTP service until SIGINT/SIGTERM.
func RunServer(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := withSignals(log)
	defer cancel()

	gameRepo, closeRepo, err := newGameRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	bot, err := movesource.New(movesource.KindRandom, nil, conf.Play.Seed)
	if err != nil {
		return fmt.Errorf("could not create bot: %w", err)
	}

	gameManager := usecase.NewGameManager(logger, gameRepo, bot)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameManager)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")
	return nil
}

// RunPlay - runs a local game in the terminal reading moves from in.
func RunPlay(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := withSignals(log)
	defer cancel()

	renderer, err := render.New(conf.Play.Skin, out)
	if err != nil {
		return fmt.Errorf("could not create renderer: %w", err)
	}

	human := movesource.NewInteractive(in, out)
	defer human.Close()

	x, err := movesource.New(conf.Play.X, human, conf.Play.Seed)
	if err != nil {
		return fmt.Errorf("could not create player X: %w", err)
	}

	o, err := movesource.New(conf.Play.O, human, conf.Play.Seed)
	if err != nil {
		return fmt.Errorf("could not create player O: %w", err)
	}

	log.Debug("Starting local game", "x", conf.Play.X, "o", conf.Play.O, "skin", conf.Play.Skin)

	human.Help()

	return session.New(logger, newLocalGame(conf.Play), x, o, renderer, human).Play(ctx)
}

// newLocalGame marks the game as a bot game when exactly one seat is human;
// the other seat is the bot's.
func newLocalGame(play config.Play) *entity.Game {
	game := entity.NewGame(localGameID, entity.ModePvP)

	xHuman := play.X == movesource.KindHuman
	oHuman := play.O == movesource.KindHuman

	switch {
	case xHuman && !oHuman:
		game.Mode = entity.ModeBot
		game.BotMark = board.O
	case oHuman && !xHuman:
		game.Mode = entity.ModeBot
		game.BotMark = board.X
	}

	return game
}

func withSignals(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}

// newGameRepository picks Redis when a host is configured and memory otherwise.
func newGameRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	if !conf.Redis.Enabled() {
		log.Info("Redis host is not configured, keeping games in memory")
		return repository.NewMemoryGameRepository(), func() {}, nil
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewGameRepository(redisStorage, conf.Redis.TTL), closeFn, nil
}
