package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe/internal"
	"github.com/rocketscienceinc/tictactoe/internal/config"
)

// main - is the entry point of the application. It parses the command line and runs the chosen mode.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Tic-tac-toe in the terminal or over HTTP",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the config file")

	root.AddCommand(playCmd(&configPath), serveCmd(&configPath))
	return root
}

func playCmd(configPath *string) *cobra.Command {
	var skin, x, o string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("skin") {
				conf.Play.Skin = skin
			}
			if flags.Changed("x") {
				conf.Play.X = x
			}
			if flags.Changed("o") {
				conf.Play.O = o
			}
			if flags.Changed("seed") {
				conf.Play.Seed = seed
			}

			// stdout belongs to the board
			logger := initLogger(conf, os.Stderr)

			if err = app.RunPlay(logger, conf, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("play failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&skin, "skin", "", "board skin: plain or color")
	cmd.Flags().StringVar(&x, "x", "", "player X: human or random")
	cmd.Flags().StringVar(&o, "o", "", "player O: human or random")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random player (0 uses the clock)")

	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve many independent games over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				conf.HTTPPort = port
			}

			logger := initLogger(conf, os.Stdout)

			if err = app.RunServer(logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port")

	return cmd
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch strings.ToLower(conf.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
