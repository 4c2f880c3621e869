package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/board"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

type gameManager interface {
	CreateGame(ctx context.Context, mode string) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, mark board.Mark, position int) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type createGameRequest struct {
	Mode string `json:"mode"`
}

type turnRequest struct {
	Mark     board.Mark `json:"mark"`
	Position int        `json:"position"`
}

type gameResponse struct {
	*entity.Game
	Available []int `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type handlers struct {
	logger *slog.Logger
	games  gameManager
}

func newHandlers(logger *slog.Logger, games gameManager) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	req := createGameRequest{Mode: entity.ModePvP}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
			return
		}
	}

	game, err := that.games.CreateGame(r.Context(), req.Mode)
	if err != nil {
		that.handleError(w, "createGame", err)
		return
	}

	that.writeGame(w, http.StatusCreated, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.handleError(w, "getGame", err)
		return
	}

	that.writeGame(w, http.StatusOK, game)
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, board.ErrInvalidMark) {
			that.writeError(w, http.StatusBadRequest, "invalid_mark", "mark must be X or O")
			return
		}
		that.writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	if !req.Mark.Valid() {
		that.writeError(w, http.StatusBadRequest, "invalid_mark", "mark must be X or O")
		return
	}

	game, err := that.games.MakeTurn(r.Context(), chi.URLParam(r, "id"), req.Mark, req.Position)
	if err != nil {
		that.handleError(w, "makeTurn", err)
		return
	}

	that.writeGame(w, http.StatusOK, game)
}

func (that *handlers) resetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ResetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.handleError(w, "resetGame", err)
		return
	}

	that.writeGame(w, http.StatusOK, game)
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.handleError(w, "deleteGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleError maps domain errors to HTTP statuses; anything unknown is a 500.
func (that *handlers) handleError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeError(w, http.StatusNotFound, "not_found", "game not found")
	case errors.Is(err, board.ErrOutOfRange):
		that.writeError(w, http.StatusBadRequest, "out_of_range", "position must be between 1 and 9")
	case errors.Is(err, board.ErrInvalidMark):
		that.writeError(w, http.StatusBadRequest, "invalid_mark", "mark must be X or O")
	case errors.Is(err, apperror.ErrUnknownMode):
		that.writeError(w, http.StatusBadRequest, "unknown_mode", "mode must be pvp or bot")
	case errors.Is(err, board.ErrOccupiedCell):
		that.writeError(w, http.StatusConflict, "occupied", "position already taken")
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.writeError(w, http.StatusConflict, "not_your_turn", "it's not your turn")
	case errors.Is(err, apperror.ErrBotSeat):
		that.writeError(w, http.StatusConflict, "bot_seat", "that seat belongs to the bot")
	case errors.Is(err, apperror.ErrGameFinished):
		that.writeError(w, http.StatusConflict, "finished", "game is already finished")
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeError(w, http.StatusInternalServerError, "internal", "Internal Server Error")
	}
}

func (that *handlers) writeGame(w http.ResponseWriter, status int, game *entity.Game) {
	available := []int{}
	if game.IsOngoing() {
		available = game.Board.Available()
	}

	that.writeJSON(w, status, gameResponse{Game: game, Available: available})
}

func (that *handlers) writeError(w http.ResponseWriter, status int, code, message string) {
	that.writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
