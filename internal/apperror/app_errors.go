package apperror

import "errors"

var (
	ErrGameFinished   = errors.New("game is already finished")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrGameNotFound   = errors.New("game not found")
	ErrUnknownMode    = errors.New("unknown game mode")
	ErrBotSeat        = errors.New("that seat belongs to the bot")
	ErrNoActiveSource = errors.New("no move source for mark")
)
