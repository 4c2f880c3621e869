package entity

import "github.com/rocketscienceinc/tictactoe/internal/board"

// Scoreboard tallies finished rounds of one process. It is never stored.
type Scoreboard struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Ties int `json:"ties"`
}

// Record adds a terminal result. Ongoing results are ignored.
func (that *Scoreboard) Record(result board.Result) {
	switch {
	case result.Status == board.Tie:
		that.Ties++
	case result.Status == board.Win && result.Winner == board.X:
		that.X++
	case result.Status == board.Win && result.Winner == board.O:
		that.O++
	}
}

// Rounds returns the number of recorded rounds.
func (that Scoreboard) Rounds() int {
	return that.X + that.O + that.Ties
}
