package board

// Status is the terminal state of a board.
type Status uint8

const (
	Ongoing Status = iota
	Win
	Tie
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return "ongoing"
	}
}

// Result is the outcome of Evaluate. Winner is set only when Status is Win.
type Result struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

// IsTerminal reports whether no more moves can be played.
func (r Result) IsTerminal() bool {
	return r.Status != Ongoing
}

func (r Result) String() string {
	if r.Status == Win {
		return r.Winner.String() + " wins"
	}
	return r.Status.String()
}

// Evaluate scans the winning lines before checking for a full board,
// so a move that both completes a line and fills the board is a win.
func (b Board) Evaluate() Result {
	for _, line := range WinningLines {
		a := b[line[0]]
		if a != Empty && a == b[line[1]] && a == b[line[2]] {
			return Result{Status: Win, Winner: a}
		}
	}

	for _, cell := range b {
		if cell == Empty {
			return Result{Status: Ongoing}
		}
	}

	return Result{Status: Tie}
}
