package movesource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe/internal/board"
)

const helpText = `Instructions:
- Enter numbers 1-9 to make moves
- Type 'help' to see this message again
- Type 'quit' or 'exit' to leave the game
`

// Interactive reads moves typed at a terminal. One instance must own the
// reader; both players of a local game share it. Close stops the reader
// goroutine once it has a line nobody will take; a read already blocked on
// the underlying reader ends when that reader does.
type Interactive struct {
	out     io.Writer
	lines   <-chan string
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	lines := make(chan string)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	return &Interactive{out: out, lines: lines, done: done, stopped: stopped}
}

// Close releases the reader goroutine. Later reads report ErrQuit.
func (that *Interactive) Close() {
	that.once.Do(func() { close(that.done) })
}

// Help prints the instructions.
func (that *Interactive) Help() {
	fmt.Fprint(that.out, helpText)
}

// Ask prints prompt and waits for one trimmed line. EOF is reported as ErrQuit.
func (that *Interactive) Ask(ctx context.Context, prompt string) (string, error) {
	select {
	case <-that.done:
		return "", ErrQuit
	default:
	}

	fmt.Fprint(that.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-that.done:
		return "", ErrQuit
	case line, ok := <-that.lines:
		if !ok {
			return "", ErrQuit
		}
		return strings.TrimSpace(line), nil
	}
}

// Confirm asks a yes/no question; only "y" or "yes" count as yes.
func (that *Interactive) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := that.Ask(ctx, question+" (y/n): ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (that *Interactive) NextMove(ctx context.Context, _ board.Board, mark board.Mark) (int, error) {
	prompt := fmt.Sprintf("Player %s's move [1-9]: ", mark)

	for {
		input, err := that.Ask(ctx, prompt)
		if err != nil {
			return 0, err
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit":
			return 0, ErrQuit
		case "help":
			that.Help()
			continue
		}

		position, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(that.out, "\nInvalid input %q: enter a number between 1 and 9\n\n", input)
			continue
		}

		// range and occupancy are checked by the board
		return position, nil
	}
}
