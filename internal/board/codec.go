package board

import "fmt"

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		*m = Empty
		return nil
	}

	mark := ParseMark(s)
	if mark == Empty {
		return fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}

	*m = mark
	return nil
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ongoing", "":
		*s = Ongoing
	case "win":
		*s = Win
	case "tie":
		*s = Tie
	default:
		return fmt.Errorf("unknown status %q", text)
	}

	return nil
}
