package participation

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Position is a ranked placing. NoPosition means "not ranked".
type Position uint8

const (
	NoPosition Position = 0
	First      Position = 1
	Second     Position = 2
	Third      Position = 3
)

// ErrInvalidPosition is returned for placings outside 1..3.
var ErrInvalidPosition = errors.New("position must be 1, 2, 3 or empty")

// IsSet reports whether a placing is recorded.
func (p Position) IsSet() bool {
	return p != NoPosition
}

// Valid reports whether p is NoPosition or one of the three ranked placings.
func (p Position) Valid() bool {
	return p <= Third
}

// String returns "1st", "2nd", "3rd", or "-" when unset.
func (p Position) String() string {
	switch p {
	case NoPosition:
		return "-"
	case First:
		return "1st"
	case Second:
		return "2nd"
	case Third:
		return "3rd"
	}
	return strconv.Itoa(int(p))
}

// ParsePosition accepts "", "-", "0", "1".."3" and the ordinal forms "1st".."3rd".
func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "-", "0", "none":
		return NoPosition, nil
	case "1", "1st":
		return First, nil
	case "2", "2nd":
		return Second, nil
	case "3", "3rd":
		return Third, nil
	}
	return NoPosition, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// MarshalJSON encodes NoPosition as null and placings as numbers.
func (p Position) MarshalJSON() ([]byte, error) {
	if p == NoPosition {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON decodes null or a number. Range checks are left to Valid so
// the server can answer with a validation error instead of a decode error.
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = NoPosition
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, data)
	}
	*p = Position(n)
	return nil
}
