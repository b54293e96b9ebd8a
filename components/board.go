package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const BoardSize = 8

var (
	// ErrInvalidCoordinate is returned for squares outside the board or input that
	// does not name a square at all.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnreachableTarget means the search ran out of squares (or exceeded the
	// visit bound) without reaching the target. It cannot happen on a full 8x8 board.
	ErrUnreachableTarget = errors.New("unreachable target")
)

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinates) IsWithinBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Name is the display form used in move listings, e.g. "3, 3".
func (c Coordinates) Name() string {
	return fmt.Sprintf("%d, %d", c.X, c.Y)
}

func (c Coordinates) String() string {
	return c.Name()
}

func (c Coordinates) validate() error {
	if !c.IsWithinBounds() {
		return fmt.Errorf("%w: (%d, %d) is off the board", ErrInvalidCoordinate, c.X, c.Y)
	}
	return nil
}

// ParseCoordinates accepts "x,y", "x, y" and "[x, y]".
func ParseCoordinates(s string) (Coordinates, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q is not an x,y pair", ErrInvalidCoordinate, s)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: bad x in %q: %v", ErrInvalidCoordinate, s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: bad y in %q: %v", ErrInvalidCoordinate, s, err)
	}

	c := Coordinates{X: x, Y: y}
	if err := c.validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}
