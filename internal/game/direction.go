package game

import (
	"fmt"
	"strings"
)

type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the compass directions in display order.
var Directions = []Direction{North, East, South, West}

var directionNames = [...]string{"north", "east", "south", "west"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite returns the direction leading back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Offset returns the coordinate delta of one step in d. North is -y.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// ParseDirection accepts full names and single-letter abbreviations.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if s == n || (len(s) == 1 && s[0] == n[0]) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction: %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
