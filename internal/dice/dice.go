package dice

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
	"strconv"
	"sync"
)

var exprPattern = regexp.MustCompile(`^(\d+)d(\d+)(?:([+-])(\d+))?$`)

// Roller produces die results. Die must return a value in [1, sides].
type Roller interface {
	Die(sides int) int
}

// RandomRoller rolls with math/rand.
type RandomRoller struct{}

func (RandomRoller) Die(sides int) int {
	if sides < 1 {
		return 0
	}
	return rand.IntN(sides) + 1
}

// ScriptedRoller returns a fixed sequence of results, cycling when exhausted.
// Results larger than the die being rolled are clamped to the die size.
type ScriptedRoller struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

func (s *ScriptedRoller) Die(sides int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 1
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return max(min(v, sides), 1)
}

// Expr is a dice expression such as "2d6-2".
type Expr struct {
	Count int
	Sides int
	Bonus int
}

func Parse(s string) (Expr, error) {
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, fmt.Errorf("invalid dice expression %q", s)
	}

	count, _ := strconv.Atoi(m[1])
	sides, _ := strconv.Atoi(m[2])
	if count < 1 || sides < 1 {
		return Expr{}, fmt.Errorf("invalid dice expression %q", s)
	}

	e := Expr{Count: count, Sides: sides}
	if m[3] != "" {
		e.Bonus, _ = strconv.Atoi(m[4])
		if m[3] == "-" {
			e.Bonus = -e.Bonus
		}
	}
	return e, nil
}

func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Expr) IsZero() bool {
	return e.Count == 0
}

func (e Expr) String() string {
	if e.IsZero() {
		return ""
	}
	switch {
	case e.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", e.Count, e.Sides, e.Bonus)
	case e.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", e.Count, e.Sides, e.Bonus)
	default:
		return fmt.Sprintf("%dd%d", e.Count, e.Sides)
	}
}

// Dice returns the expression without its flat bonus, e.g. "1d8".
func (e Expr) Dice() string {
	return Expr{Count: e.Count, Sides: e.Sides}.String()
}

// Roll sums Count dice plus Bonus. The result is not clamped.
func (e Expr) Roll(r Roller) int {
	return e.roll(r, e.Count)
}

// RollCrit rolls twice the dice (bonus applied once).
func (e Expr) RollCrit(r Roller) int {
	return e.roll(r, e.Count*2)
}

func (e Expr) roll(r Roller, count int) int {
	total := e.Bonus
	for range count {
		total += r.Die(e.Sides)
	}
	return total
}

func (e Expr) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Expr) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*e = Expr{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// RollDropLowest rolls count dice of the given size and sums all but the lowest.
func RollDropLowest(r Roller, count, sides int) int {
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = r.Die(sides)
	}
	slices.Sort(rolls)

	total := 0
	for _, v := range rolls[1:] {
		total += v
	}
	return total
}

// Chance reports whether a percentile roll succeeds with probability p.
func Chance(r Roller, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return float64(r.Die(100)) <= p*100
}

// Between rolls a value in [lo, hi].
func Between(r Roller, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Die(hi-lo+1) - 1
}
