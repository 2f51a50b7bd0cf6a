package dice

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input  string
		exp    Expr
		expErr string
	}{
		"single die":     {input: "1d8", exp: Expr{Count: 1, Sides: 8}},
		"with bonus":     {input: "3d4+3", exp: Expr{Count: 3, Sides: 4, Bonus: 3}},
		"with penalty":   {input: "2d6-2", exp: Expr{Count: 2, Sides: 6, Bonus: -2}},
		"missing count":  {input: "d6", expErr: "invalid dice expression"},
		"zero sides":     {input: "1d0", expErr: "invalid dice expression"},
		"trailing junk":  {input: "1d6x", expErr: "invalid dice expression"},
		"empty":          {input: "", expErr: "invalid dice expression"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "count", got.Count, tt.exp.Count)
			testutil.AssertEqual(t, "sides", got.Sides, tt.exp.Sides)
			testutil.AssertEqual(t, "bonus", got.Bonus, tt.exp.Bonus)
			testutil.AssertEqual(t, "string", got.String(), tt.input)
		})
	}
}

func TestExpr_Roll(t *testing.T) {
	tests := map[string]struct {
		expr    string
		rolls   []int
		crit    bool
		exp     int
	}{
		"sums dice and bonus":  {expr: "3d4+3", rolls: []int{1, 2, 4}, exp: 10},
		"penalty can go low":   {expr: "2d6-2", rolls: []int{1, 1}, exp: 0},
		"crit doubles dice":    {expr: "1d8+1", rolls: []int{8, 3}, crit: true, exp: 12},
		"scripted clamps":      {expr: "1d4", rolls: []int{20}, exp: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewScriptedRoller(tt.rolls...)
			e := MustParse(tt.expr)

			var got int
			if tt.crit {
				got = e.RollCrit(r)
			} else {
				got = e.Roll(r)
			}
			testutil.AssertEqual(t, "total", got, tt.exp)
		})
	}
}

func TestExpr_JSON(t *testing.T) {
	var v struct {
		Damage Expr `json:"damage"`
		Heal   Expr `json:"heal"`
	}
	err := json.Unmarshal([]byte(`{"damage":"1d8","heal":""}`), &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "damage", v.Damage.Dice(), "1d8")
	testutil.AssertEqual(t, "heal zero", v.Heal.IsZero(), true)

	err = json.Unmarshal([]byte(`{"damage":"eight"}`), &v)
	testutil.AssertErrorContains(t, err, "invalid dice expression")
}

func TestRollDropLowest(t *testing.T) {
	r := NewScriptedRoller(3, 6, 1, 5)
	testutil.AssertEqual(t, "total", RollDropLowest(r, 4, 6), 14)
}

func TestChance(t *testing.T) {
	tests := map[string]struct {
		p    float64
		roll int
		exp  bool
	}{
		"never":          {p: 0, roll: 1, exp: false},
		"always":         {p: 1, roll: 100, exp: true},
		"under threshold": {p: 0.6, roll: 60, exp: true},
		"over threshold": {p: 0.6, roll: 61, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "result", Chance(NewScriptedRoller(tt.roll), tt.p), tt.exp)
		})
	}
}

func TestBetween(t *testing.T) {
	testutil.AssertEqual(t, "low", Between(NewScriptedRoller(1), 2, 12), 2)
	testutil.AssertEqual(t, "high", Between(NewScriptedRoller(11), 2, 12), 12)
	testutil.AssertEqual(t, "degenerate", Between(NewScriptedRoller(5), 3, 3), 3)
}

func TestRandomRoller_Range(t *testing.T) {
	var r RandomRoller
	for range 1000 {
		v := r.Die(20)
		if v < 1 || v > 20 {
			t.Fatalf("roll %d out of range", v)
		}
	}
}
