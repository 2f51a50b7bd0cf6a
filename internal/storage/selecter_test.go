package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type menuEntry struct {
	Name string `json:"name"`
}

func (m *menuEntry) Validate() error  { return nil }
func (m *menuEntry) Selector() string { return m.Name }

type scriptedConn struct {
	in  *bytes.Buffer
	out bytes.Buffer
}

func newScriptedConn(input string) *scriptedConn {
	return &scriptedConn{in: bytes.NewBufferString(input)}
}

func (c *scriptedConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *scriptedConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func classMenu() *SelectableStorer[*menuEntry] {
	return NewSelectableStorer[*menuEntry](NewMemoryStore(map[string]*menuEntry{
		"wizard":  {Name: "Wizard"},
		"cleric":  {Name: "Cleric"},
		"fighter": {Name: "Fighter"},
	}))
}

func TestSelectableStorer_Select(t *testing.T) {
	ss := classMenu()

	tests := map[string]struct {
		index int
		exp   string
	}{
		"first":    {index: 1, exp: "cleric"},
		"second":   {index: 2, exp: "fighter"},
		"last":     {index: 3, exp: "wizard"},
		"zero":     {index: 0, exp: ""},
		"negative": {index: -1, exp: ""},
		"past end": {index: 4, exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "id", ss.Select(tt.index), tt.exp)
		})
	}
}

func TestSelectableStorer_TiesBreakOnId(t *testing.T) {
	ss := NewSelectableStorer[*menuEntry](NewMemoryStore(map[string]*menuEntry{
		"elf-wood": {Name: "Elf"},
		"elf-high": {Name: "Elf"},
	}))

	testutil.AssertEqual(t, "first", ss.Select(1), "elf-high")
	testutil.AssertEqual(t, "second", ss.Select(2), "elf-wood")
}

func TestSelectableStorer_Layout(t *testing.T) {
	tests := map[string]struct {
		records map[string]*menuEntry
		expRows int
	}{
		"empty keeps minimum rows": {records: map[string]*menuEntry{}, expRows: defaultSelectorRowCount},
		"short list":               {records: map[string]*menuEntry{"a": {Name: "A"}, "b": {Name: "B"}}, expRows: defaultSelectorRowCount},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ss := NewSelectableStorer[*menuEntry](NewMemoryStore(tt.records))
			testutil.AssertEqual(t, "rows", len(ss.output), tt.expRows)
		})
	}

	// Long names force a single column.
	long := map[string]*menuEntry{}
	for i, n := range []string{"a", "b", "c", "d", "e", "f"} {
		long[n] = &menuEntry{Name: strings.Repeat(n, 60+i)}
	}
	ss := NewSelectableStorer[*menuEntry](NewMemoryStore(long))
	testutil.AssertEqual(t, "rows", len(ss.output), 6)
	testutil.AssertEqual(t, "sixth row", strings.HasPrefix(ss.output[5], " 6. ffff"), true)
}

func TestSelectableStorer_Prompt(t *testing.T) {
	tests := map[string]struct {
		input   string
		exp     string
		expOut  []string
		expFail bool
	}{
		"picks by number": {
			input:  "2\n",
			exp:    "fighter",
			expOut: []string{"What is your class?\n", " 1. Cleric", " 2. Fighter", " 3. Wizard", "Make your selection: "},
		},
		"retries until valid": {
			input:  "bard\n9\n 3 \n",
			exp:    "wizard",
			expOut: []string{"Invalid selection!\n"},
		},
		"connection closes": {
			input:   "",
			expFail: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conn := newScriptedConn(tt.input)
			got, err := classMenu().Prompt(conn, "What is your class?")
			if tt.expFail {
				if err == nil {
					t.Fatalf("expected error, got selection %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "selection", got, tt.exp)
			out := conn.out.String()
			for _, s := range tt.expOut {
				if !strings.Contains(out, s) {
					t.Errorf("expected %q in output:\n%s", s, out)
				}
			}
		})
	}
}
