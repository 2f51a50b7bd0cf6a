package storage

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-dungeon/internal"
)

const (
	defaultSelectorRowLength = 80
	defaultSelectorRowCount  = 5
)

// Selectable is an asset that can be offered in a numbered menu.
type Selectable interface {
	ValidatingSpec
	Selector() string
}

type SelectableStorer[T Selectable] struct {
	Storer[T]

	options []option[T]
	output  []string
}

type option[T Selectable] struct {
	id  string
	val T
}

func NewSelectableStorer[T Selectable](st Storer[T]) *SelectableStorer[T] {
	s := &SelectableStorer[T]{Storer: st}

	for id, val := range s.GetAll() {
		s.options = append(s.options, option[T]{id: id, val: val})
	}
	slices.SortFunc(s.options, func(a, b option[T]) int {
		return cmp.Or(
			cmp.Compare(a.val.Selector(), b.val.Selector()),
			cmp.Compare(a.id, b.id),
		)
	})
	s.build()

	return s
}

func (s *SelectableStorer[T]) build() {
	colWidth := 1
	for _, v := range s.options {
		l := len(v.val.Selector()) + 7 // Plus 7 for number and spacing (nn. <val>  )
		if l > colWidth {
			colWidth = l
		}
	}

	// Columns fill top to bottom, then left to right.
	numVals := len(s.options)
	numCols := max(defaultSelectorRowLength/colWidth, 1)
	numRows := max((numVals+numCols-1)/numCols, defaultSelectorRowCount)

	count := 0
	rows := make([]string, numRows)
	for _, v := range s.options {
		rows[count%numRows] = rows[count%numRows] + fmt.Sprintf("%2d. %-*s  ", count+1, colWidth-5, v.val.Selector())
		count++
	}

	s.output = rows
}

// Prompt writes the menu to rw and reads lines until a valid selection is made.
func (s *SelectableStorer[T]) Prompt(rw io.ReadWriter, prompt string) (string, error) {
	_, err := fmt.Fprintf(rw, "%s\n", prompt)
	if err != nil {
		return "", err
	}

	for _, str := range s.output {
		if len(str) > 0 {
			_, err = fmt.Fprintf(rw, "%s\n", str)
			if err != nil {
				return "", err
			}
		}
	}

	selection, err := internal.Prompt(rw, "Make your selection: ", internal.WithValidator(
		func(str string) (bool, string) {
			i, err := strconv.Atoi(strings.TrimSpace(str))
			if err != nil || s.Select(i) == "" {
				return false, "Invalid selection!\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return "", err
	}

	i, err := strconv.Atoi(strings.TrimSpace(selection))
	if err != nil {
		return "", err
	}

	return s.Select(i), nil
}

// Select returns the id of the i'th (1-based) option, or "" if out of range.
func (s *SelectableStorer[T]) Select(i int) string {
	if i < 1 || i > len(s.options) {
		return ""
	}
	return s.options[i-1].id
}
