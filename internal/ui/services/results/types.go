package results

import (
	"errors"

	"findpane/internal/domain"
)

// ErrOutOfRange is returned by Get for an index outside [0, Size())
var ErrOutOfRange = errors.New("result index out of range")

// Comparator orders two entries, returning <0, 0 or >0
type Comparator func(a, b domain.ResultEntry) int

// State holds the rows of one search generation
type State struct {
	Rows          []domain.ResultEntry
	HasDescColumn bool // set once any row has a description, reset by Clear
	Changed       bool // rows changed since the presentation layer last looked
}
