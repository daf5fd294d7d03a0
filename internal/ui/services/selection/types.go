package selection

import (
	"findpane/internal/domain"
)

// NoSelection is the index used when no row is selected
const NoSelection = -1

// State holds selection state
type State struct {
	Index int
}

// Source is the read side of the results store
type Source interface {
	Get(index int) (domain.ResultEntry, error)
	Size() int
}

// Navigator opens a jump target, e.g. in an editor or a code tab.
// Repeated jumps to the same target must be harmless.
type Navigator interface {
	Jump(target domain.JumpTarget) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(target domain.JumpTarget) error

func (f NavigatorFunc) Jump(target domain.JumpTarget) error {
	return f(target)
}
