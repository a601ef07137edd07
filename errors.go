package vec

import (
	"github.com/pkg/errors"
)

// Every error below is raised with panic. They indicate either an
// environment that cannot supply memory or a caller bug, and neither is
// recoverable at the call site. Callers that recover can match them with
// errors.Is.
var (
	ErrAllocation       = errors.New("vec: allocation failed")
	ErrCapacityOverflow = errors.New("vec: capacity overflow")
	ErrIndexOutOfRange  = errors.New("vec: index out of range")
	ErrReleased         = errors.New("vec: use after Release()")
	ErrMoved            = errors.New("vec: use after IntoIter()")
	ErrStaleCursor      = errors.New("vec: cursor used after its source changed")
	ErrSelfAppend       = errors.New("vec: cannot append a Vec to itself")
)

func panicIndex(op string, index, length int) {
	panic(errors.Wrapf(ErrIndexOutOfRange, "%s: index %d, len %d", op, index, length))
}
