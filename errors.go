package bloomkit

import "errors"

// ErrInvalidArgument is returned at construction when a parameter is out of
// domain: a zero item count, or a false positive rate outside [0, 1].
var ErrInvalidArgument = errors.New("bloomkit: invalid argument")

// ErrDegenerateConfig is returned at construction when the false positive
// rate is exactly 0, which would require an unbounded bitset.
var ErrDegenerateConfig = errors.New("bloomkit: degenerate config")
