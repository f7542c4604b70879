package mines

import "errors"

// ErrInvalidConfig is wrapped by every error caused by a board that cannot
// be played: bad dimensions, or more mines than free cells.
var ErrInvalidConfig = errors.New("invalid game configuration")
