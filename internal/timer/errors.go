package timer

import "errors"

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidName     = errors.New("name must not be blank")
	ErrNotFound        = errors.New("timer not found")
	ErrInvalidReorder  = errors.New("invalid reorder indices")
)
