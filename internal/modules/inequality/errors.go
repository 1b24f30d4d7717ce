package inequality

import "errors"

// ErrInvalidInput is returned for empty sets, negative or non-finite amounts,
// and totals that are non-positive or overflow.
var ErrInvalidInput = errors.New("invalid allocation input")
