package scheduler

import "errors"

// ErrUnknownJob is returned when no job is registered under a name
var ErrUnknownJob = errors.New("unknown job")
