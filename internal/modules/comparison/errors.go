package comparison

import "errors"

// ErrReportNotFound is returned when no stored report matches
var ErrReportNotFound = errors.New("report not found")
