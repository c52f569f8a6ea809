package sentinel

import "errors"

// ErrUnavailable marks a backing service that is temporarily unreachable,
// such as a sink behind an open breaker. Infrastructure layers wrap it so
// callers can tell an outage apart from a bad request with errors.Is.
//
// For validation and lookup failures use pkg/domain-errors directly.
var ErrUnavailable = errors.New("unavailable")
