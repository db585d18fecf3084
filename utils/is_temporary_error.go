package utils

import (
	"context"
	"errors"
	"net"
)

// IsTemporaryErr reports whether a transport error is worth retrying.
// Cancellation is final; timeouts and connection level failures are transient.
func IsTemporaryErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var tempErr interface{ Temporary() bool }
	if errors.As(err, &tempErr) {
		return tempErr.Temporary()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
