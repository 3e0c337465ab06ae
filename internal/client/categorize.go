package client

import (
	"context"
	"errors"
	"strings"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as metric labels and log fields.
const (
	ErrorCategoryTimeout       ErrorCategory = "timeout"
	ErrorCategoryNetwork       ErrorCategory = "network"
	ErrorCategoryUpstream      ErrorCategory = "upstream_status"
	ErrorCategoryMalformed     ErrorCategory = "malformed"
	ErrorCategoryEmptyBulletin ErrorCategory = "empty_bulletin"
	ErrorCategoryUnknown       ErrorCategory = "unknown"
)

// CategorizeError maps a fetch error to a stable ErrorCategory for metrics.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorCategoryTimeout
	}

	if errors.Is(err, ErrUpstreamStatus) {
		return ErrorCategoryUpstream
	}

	if errors.Is(err, ErrMalformedResponse) {
		return ErrorCategoryMalformed
	}

	if errors.Is(err, ErrEmptyBulletin) {
		return ErrorCategoryEmptyBulletin
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "context deadline exceeded") {
		return ErrorCategoryTimeout
	}

	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "no such host") {
		return ErrorCategoryNetwork
	}

	return ErrorCategoryUnknown
}
