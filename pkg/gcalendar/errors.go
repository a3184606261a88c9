package gcalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrAuthExpired means the calendar credential is stale or rejected.
	// Reauthorization is a manual step, so callers surface this to the user.
	ErrAuthExpired = errors.New("calendar authorization expired")

	// ErrNotFound means the requested event does not exist (or was already deleted).
	ErrNotFound = errors.New("calendar event not found")

	// ErrTransient means the calendar service or the network failed in a
	// retryable way (timeouts, 429, 5xx, transport errors).
	ErrTransient = errors.New("calendar service temporarily unavailable")
)

// classifyError maps Google API failures onto the package sentinels so
// callers can branch with errors.Is.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%s: %w: %v", op, ErrAuthExpired, err)
		case apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone:
			return fmt.Errorf("%s: %w: %v", op, ErrNotFound, err)
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500:
			return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
	}

	// Anything else reaching here is a transport-level failure (DNS,
	// refused connection) and is worth retrying.
	return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
}
