package ranking

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means the project or keyword context of a task could
	// not be resolved. No records are produced.
	ErrConfiguration = errors.New("ranking: project or keyword context not found")

	// ErrNoResult means the provider returned no finished result set for the
	// task: no payload, a task still queued, or an empty result list.
	ErrNoResult = errors.New("ranking: provider response has no result")
)

// ProviderError is returned when the SERP provider reports a task-level
// failure. The run is aborted before any record is produced.
type ProviderError struct {
	TaskID        string
	StatusCode    int
	StatusMessage string
	TasksError    int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ranking: provider task %s failed (tasks_error=%d, code %d): %s",
		e.TaskID, e.TasksError, e.StatusCode, e.StatusMessage)
}

// IsProviderError reports whether err carries a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
