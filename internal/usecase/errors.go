package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrProviderNotConfigured = errors.New("provider is not configured")
)

// Pipeline steps tagged onto sync failures so the caller can tell which
// stage of a run broke without parsing messages.
const (
	StepRequestCount = "request_count"
	StepDBQuery      = "db_query"
	StepAPIFetch     = "api_fetch"
	StepAPIResponse  = "api_response"
	StepAPIJSON      = "api_json"
	StepLeagueUpsert = "league_upsert"
	StepMatchUpsert  = "match_upsert"
	StepFinalQuery   = "final_query"
)

// StepError wraps a pipeline failure with the step it happened in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func WithStep(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// StepOf extracts the step tag from an error chain, or "" when untagged.
func StepOf(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
