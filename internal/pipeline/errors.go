package pipeline

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Kind classifies a pipeline failure so the presentation layer can tell the
// user what corrective action applies.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindUnauthenticated Kind = "unauthenticated"
	KindQuotaExceeded   Kind = "quota_exceeded"
	KindUpstreamFailure Kind = "upstream_failure"
)

// Error is the failure type returned by Pipeline.Run. Stage names the
// pipeline step that failed.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain, or "" when err is not
// a pipeline error.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

func invalidInput(err error) *Error {
	return &Error{Kind: KindInvalidInput, Stage: "validate", Err: err}
}

// classify maps an upstream call failure to the error taxonomy. Google API
// errors carry an HTTP status plus reason strings; anything unrecognized
// (network faults, timeouts, 5xx) counts as an upstream failure.
func classify(stage string, err error) *Error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 401:
			return &Error{Kind: KindUnauthenticated, Stage: stage, Err: err}
		case gerr.Code == 400 && hasReason(gerr, "keyInvalid", "badRequest.keyInvalid"):
			return &Error{Kind: KindUnauthenticated, Stage: stage, Err: err}
		case gerr.Code == 403 && hasReason(gerr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded"):
			return &Error{Kind: KindQuotaExceeded, Stage: stage, Err: err}
		case gerr.Code == 403:
			return &Error{Kind: KindUnauthenticated, Stage: stage, Err: err}
		}
	}
	return &Error{Kind: KindUpstreamFailure, Stage: stage, Err: err}
}

func hasReason(gerr *googleapi.Error, reasons ...string) bool {
	for _, item := range gerr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	return false
}
