package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMissingBusinessName indicates an empty business name.
	ErrMissingBusinessName = errors.New("business name is required")
	// ErrInvalidAreaCode indicates no 3-digit area code could be derived.
	ErrInvalidAreaCode = errors.New("invalid area code")
	// ErrInvalidPhoneNumber indicates a number that is not a 10/11 digit NANP number.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	// ErrRunNotFound indicates an unknown run id.
	ErrRunNotFound = errors.New("run not found")
	// ErrMissingIdentifier indicates a successful remote response without the expected id field.
	ErrMissingIdentifier = errors.New("response did not contain the expected identifier")
	// ErrEmptySitemap indicates the website yielded no crawlable URLs.
	ErrEmptySitemap = errors.New("no URLs found in website sitemap")
)

const maxErrorBodyLen = 512

// RemoteError is a non-success response from a remote create operation.
type RemoteError struct {
	Operation  string
	StatusCode int
	Body       string
}

// NewRemoteError truncates body for diagnostics.
func NewRemoteError(operation string, statusCode int, body []byte) *RemoteError {
	b := strings.TrimSpace(string(body))
	if len(b) > maxErrorBodyLen {
		cut := maxErrorBodyLen
		for cut > 0 && !utf8.RuneStart(b[cut]) {
			cut--
		}
		b = b[:cut] + "..."
	}
	return &RemoteError{Operation: operation, StatusCode: statusCode, Body: b}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// StructuralFailure aborts a run: a prerequisite resource could not be created.
type StructuralFailure struct {
	Step StepName
	Err  error
}

func (e *StructuralFailure) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StructuralFailure) Unwrap() error { return e.Err }

// DegradedFailure is a failed optional step; the run continues without its output.
type DegradedFailure struct {
	Step StepName
	Err  error
}

func (e *DegradedFailure) Error() string {
	return fmt.Sprintf("step %s degraded: %v", e.Step, e.Err)
}

func (e *DegradedFailure) Unwrap() error { return e.Err }

// ExhaustionFailure means every candidate area code was tried without success.
type ExhaustionFailure struct {
	Attempted []string
	LastErr   error
}

func (e *ExhaustionFailure) Error() string {
	return fmt.Sprintf("no phone number available in area codes %s", strings.Join(e.Attempted, ", "))
}

func (e *ExhaustionFailure) Unwrap() error { return e.LastErr }

// PersistenceFailure means provisioning succeeded but nothing was saved.
type PersistenceFailure struct {
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("failed to persist provisioning result: %v", e.Err)
}

func (e *PersistenceFailure) Unwrap() error { return e.Err }
