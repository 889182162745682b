// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines the error taxonomy shared by the search client, the
// repository store and the CLI. Sentinel errors map to specific exit codes in
// the CLI for proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrTransport indicates the search endpoint answered with a non-2xx status.
	ErrTransport = errors.New("search endpoint returned an error status")

	// ErrClient indicates the request never produced a usable response:
	// network failure, timeout or a malformed body.
	ErrClient = errors.New("search request failed")

	// ErrValidation indicates caller input was rejected before any request was made.
	ErrValidation = errors.New("invalid search input")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrNotFound indicates the requested resource does not exist.
	// Maps to exit code 2.
	ErrNotFound = errors.New("resource not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrStateCorrupted indicates the persisted selection record could not be trusted.
	ErrStateCorrupted = errors.New("persisted state is corrupted")
)

// Kind classifies a FetchError.
type Kind int

const (
	// KindTransport is a non-2xx HTTP status.
	KindTransport Kind = iota + 1
	// KindClient is a network, timeout or decoding failure.
	KindClient
	// KindValidation is rejected input. The store never produces it.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindClient:
		return "client"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindClient:
		return ErrClient
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// FetchError is returned by search clients. Its Error() text is what the
// store exposes to the presentation layer, so it must stay human readable.
type FetchError struct {
	Kind Kind

	// StatusCode and Status are set for KindTransport only.
	StatusCode int
	Status     string

	// Err is the underlying cause, if any.
	Err error

	msg string
}

// NewTransportError builds a KindTransport error from an HTTP status.
// status may be the full status line ("503 Service Unavailable") or just the text.
func NewTransportError(code int, status string) *FetchError {
	text := statusText(code, status)
	return &FetchError{
		Kind:       KindTransport,
		StatusCode: code,
		Status:     text,
		msg:        fmt.Sprintf("Error: %d %s", code, text),
	}
}

// NewClientError wraps a cause that prevented a usable response.
// The message is the cause's own description.
func NewClientError(err error) *FetchError {
	msg := "Error loading repositories"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &FetchError{Kind: KindClient, Err: err, msg: msg}
}

// NewValidationError reports rejected input.
func NewValidationError(format string, args ...interface{}) *FetchError {
	return &FetchError{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e *FetchError) Error() string {
	return e.msg
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the kind's sentinel, so errors.Is(err, ErrTransport) works on
// wrapped FetchErrors.
func (e *FetchError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// IsRateLimitError reports 429 responses.
func (e *FetchError) IsRateLimitError() bool {
	return e.Kind == KindTransport && e.StatusCode == http.StatusTooManyRequests
}

// IsAuthError reports credential failures.
func (e *FetchError) IsAuthError() bool {
	return e.Kind == KindTransport && e.StatusCode == http.StatusUnauthorized
}

// IsNotFoundError reports 404 responses.
func (e *FetchError) IsNotFoundError() bool {
	return e.Kind == KindTransport && e.StatusCode == http.StatusNotFound
}

// statusText strips a leading status code from a status line, falling back to
// the canonical text when the server sent none.
func statusText(code int, status string) string {
	prefix := fmt.Sprintf("%d ", code)
	if len(status) >= len(prefix) && status[:len(prefix)] == prefix {
		status = status[len(prefix):]
	}
	if status == "" {
		status = http.StatusText(code)
	}
	return status
}
