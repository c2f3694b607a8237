// Package services implements the business logic of the webhook resend
// backend. This file centralizes the service-level error taxonomy so that
// it can be consistently returned by service methods and translated into
// HTTP responses at the handler layer.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigNotFound indicates that neither the conta nor the cedente
	// carries an enabled notification configuration for the product.
	ErrConfigNotFound = errors.New("notification config not found")

	// ErrTypeDisabled indicates the resolved configuration explicitly
	// switches off the requested notification type.
	ErrTypeDisabled = errors.New("notification type disabled in config")

	// ErrProtocolNotFound indicates no audit record matches the query.
	ErrProtocolNotFound = errors.New("protocol not found")

	// ErrDateRange indicates the protocol listing window is invalid or
	// exceeds the 31-day maximum.
	ErrDateRange = errors.New("date range invalid or wider than 31 days")
)

// ValidationError reports every malformed field of a resend request at once.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// SituationError reports every instrument whose lifecycle state does not
// allow the requested notification type. The whole batch is rejected.
type SituationError struct {
	InvalidIDs []string
	Product    string
	Type       string
}

// Error implements the error interface.
func (e *SituationError) Error() string {
	return fmt.Sprintf("invalid situation for ids: %s", strings.Join(e.InvalidIDs, ", "))
}

// DuplicateError reports a structurally identical request inside the dedup
// TTL window. Protocolo carries the previously issued protocol when the
// original request already completed.
type DuplicateError struct {
	Protocolo string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return "duplicate request within dedup window"
}

// DispatchError reports a failed outbound delivery. StatusCode is zero for
// transport-level failures (timeout, connection refused).
type DispatchError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("webhook dispatch failed: status %d", e.StatusCode)
	}
	return "webhook dispatch failed: " + e.Message
}
