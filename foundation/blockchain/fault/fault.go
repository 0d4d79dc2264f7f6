// Package fault defines the error taxonomy used by the ledger engine. Every
// error returned from the core to a caller can be classified with one of the
// Is functions so adapters can decide how to report it.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is returned for malformed input or a schema violation. The
// transaction or block is rejected and the caller receives every message.
type ValidationError struct {
	Messages []string
}

// Validation constructs a ValidationError from the set of messages.
func Validation(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

// Validationf constructs a ValidationError with a single formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Messages: []string{fmt.Sprintf(format, args...)}}
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return strings.Join(ve.Messages, ", ")
}

// =============================================================================

// VerificationError is returned when a signature, balance or business rule
// fails. The transaction is declined and never retried automatically.
type VerificationError struct {
	Messages []string
}

// Verification constructs a VerificationError from the set of messages.
func Verification(msgs ...string) error {
	return &VerificationError{Messages: msgs}
}

// Verificationf constructs a VerificationError with a single formatted message.
func Verificationf(format string, args ...any) error {
	return &VerificationError{Messages: []string{fmt.Sprintf(format, args...)}}
}

// Error implements the error interface.
func (ve *VerificationError) Error() string {
	return strings.Join(ve.Messages, ", ")
}

// =============================================================================

// NotFoundError is returned when a requested block, transaction or account
// does not exist.
type NotFoundError struct {
	What string
	Key  string
}

// NotFound constructs a NotFoundError.
func NotFound(what string, key string) error {
	return &NotFoundError{What: what, Key: key}
}

// Error implements the error interface.
func (nfe *NotFoundError) Error() string {
	if nfe.Key == "" {
		return fmt.Sprintf("%s not found", nfe.What)
	}
	return fmt.Sprintf("%s not found: %s", nfe.What, nfe.Key)
}

// =============================================================================

// EncodingError signals a broken internal invariant while encoding or
// decoding canonical data. Continuing after one risks chain divergence.
type EncodingError struct {
	Field string
	Err   error
}

// Encoding constructs an EncodingError for the specified field.
func Encoding(field string, err error) error {
	return &EncodingError{Field: field, Err: err}
}

// Error implements the error interface.
func (ee *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %s", ee.Field, ee.Err)
}

// Unwrap provides access to the underlying error.
func (ee *EncodingError) Unwrap() error {
	return ee.Err
}

// =============================================================================

// IsValidation checks if a ValidationError exists in the chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsVerification checks if a VerificationError exists in the chain.
func IsVerification(err error) bool {
	var ve *VerificationError
	return errors.As(err, &ve)
}

// IsNotFound checks if a NotFoundError exists in the chain.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsEncoding checks if an EncodingError exists in the chain.
func IsEncoding(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}

// Messages returns the list of messages carried by a validation or
// verification error. Any other error is returned as a single message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}

	var vfe *VerificationError
	if errors.As(err, &vfe) {
		return vfe.Messages
	}

	return []string{err.Error()}
}
