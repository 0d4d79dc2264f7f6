// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ddknet/node/foundation/blockchain/fault"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// Classify maps an error coming out of the node core to the response and
// status code sent to the client. Unexpected errors hide their message.
func Classify(err error) (Response, int) {
	switch {
	case fault.IsValidation(err), fault.IsVerification(err):
		msgs := fault.Messages(err)
		return Response{Error: err.Error(), Errors: msgs}, http.StatusBadRequest

	case fault.IsNotFound(err):
		return Response{Error: err.Error()}, http.StatusNotFound

	case IsTrusted(err):
		trsErr := GetTrusted(err)
		return Response{Error: trsErr.Error()}, trsErr.Status
	}

	return Response{Error: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError
}
