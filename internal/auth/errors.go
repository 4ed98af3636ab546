package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/naveenspark/shopfront/pkg/client"
)

var (
	// ErrNetwork means the server could not be reached or answered with a
	// server-side failure or a malformed response.
	ErrNetwork = errors.New("network error")
	// ErrInvalidCredentials means the server rejected a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation means the input was rejected, locally or by the server
	// (e.g. an email that is already registered).
	ErrValidation = errors.New("validation failed")
	// ErrNotAdmin is returned by LoginAdmin for a valid non-admin account.
	ErrNotAdmin = errors.New("account is not an administrator")
)

// Status codes the server uses to reject a request's input. Any other
// failure, 429 and 408 included, is reported as ErrNetwork.
var (
	loginRejected    = []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound}
	registerRejected = []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity}
)

// classify maps an API error to one of the sentinel kinds. rejected is the
// kind used when the status is one of codes.
func classify(op string, err error, rejected error, codes []int) error {
	if slices.Contains(codes, client.StatusCode(err)) {
		return fmt.Errorf("%s: %w: %w", op, rejected, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
}

// validationError turns validator output into one readable ErrValidation.
func validationError(op string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%s: %w: %s", op, ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return field + " is too long"
	case "eqfield":
		return "passwords do not match"
	default:
		return field + " is invalid"
	}
}
