package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RemoteRequestError is returned when the backend answers with a non-2xx status.
type RemoteRequestError struct {
	Method     string
	Path       string
	StatusCode int
	// Status is the HTTP status text, e.g. "Not Found".
	Status string
	// Body is the first part of the response body, for diagnostics.
	Body string
}

func (e *RemoteRequestError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// NetworkError is returned when no HTTP response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is returned for input rejected before any network call.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var remote *RemoteRequestError
	return errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the validator tags on v and converts failures into
// a ValidationError naming the JSON fields.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	return &ValidationError{Problems: problems}
}

func describeFieldError(fe validator.FieldError) string {
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must not be empty"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s contains an invalid email %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// jsonFieldName lowercases the first letter of a Go field name, which matches
// the backend's camelCase names. Slice elements keep their index suffix.
func jsonFieldName(name string) string {
	if name == "" {
		return name
	}
	if name == "TimeoutInMilliseconds" {
		return "timeoutInMilliseconds"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Problems: []string{kind + " id is required"}}
	}
	return nil
}
