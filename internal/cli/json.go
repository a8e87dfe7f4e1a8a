package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
// These map to specific actions a script can take.
const (
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "CONFIG_INVALID"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeRemoteFailed     = "REMOTE_FAILED"
	ErrCodeNetworkFailed    = "NETWORK_FAILED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeCommandFailed    = "COMMAND_FAILED"
	ErrCodeUnknown          = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	env := JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	}
	return writeJSONEnvelope(w, env)
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	// Check if it's our structured error type
	var sErr *errors.Error
	if stderrors.As(err, &sErr) {
		out := &JSONError{
			Code:       mapErrorCode(sErr),
			Message:    sErr.Message,
			Suggestion: sErr.Suggestion,
		}
		if sErr.Cause != nil {
			out.Details = causeDetails(sErr.Cause)
		}
		return out
	}

	// Generic error
	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(e *errors.Error) string {
	switch e.Code {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(e.Message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "no config") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrRemote:
		if api.IsNotFound(e.Cause) {
			return ErrCodeNotFound
		}
		return ErrCodeRemoteFailed
	case errors.ErrNetwork:
		return ErrCodeNetworkFailed
	case errors.ErrValidation:
		return ErrCodeValidationFailed
	case errors.ErrExec:
		return ErrCodeCommandFailed
	}

	return ErrCodeUnknown
}

// causeDetails exposes what a script needs from the underlying failure.
func causeDetails(cause error) map[string]interface{} {
	details := map[string]interface{}{"cause": cause.Error()}

	var remote *api.RemoteRequestError
	if stderrors.As(cause, &remote) {
		details["status"] = remote.StatusCode
		details["statusText"] = remote.Status
		details["path"] = remote.Path
	}

	var validation *api.ValidationError
	if stderrors.As(cause, &validation) {
		details["problems"] = validation.Problems
	}
	return details
}
