package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/uptimestars/starsctl/internal/api"
)

// FromAPI converts an error returned by the API client into a structured
// Error with a suggestion. Structured errors pass through unchanged.
func FromAPI(err error) error {
	if err == nil {
		return nil
	}

	var sErr *Error
	if errors.As(err, &sErr) {
		return err
	}

	var validation *api.ValidationError
	if errors.As(err, &validation) {
		return WrapWithCode(err, ErrValidation,
			"Request rejected before sending",
			"Fix the values listed above and try again.")
	}

	var remote *api.RemoteRequestError
	if errors.As(err, &remote) {
		return WrapWithCode(err, ErrRemote,
			fmt.Sprintf("Backend answered %d %s", remote.StatusCode, remote.Status),
			remoteSuggestion(remote))
	}

	var network *api.NetworkError
	if errors.As(err, &network) {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return WrapWithCode(err, ErrNetwork,
				"Backend did not answer in time",
				"Raise api.timeout in your config, or check the backend is healthy.")
		}
		return WrapWithCode(err, ErrNetwork,
			"Couldn't reach the backend",
			"Check api.base_url (or --api-url) and that the backend is running.")
	}

	return Wrap(err, "Command failed")
}

func remoteSuggestion(e *api.RemoteRequestError) string {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return "Check the id exists: 'starsctl monitors list' or 'starsctl events list'."
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return "The backend refused access. Check the proxy or gateway in front of it."
	case e.StatusCode >= 500:
		return "The backend failed. Try again, or check its logs."
	case e.StatusCode >= 400:
		return "The backend rejected the input. Check the values you sent."
	}
	return ""
}
