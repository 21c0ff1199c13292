package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
)

// detailResponse mirrors the error body shape the Alveera backend returns:
// a single human-readable "detail" field.
type detailResponse struct {
	Detail string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the body carries a "detail" field, that
// message is preserved for display; otherwise the fallback message is used.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, fallback string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return mapResponseError(resp.StatusCode, fallback)
	}

	var body detailResponse
	if json.Unmarshal(bodyBytes, &body) == nil && strings.TrimSpace(body.Detail) != "" {
		return mapResponseError(resp.StatusCode, body.Detail)
	}

	return mapResponseError(resp.StatusCode, fallback)
}

// mapResponseError translates an HTTP status code and display message into an
// AppError that preserves the error semantics.
func mapResponseError(status int, message string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  status,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case status == http.StatusConflict:
		return apperrors.Conflict(message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: message,
			Status:  status,
			Err:     apperrors.ErrServiceUnavail,
		}
	case status >= 500:
		return &apperrors.AppError{
			Code:    "SERVER_ERROR",
			Message: message,
			Status:  status,
			Err:     fmt.Errorf("server returned status %d", status),
		}
	default:
		return &apperrors.AppError{
			Code:    "REQUEST_FAILED",
			Message: message,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
// Client errors should not be retried: the request itself was invalid.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
