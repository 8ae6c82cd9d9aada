package taskhubsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ParamD12/taskhub-app/pkg/httpx"
)

// Error codes returned by the TaskHub API.
const (
	ErrorCodeValidation           = "validation_error"
	ErrorCodeUnauthenticated      = "unauthenticated"
	ErrorCodeInvalidCredentials   = "invalid_credentials"
	ErrorCodeAlreadyRegistered    = "already_registered"
	ErrorCodeAlreadyAuthenticated = "already_authenticated"
	ErrorCodeSessionExpired       = "session_expired"
	ErrorCodeConfirmation         = "confirmation_required"
	ErrorCodeNotFound             = "not_found"
	ErrorCodeTaskPending          = "task_pending"
	ErrorCodeForbidden            = "forbidden"
	ErrorCodeLoadingTimeout       = "loading_timeout"
	ErrorCodeRateLimited          = "rate_limit_exceeded"
	ErrorCodeUpstream             = "upstream_error"
)

// APIError is a failed API call.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
	Redirect   string

	// RetryAfter is set from the Retry-After header on 429 and 503.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("taskhub: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er httpx.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Code != "" {
		apiErr.Code = er.Code
		apiErr.Message = er.Message
		apiErr.Details = er.Details
		apiErr.Redirect = er.Redirect
	} else {
		apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
		apiErr.Message = strings.TrimSpace(string(body))
	}

	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		apiErr.RetryAfter = time.Duration(secs) * time.Second
	}
	return apiErr
}
