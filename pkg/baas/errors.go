package baas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Error codes the identity and row APIs are known to return.
const (
	ErrorCodeInvalidGrant       = "invalid_grant"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUserNotFound       = "user_not_found"
	ErrorCodeUserAlreadyExists  = "user_already_exists"
	ErrorCodeWeakPassword       = "weak_password"
	ErrorCodeSessionNotFound    = "session_not_found"
	ErrorCodeBadJWT             = "bad_jwt"
	ErrorCodeUniqueViolation    = "23505"
)

var ErrNoSession = errors.New("baas: session is signed out")

// APIError is a non-2xx response from either API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("baas: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("baas: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// errorBody covers the identity API shapes ({error,error_description} and
// {code,error_code,msg}) and the row API shape ({code,message,details,hint}).
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Details          json.RawMessage `json:"details"`
	Hint             string          `json:"hint"`
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	switch {
	case eb.ErrorCode != "":
		apiErr.Code = eb.ErrorCode
	case eb.Error != "":
		apiErr.Code = eb.Error
	default:
		apiErr.Code = rawString(eb.Code)
	}

	apiErr.Message = firstNonEmpty(eb.Msg, eb.ErrorDescription, eb.Message, http.StatusText(resp.StatusCode))
	apiErr.Details = firstNonEmpty(rawString(eb.Details), eb.Hint)
	return apiErr
}

// rawString renders a JSON string or number without quotes. Numeric codes
// from the identity API duplicate the HTTP status, so they are dropped.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if _, err := strconv.Atoi(string(raw)); err == nil {
		return ""
	}
	return string(raw)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
