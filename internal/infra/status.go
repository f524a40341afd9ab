package infra

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"smart-home-agent/internal/domain"
)

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 4 << 10

// StatusError is a non-2xx answer from a remote API.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error %d", e.Service, e.Code)
	}
	return fmt.Sprintf("%s API error %d: %s", e.Service, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == domain.ErrExternalCall
}

// CheckResponse returns a *StatusError for any non-2xx response. The body is
// drained up to maxErrorBody so it can be reported.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Service: service, Code: resp.StatusCode, Body: string(body)}
}

// NewHTTPClient returns the client shared by the hub and model adapters.
// A zero timeout leaves the transport default in place.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
