package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrDiscovery      = errors.New("device discovery failed")
	ErrDeviceNotFound = errors.New("device not found")
	ErrUnknownAction  = errors.New("unknown action")
	ErrMissingField   = errors.New("missing required field")
	ErrPlannerParse   = errors.New("failed to parse actions from model reply")
	ErrCredentials    = errors.New("failed to load credentials")
	ErrExternalCall   = errors.New("external call failed")
)

// DeviceNotFoundError is returned when a query resolves to zero or several
// accessories. Candidates holds the names that matched in the ambiguous case.
type DeviceNotFoundError struct {
	Query      string
	Candidates []string
}

func (e *DeviceNotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("device not found: %s", e.Query)
	}
	return fmt.Sprintf("device not found: %s (ambiguous, matches %s)", e.Query, strings.Join(e.Candidates, ", "))
}

func (e *DeviceNotFoundError) Is(target error) bool {
	return target == ErrDeviceNotFound
}

// Ambiguous reports whether more than one accessory matched.
func (e *DeviceNotFoundError) Ambiguous() bool {
	return len(e.Candidates) > 1
}
