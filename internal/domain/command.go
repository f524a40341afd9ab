package domain

import (
	"fmt"
	"strings"
)

type ActionKind string

const (
	ActionTurnOn     ActionKind = "on"
	ActionTurnOff    ActionKind = "off"
	ActionBrightness ActionKind = "brightness"
)

// Action is a planned control instruction against one device name or
// fragment. The concrete variants are TurnOn, TurnOff and SetBrightness.
type Action interface {
	Target() string
	Kind() ActionKind
	// Characteristic is the single write the action translates to.
	Characteristic() (name string, value int)
}

type TurnOn struct {
	Device string
}

func (a TurnOn) Target() string                { return a.Device }
func (a TurnOn) Kind() ActionKind              { return ActionTurnOn }
func (a TurnOn) Characteristic() (string, int) { return CharacteristicOn, 1 }
func (a TurnOn) String() string                { return fmt.Sprintf("turn on %q", a.Device) }

type TurnOff struct {
	Device string
}

func (a TurnOff) Target() string                { return a.Device }
func (a TurnOff) Kind() ActionKind              { return ActionTurnOff }
func (a TurnOff) Characteristic() (string, int) { return CharacteristicOn, 0 }
func (a TurnOff) String() string                { return fmt.Sprintf("turn off %q", a.Device) }

type SetBrightness struct {
	Device string
	Level  int
}

func (a SetBrightness) Target() string   { return a.Device }
func (a SetBrightness) Kind() ActionKind { return ActionBrightness }

func (a SetBrightness) Characteristic() (string, int) {
	return CharacteristicBrightness, ClampBrightness(a.Level)
}

func (a SetBrightness) String() string {
	return fmt.Sprintf("set %q brightness to %d%%", a.Device, ClampBrightness(a.Level))
}

// ClampBrightness pins a level into [0,100].
func ClampBrightness(level int) int {
	return max(0, min(level, 100))
}

// NewAction builds the variant named by kind. brightness is only consulted
// for the brightness kind, where it is required.
func NewAction(device, kind string, brightness *int) (Action, error) {
	switch ActionKind(strings.ToLower(strings.TrimSpace(kind))) {
	case ActionTurnOn:
		return TurnOn{Device: device}, nil
	case ActionTurnOff:
		return TurnOff{Device: device}, nil
	case ActionBrightness:
		if brightness == nil {
			return nil, fmt.Errorf("%w: brightness action on %q requires a brightness value", ErrMissingField, device)
		}
		return SetBrightness{Device: device, Level: *brightness}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
}
