package domain

import (
	"encoding/json"
	"fmt"
)

type DeviceType string

const (
	DeviceTypeLightbulb DeviceType = "Lightbulb"
	DeviceTypeSwitch    DeviceType = "Switch"
	DeviceTypeOutlet    DeviceType = "Outlet"
)

// Controllable reports whether the hub accepts On/Brightness writes for this kind.
func (t DeviceType) Controllable() bool {
	switch t {
	case DeviceTypeLightbulb, DeviceTypeSwitch, DeviceTypeOutlet:
		return true
	default:
		return false
	}
}

const (
	CharacteristicOn         = "On"
	CharacteristicBrightness = "Brightness"
)

// Accessory is one entry of the hub's accessory list as fetched at startup.
type Accessory struct {
	ID          string
	Name        string
	Type        DeviceType
	DisplayType string
	State       map[string]CharacteristicValue
}

// Power returns the cached On characteristic, if the hub reported one.
func (a Accessory) Power() (PowerState, bool) {
	v, ok := a.State[CharacteristicOn].(PowerState)
	return v, ok
}

// Brightness returns the cached Brightness characteristic, if the hub reported one.
func (a Accessory) Brightness() (Percentage, bool) {
	v, ok := a.State[CharacteristicBrightness].(Percentage)
	return v, ok
}

// CharacteristicValue is the last known value of one characteristic.
// The known variants are PowerState and Percentage; anything else is kept
// as Unrecognized.
type CharacteristicValue interface {
	isCharacteristicValue()
	String() string
}

type PowerState bool

func (PowerState) isCharacteristicValue() {}

func (p PowerState) String() string {
	if p {
		return "[ON]"
	}
	return "[OFF]"
}

type Percentage int

func (Percentage) isCharacteristicValue() {}

func (p Percentage) String() string {
	return fmt.Sprintf("%d%%", int(p))
}

type Unrecognized struct {
	Raw json.RawMessage
}

func (Unrecognized) isCharacteristicValue() {}

func (u Unrecognized) String() string {
	return string(u.Raw)
}

// DecodeCharacteristic maps a raw hub value to its typed variant. Values that
// do not fit the known shape of their characteristic fall back to Unrecognized.
func DecodeCharacteristic(name string, raw json.RawMessage) CharacteristicValue {
	switch name {
	case CharacteristicOn:
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return PowerState(b)
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return PowerState(n == 1)
		}
	case CharacteristicBrightness:
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return Percentage(int(n))
		}
	}
	return Unrecognized{Raw: raw}
}
