package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"smart-home-agent/internal/domain"
)

// Planner turns a free-form order into a list of actions. devices is the
// comma-joined list of controllable accessory names.
type Planner interface {
	Plan(ctx context.Context, order, devices string) ([]PlannedAction, error)
}

// PlannedAction is one element of the model reply, before it is checked
// against the known action kinds.
type PlannedAction struct {
	Device     string `json:"device"`
	Action     string `json:"action"`
	Brightness *int   `json:"brightness,omitempty"`
}

func (p PlannedAction) String() string {
	if p.Brightness != nil {
		return fmt.Sprintf("%s %q (brightness %d)", p.Action, p.Device, *p.Brightness)
	}
	return fmt.Sprintf("%s %q", p.Action, p.Device)
}

// BuildPlannerPrompt returns the fixed system instruction sent with every order.
func BuildPlannerPrompt(devices string) string {
	return fmt.Sprintf(`You are a smart home automation assistant. Your job is to parse natural language commands and convert them to JSON actions.

Available devices: %s

Return ONLY a JSON array of actions, with NO additional text. Each action must have:
- "device": exact device name from the list above (use partial matching if needed)
- "action": one of "on", "off", or "brightness"
- "brightness": optional number 0-100 (only for brightness action)

Examples:
Input: "turn on kitchen lights"
Output: [{"device": "Kuechentisch Licht 1", "action": "on"}, {"device": "Kuechentisch Licht 2", "action": "on"}]

Input: "set living room to 50%%"
Output: [{"device": "Wohnzimmer Deckenlampe", "action": "brightness", "brightness": 50}]

Input: "lights off in office"
Output: [{"device": "Arbeitszimmer Deckenlampe", "action": "off"}]

Return ONLY valid JSON, nothing else.`, devices)
}

// DecodeActions parses a model reply that must be a bare JSON array of
// actions. There is no repair pass: fences, prose or trailing text fail.
func DecodeActions(text string) ([]PlannedAction, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	var actions []PlannedAction
	if err := dec.Decode(&actions); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPlannerParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON array", domain.ErrPlannerParse)
	}
	if actions == nil {
		return nil, fmt.Errorf("%w: reply is not a JSON array", domain.ErrPlannerParse)
	}

	for i, a := range actions {
		if a.Device == "" {
			return nil, fmt.Errorf("%w: action %d has no device", domain.ErrPlannerParse, i+1)
		}
		if a.Action == "" {
			return nil, fmt.Errorf("%w: action %d has no action", domain.ErrPlannerParse, i+1)
		}
	}

	return actions, nil
}

// ToActions converts planned actions into their typed variants. Any unknown
// kind or missing brightness fails the whole list, so nothing executes.
func ToActions(planned []PlannedAction) ([]domain.Action, error) {
	actions := make([]domain.Action, 0, len(planned))
	for i, p := range planned {
		a, err := domain.NewAction(p.Device, p.Action, p.Brightness)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
