package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
)

func TestBuildPlannerPrompt(t *testing.T) {
	prompt := application.BuildPlannerPrompt("Kitchen Light 1, Office Lamp")

	assert.Contains(t, prompt, "Available devices: Kitchen Light 1, Office Lamp")
	assert.Contains(t, prompt, `one of "on", "off", or "brightness"`)
	assert.Contains(t, prompt, `"set living room to 50%"`)
	assert.Contains(t, prompt, "Return ONLY valid JSON, nothing else.")
}

func TestDecodeActions(t *testing.T) {
	actions, err := application.DecodeActions(`[
		{"device": "Kitchen Light 1", "action": "on"},
		{"device": "Office Lamp", "action": "brightness", "brightness": 50}
	]`)
	require.NoError(t, err)
	require.Len(t, actions, 2)

	assert.Equal(t, "Kitchen Light 1", actions[0].Device)
	assert.Nil(t, actions[0].Brightness)
	require.NotNil(t, actions[1].Brightness)
	assert.Equal(t, 50, *actions[1].Brightness)
}

func TestDecodeActions_Empty(t *testing.T) {
	actions, err := application.DecodeActions(" [] ")
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestDecodeActions_Malformed(t *testing.T) {
	replies := map[string]string{
		"prose":          `Sure! Here you go: [{"device": "x", "action": "on"}]`,
		"fenced":         "```json\n[{\"device\": \"x\", \"action\": \"on\"}]\n```",
		"object":         `{"device": "x", "action": "on"}`,
		"null":           `null`,
		"trailing":       `[{"device": "x", "action": "on"}] done`,
		"missing device": `[{"action": "on"}]`,
		"missing action": `[{"device": "x"}]`,
		"bad brightness": `[{"device": "x", "action": "brightness", "brightness": "high"}]`,
		"empty":          ``,
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			_, err := application.DecodeActions(reply)
			assert.ErrorIs(t, err, domain.ErrPlannerParse)
		})
	}
}

func TestToActions(t *testing.T) {
	level := 150

	actions, err := application.ToActions([]application.PlannedAction{
		{Device: "a", Action: "on"},
		{Device: "b", Action: "off"},
		{Device: "c", Action: "brightness", Brightness: &level},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Action{
		domain.TurnOn{Device: "a"},
		domain.TurnOff{Device: "b"},
		domain.SetBrightness{Device: "c", Level: 150},
	}, actions)
}

func TestToActions_Errors(t *testing.T) {
	_, err := application.ToActions([]application.PlannedAction{
		{Device: "a", Action: "on"},
		{Device: "b", Action: "dim"},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
	assert.Contains(t, err.Error(), "action 2")

	_, err = application.ToActions([]application.PlannedAction{{Device: "a", Action: "brightness"}})
	assert.ErrorIs(t, err, domain.ErrMissingField)
}
