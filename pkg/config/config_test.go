package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
pins:
  - port: 7
    pin: 7
    state: 1
buttons:
  - port: 2
    pin: 13
    press_after_ms: 500
    hold_ms: 200
sensors:
  - id: 0
    name: sim-temp
    channels:
      - type: 13
        value: 21.5
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(testScenario))
	require.NoError(t, err)

	require.Len(t, sc.Pins, 1)
	assert.Equal(t, 7, sc.Pins[0].Port)
	assert.Equal(t, 1, sc.Pins[0].State)

	require.Len(t, sc.Buttons, 1)
	assert.Equal(t, 13, sc.Buttons[0].Pin)
	assert.Equal(t, 500, sc.Buttons[0].PressAfterMS)

	require.Len(t, sc.Sensors, 1)
	assert.Equal(t, "sim-temp", sc.Sensors[0].Name)
	require.Len(t, sc.Sensors[0].Channels, 1)
	assert.Equal(t, 21.5, sc.Sensors[0].Channels[0].Value)
}

func TestParseScenarioValidation(t *testing.T) {
	_, err := ParseScenario([]byte("pins:\n  - {port: 0, pin: 0, state: 3}\n"))
	assert.Error(t, err)

	_, err = ParseScenario([]byte("buttons:\n  - {port: -1, pin: 0}\n"))
	assert.Error(t, err)

	_, err = ParseScenario([]byte("sensors:\n  - {id: 1}\n  - {id: 1}\n"))
	assert.Error(t, err)
}

func TestParseScenarioFile(t *testing.T) {
	_, err := ParseScenarioFile("scenario.json")
	assert.ErrorIs(t, err, ErrScenarioExt)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScenario), 0o644))

	sc, err := ParseScenarioFile(path)
	require.NoError(t, err)
	assert.Len(t, sc.Buttons, 1)
}
