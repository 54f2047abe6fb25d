// Package config provides the scenario configuration for the simulated host.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Pin describes the initial state of one virtual pin.
type Pin struct {
	// Port is the GPIO port number.
	Port int `yaml:"port"`
	// Pin is the GPIO pin number within the port.
	Pin int `yaml:"pin"`
	// State is the initial level, 0 or 1.
	State int `yaml:"state"`
}

// Button scripts one press/release cycle on a virtual pin. The press drives
// the pin low (active low, like the board samples) and the release returns
// it high.
type Button struct {
	// Port is the GPIO port number.
	Port int `yaml:"port"`
	// Pin is the GPIO pin number within the port.
	Pin int `yaml:"pin"`
	// PressAfterMS is when the press happens, relative to scenario start.
	PressAfterMS int `yaml:"press_after_ms"`
	// HoldMS is how long the button is held before release.
	HoldMS int `yaml:"hold_ms"`
}

// Channel describes one readable channel of a simulated sensor.
type Channel struct {
	// Type is the channel type code the application asks for.
	Type int `yaml:"type"`
	// Value is the reading the simulator reports.
	Value float64 `yaml:"value"`
}

// Sensor describes one simulated sensor.
type Sensor struct {
	// ID is the sensor id.
	ID int `yaml:"id"`
	// Name is the human-readable sensor name.
	Name string `yaml:"name"`
	// Channels are the readable channels.
	Channels []Channel `yaml:"channels"`
}

// Scenario is a simulator scenario: the virtual hardware a demo runs against.
type Scenario struct {
	// Pins are initial pin states.
	Pins []Pin `yaml:"pins"`
	// Buttons are scripted press/release cycles.
	Buttons []Button `yaml:"buttons"`
	// Sensors are the simulated sensors.
	Sensors []Sensor `yaml:"sensors"`
}

// ErrScenarioExt indicates the scenario file extension is not yaml.
var ErrScenarioExt = errors.New(`ocre: the extension of the scenario file is incorrect, it should be ".yaml|.yml"`)

// ParseScenarioFile parses and validates the scenario at path.
func ParseScenarioFile(path string) (Scenario, error) {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return Scenario{}, ErrScenarioExt
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}

	return ParseScenario(buf)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(buf []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(buf, &sc); err != nil {
		return sc, err
	}
	if err := validateScenario(&sc); err != nil {
		return sc, err
	}
	return sc, nil
}

func validateScenario(sc *Scenario) error {
	for _, p := range sc.Pins {
		if p.Port < 0 || p.Pin < 0 {
			return fmt.Errorf("ocre: negative pin %d or port %d in scenario", p.Pin, p.Port)
		}
		if p.State != 0 && p.State != 1 {
			return fmt.Errorf("ocre: pin state must be 0 or 1, got %d", p.State)
		}
	}
	for _, b := range sc.Buttons {
		if b.Port < 0 || b.Pin < 0 {
			return fmt.Errorf("ocre: negative pin %d or port %d in button script", b.Pin, b.Port)
		}
		if b.PressAfterMS < 0 || b.HoldMS < 0 {
			return fmt.Errorf("ocre: negative timing in button script for pin %d port %d", b.Pin, b.Port)
		}
	}
	seen := make(map[int]struct{}, len(sc.Sensors))
	for _, s := range sc.Sensors {
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("ocre: duplicate sensor id %d in scenario", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
