// Button blinky: a GPIO callback reads the button pin back on every edge and
// toggles the LED on each press. The press/release cycles come from a
// scripted scenario, standing in for a finger on the board's user button.
//
// The debounce logic lives entirely in the callback; the SDK delivers every
// edge it is told about.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/project-ocre/ocre-sdk-go"
	"github.com/project-ocre/ocre-sdk-go/host"
	"github.com/project-ocre/ocre-sdk-go/host/simhost"
	"github.com/project-ocre/ocre-sdk-go/pkg/config"
)

const (
	ledPort    = 7
	ledPin     = 7
	buttonPort = 2
	buttonPin  = 13
)

func main() {
	sim := simhost.New()
	sdk := ocre.New(sim)

	if err := sdk.GPIOInit(); err != nil {
		slog.Error("gpio init", "err", err)
		os.Exit(1)
	}
	if err := sdk.GPIOConfigure(ledPort, ledPin, host.DirOutput); err != nil {
		slog.Error("configure led", "err", err)
		os.Exit(1)
	}
	if err := sdk.GPIOConfigure(buttonPort, buttonPin, host.DirInput); err != nil {
		slog.Error("configure button", "err", err)
		os.Exit(1)
	}

	pressed := false
	err := sdk.RegisterGPIOCallback(buttonPin, buttonPort, func() {
		state, err := sdk.GPIOGet(buttonPort, buttonPin)
		if err != nil {
			slog.Error("read button", "err", err)
			return
		}
		// Active low: a falling edge is a press, the rising edge re-arms.
		if state == host.PinReset && !pressed {
			pressed = true
			if err := sdk.GPIOToggle(ledPort, ledPin); err != nil {
				slog.Error("toggle led", "err", err)
				return
			}
			led, _ := sdk.GPIOGet(ledPort, ledPin)
			slog.Info("button pressed", "led_on", led == host.PinSet)
		} else if state == host.PinSet {
			pressed = false
		}
	})
	if err != nil {
		slog.Error("register gpio callback", "err", err)
		os.Exit(1)
	}

	// Idle high, then three scripted presses.
	sim.TriggerPin(buttonPort, buttonPin, host.PinSet)
	stop := sim.RunButtonScript([]config.Button{
		{Port: buttonPort, Pin: buttonPin, PressAfterMS: 500, HoldMS: 200},
		{Port: buttonPort, Pin: buttonPin, PressAfterMS: 1500, HoldMS: 200},
		{Port: buttonPort, Pin: buttonPin, PressAfterMS: 2500, HoldMS: 200},
	})
	defer stop()

	slog.Info("press the button", "port", buttonPort, "pin", buttonPin)
	deadline := time.Now().Add(4 * time.Second)
	for time.Now().Before(deadline) {
		sdk.ProcessEvents()
	}
}
