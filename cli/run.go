package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/project-ocre/ocre-sdk-go"
	"github.com/project-ocre/ocre-sdk-go/core/olog"
	"github.com/project-ocre/ocre-sdk-go/host"
	"github.com/project-ocre/ocre-sdk-go/host/simhost"
	"github.com/project-ocre/ocre-sdk-go/pkg/config"
	"github.com/project-ocre/ocre-sdk-go/pkg/log"
)

var (
	demo     string
	scenario string
	duration time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo application on the simulated host",
	Long:  "Run a demo application (blinky, button or pubsub) against the in-process simulated host. A scenario file describes the virtual hardware: initial pin states, scripted button presses and simulated sensors.",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := loadScenario()
		if err != nil {
			log.FailureStatusEvent(os.Stderr, "%s", err.Error())
			return
		}

		log.InfoStatusEvent(os.Stdout, "Running demo %q for %s...", demo, duration)
		switch demo {
		case "blinky":
			err = runBlinky(sc)
		case "button":
			err = runButton(sc)
		case "pubsub":
			err = runPubsub(sc)
		default:
			err = fmt.Errorf("unknown demo %q, expected blinky, button or pubsub", demo)
		}
		if err != nil {
			log.FailureStatusEvent(os.Stderr, "%s", err.Error())
			return
		}
		log.SuccessStatusEvent(os.Stdout, "Demo %q finished.", demo)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&demo, "demo", "d", "blinky", "demo to run: blinky, button or pubsub")
	runCmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario yaml file describing the virtual hardware")
	runCmd.Flags().DurationVarP(&duration, "duration", "t", 5*time.Second, "how long to run the demo")
}

func loadScenario() (config.Scenario, error) {
	if scenario == "" {
		return config.Scenario{}, nil
	}
	return config.ParseScenarioFile(scenario)
}

// runBlinky drives a software LED from a periodic host timer.
func runBlinky(sc config.Scenario) error {
	sim := simhost.New(simhost.WithScenario(sc))
	sdk := ocre.New(sim)

	const timerID = 1
	count := 0
	on := false
	err := sdk.RegisterTimerCallback(timerID, func() {
		count++
		on = !on
		olog.Info("blink", "count", count, "on", on)
	})
	if err != nil {
		return err
	}
	if err := sdk.TimerCreate(timerID); err != nil {
		return err
	}
	if err := sdk.TimerStart(timerID, time.Second, true); err != nil {
		return err
	}

	loopFor(sdk, duration)
	return nil
}

// runButton toggles an LED on each scripted button press. Without a scenario
// a default three-press script is used.
func runButton(sc config.Scenario) error {
	sim := simhost.New(simhost.WithScenario(sc))
	sdk := ocre.New(sim)

	const (
		ledPort, ledPin       = 7, 7
		buttonPort, buttonPin = 2, 13
	)
	if err := sdk.GPIOInit(); err != nil {
		return err
	}
	if err := sdk.GPIOConfigure(ledPort, ledPin, host.DirOutput); err != nil {
		return err
	}
	if err := sdk.GPIOConfigure(buttonPort, buttonPin, host.DirInput); err != nil {
		return err
	}

	pressed := false
	err := sdk.RegisterGPIOCallback(buttonPin, buttonPort, func() {
		state, err := sdk.GPIOGet(buttonPort, buttonPin)
		if err != nil {
			olog.Error("read button", "err", err)
			return
		}
		if state == host.PinReset && !pressed {
			pressed = true
			if err := sdk.GPIOToggle(ledPort, ledPin); err != nil {
				olog.Error("toggle led", "err", err)
				return
			}
			led, _ := sdk.GPIOGet(ledPort, ledPin)
			olog.Info("button pressed", "led_on", led == host.PinSet)
		} else if state == host.PinSet {
			pressed = false
		}
	})
	if err != nil {
		return err
	}

	sim.TriggerPin(buttonPort, buttonPin, host.PinSet)
	buttons := sc.Buttons
	if len(buttons) == 0 {
		buttons = []config.Button{
			{Port: buttonPort, Pin: buttonPin, PressAfterMS: 500, HoldMS: 200},
			{Port: buttonPort, Pin: buttonPin, PressAfterMS: 1500, HoldMS: 200},
			{Port: buttonPort, Pin: buttonPin, PressAfterMS: 2500, HoldMS: 200},
		}
	}
	stop := sim.RunButtonScript(buttons)
	defer stop()

	loopFor(sdk, duration)
	return nil
}

// runPubsub wires a publisher and a subscriber SDK over one loopback bus.
func runPubsub(sc config.Scenario) error {
	bus := simhost.NewBus()
	pub := ocre.New(simhost.New(simhost.WithBus(bus), simhost.WithScenario(sc)))
	sub := ocre.New(simhost.New(simhost.WithBus(bus)))

	const (
		timerID  = 2
		topic    = "temperature/outside"
		observed = "temperature/"
	)
	err := sub.RegisterMessageCallback(observed, func(topic, contentType string, payload []byte) {
		olog.Info("received", "topic", topic, "content_type", contentType, "payload", string(payload))
	})
	if err != nil {
		return err
	}
	if err := sub.Subscribe(observed); err != nil {
		return err
	}

	count := 0
	err = pub.RegisterTimerCallback(timerID, func() {
		count++
		payload := fmt.Sprintf("%.1f", 20.0+float64(count%10)/2)
		if err := pub.Publish(topic, "text/plain", []byte(payload)); err != nil {
			olog.Error("publish", "err", err)
			return
		}
		olog.Info("published", "topic", topic, "payload", payload)
	})
	if err != nil {
		return err
	}
	if err := pub.TimerCreate(timerID); err != nil {
		return err
	}
	if err := pub.TimerStart(timerID, time.Second, true); err != nil {
		return err
	}

	go loopFor(pub, duration)
	loopFor(sub, duration)
	return nil
}

func loopFor(sdk *ocre.SDK, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		sdk.ProcessEvents()
	}
}
