// Blinky: the classic first sample. A periodic host timer drives a callback
// that toggles a software LED and logs each transition. Runs against the
// in-process simulator; on a device, construct the SDK over wasmhost.New()
// instead.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/project-ocre/ocre-sdk-go"
	"github.com/project-ocre/ocre-sdk-go/host/simhost"
)

const (
	timerID  = 1
	interval = time.Second
)

func main() {
	sdk := ocre.New(simhost.New())

	count := 0
	state := false
	err := sdk.RegisterTimerCallback(timerID, func() {
		count++
		state = !state
		slog.Info("blink", "count", count, "on", state)
	})
	if err != nil {
		slog.Error("register timer callback", "err", err)
		os.Exit(1)
	}

	if err := sdk.TimerCreate(timerID); err != nil {
		slog.Error("create timer", "err", err)
		os.Exit(1)
	}
	if err := sdk.TimerStart(timerID, interval, true); err != nil {
		slog.Error("start timer", "err", err)
		os.Exit(1)
	}
	slog.Info("blinking started", "timer", timerID, "interval", interval)

	for {
		sdk.ProcessEvents()
	}
}
