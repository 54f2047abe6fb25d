// Pub/sub: two SDK instances on one loopback bus. The publisher's periodic
// timer publishes a reading on temperature/outside; the subscriber observes
// the temperature/ prefix and logs whatever arrives.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/project-ocre/ocre-sdk-go"
	"github.com/project-ocre/ocre-sdk-go/host/simhost"
)

const (
	timerID     = 2
	topic       = "temperature/outside"
	observed    = "temperature/"
	contentType = "text/plain"
)

func main() {
	bus := simhost.NewBus()
	pub := ocre.New(simhost.New(simhost.WithBus(bus)))
	sub := ocre.New(simhost.New(simhost.WithBus(bus)))

	err := sub.RegisterMessageCallback(observed, func(topic, contentType string, payload []byte) {
		slog.Info("received", "topic", topic, "content_type", contentType, "payload", string(payload))
	})
	if err != nil {
		slog.Error("register message callback", "err", err)
		os.Exit(1)
	}
	if err := sub.Subscribe(observed); err != nil {
		slog.Error("subscribe", "err", err)
		os.Exit(1)
	}

	count := 0
	err = pub.RegisterTimerCallback(timerID, func() {
		count++
		payload := fmt.Sprintf("%.1f", 20.0+float64(count%10)/2)
		if err := pub.Publish(topic, contentType, []byte(payload)); err != nil {
			slog.Error("publish", "err", err)
			return
		}
		slog.Info("published", "topic", topic, "payload", payload)
	})
	if err != nil {
		slog.Error("register timer callback", "err", err)
		os.Exit(1)
	}
	if err := pub.TimerCreate(timerID); err != nil {
		slog.Error("create timer", "err", err)
		os.Exit(1)
	}
	if err := pub.TimerStart(timerID, time.Second, true); err != nil {
		slog.Error("start timer", "err", err)
		os.Exit(1)
	}

	go func() {
		for {
			pub.ProcessEvents()
		}
	}()
	for {
		sub.ProcessEvents()
	}
}
