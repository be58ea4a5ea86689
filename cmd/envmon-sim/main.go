//go:build !(rp2040 || rp2350)

// envmon-sim runs the monitor on the host with a simulated sensor and an
// in-memory panel, for exercising the loop and its failure paths without a
// board.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"envmon-go/app"
	"envmon-go/devices/framebuf"
	"envmon-go/platform"
)

func main() {
	cfg, err := Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "envmon-sim:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunFor)
		defer cancel()
	}

	host := &platform.Host{
		SimConfig:    cfg.Sensor,
		FrameConfig:  framebuf.Config{FailEvery: cfg.DisplayFailEvery},
		InitFailures: cfg.DisplayInitFaults,
	}
	if cfg.Render {
		host.FrameConfig.Out = os.Stdout
	}
	hb := make(chan time.Duration, 1)
	host.Heartbeat = hb
	cfg.WatchHeartbeat(hb)

	if err := app.Run(ctx, cfg.Plan, host); err != nil {
		fmt.Fprintln(os.Stderr, "envmon-sim:", err)
		os.Exit(1)
	}
}
