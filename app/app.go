// Package app wires the tasks together: the logger task owns the serial
// transport, the monitor loop owns the sensor and display, and the bus is the
// only thing they share.
package app

import (
	"context"
	"io"
	"time"

	"envmon-go/bus"
	"envmon-go/devices/oled"
	"envmon-go/errcode"
	"envmon-go/logsink"
	"envmon-go/services/heartbeat"
	"envmon-go/services/logger"
	"envmon-go/services/monitor"
	"envmon-go/setup"
	"envmon-go/types"
	"envmon-go/x/timex"
)

const Version = "0.3.0"

var TopicSensorInfo = bus.Topic{"env", "info"}

// Platform builds the board-specific collaborators.
type Platform interface {
	// LogWriters are the transports the logger task writes to, USB first.
	LogWriters() []io.Writer
	OpenSensor(p setup.SensorPlan) (monitor.Sensor, types.SensorInfo, error)
	// OpenDisplay returns a panel that has not been initialised yet.
	OpenDisplay(p setup.DisplayPlan) *oled.Panel
}

// HeartbeatTuner is implemented by platforms that can change the heartbeat
// interval while running, e.g. the simulator watching its config file.
type HeartbeatTuner interface {
	HeartbeatUpdates() <-chan time.Duration
}

// Run validates plan, starts the logger and heartbeat tasks and runs the
// monitor loop on the calling goroutine until ctx is done. It only returns
// early for an invalid plan.
func Run(ctx context.Context, plan setup.Plan, plat Platform) error {
	plan = plan.WithDefaults()
	if err := plan.Validate(); err != nil {
		println("[app] invalid plan:", err.Error())
		return err
	}

	// Let USB CDC enumerate so the banner is not lost.
	if !timex.Sleep(ctx.Done(), plan.BootDelay) {
		return ctx.Err()
	}

	b := bus.NewBus(32)

	logSvc := logger.New(logger.Config{MinLevel: plan.Level()}, plat.LogWriters()...)
	if err := logSvc.Start(ctx, b.NewConnection("logger")); err != nil {
		println("[app] logger start failed:", err.Error())
	}

	log := logsink.New(b.NewConnection("app"), "app")
	log.SetLevel(plan.Level())
	log.Infof("envmon %s on %s: sensor=%s display=%dx%d@0x%x period=%s",
		Version, plan.Name, plan.Sensor.Kind, plan.Display.Width, plan.Display.Height, plan.Display.Addr, plan.Period)

	if plan.Heartbeat > 0 {
		hb := &heartbeat.Service{Interval: plan.Heartbeat, Log: log.With("heartbeat")}
		_ = hb.Start(ctx, b.NewConnection("heartbeat"))
		if t, ok := plat.(HeartbeatTuner); ok {
			go forwardHeartbeat(ctx, b.NewConnection("app.config"), t.HeartbeatUpdates())
		}
	}

	sensor, info, err := plat.OpenSensor(plan.Sensor)
	if err != nil {
		// Keep looping: every cycle reports the failure and shows placeholders.
		log.Errorf("sensor %s unavailable: %v", plan.Sensor.Kind, err)
		sensor = failedSensor{err: errcode.Sensor("sensor.open", err)}
	} else {
		log.Infof("sensor %s on %s ready", info.Sensor, info.Bus)
		pub := b.NewConnection("app.info")
		pub.Publish(pub.NewMessage(TopicSensorInfo, info, true))
	}

	panel := plat.OpenDisplay(plan.Display)
	if err := panel.Init(); err != nil {
		log.Errorf("display init failed, retrying on flush: %v", err)
	} else {
		log.Infof("display ready")
	}

	cfg := monitor.DefaultConfig()
	cfg.Period = plan.Period
	cfg.StepTimeout = plan.StepTimeout
	mon := monitor.New(cfg, sensor, panel, log.With("monitor"), b.NewConnection("monitor"))

	err = mon.Run(ctx)
	log.Infof("monitor stopped: %v", err)
	logSvc.Wait()
	return nil
}

// forwardHeartbeat publishes interval changes as retained heartbeat config.
func forwardHeartbeat(ctx context.Context, conn *bus.Connection, updates <-chan time.Duration) {
	defer conn.Disconnect()
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-updates:
			if !ok {
				return
			}
			if d > 0 {
				conn.Publish(conn.NewMessage(heartbeat.TopicConfig, heartbeat.ConfigPayload(d), true))
			}
		}
	}
}

type failedSensor struct{ err error }

func (f failedSensor) Read(context.Context) (types.Reading, error) {
	return types.Reading{}, f.err
}
