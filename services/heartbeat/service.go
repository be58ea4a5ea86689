package heartbeat

import (
	"context"
	"time"

	"envmon-go/bus"
	"envmon-go/logsink"
	"envmon-go/services/monitor"
	"envmon-go/types"
	"envmon-go/x/timex"
)

// TopicConfig carries {"interval": seconds} and retunes a running service.
var TopicConfig = bus.Topic{"config", "heartbeat"}

// ConfigPayload is the TopicConfig payload for interval d.
func ConfigPayload(d time.Duration) map[string]any {
	return map[string]any{"interval": d.Seconds()}
}

// Service logs a periodic "alive" line carrying the last monitor status, so
// a host on the serial port can tell a quiet device from a dead one.
type Service struct {
	Interval time.Duration
	Log      logsink.Logger
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub, stSub *bus.Subscription) {
	defer conn.Disconnect()

	tick := time.NewTicker(s.Interval)
	defer tick.Stop()

	var last types.MonitorStatus
	var seen bool

	// loop until context is cancelled, respond to tick, status and config changes
	for {
		select {
		case <-ctx.Done():
			s.Log.Debugf("heartbeat service stopping")
			return
		case <-tick.C:
			up := timex.Uptime().Truncate(time.Second)
			if !seen {
				s.Log.Infof("alive uptime=%s no cycle yet", up)
				continue
			}
			s.Log.Infof("alive uptime=%s cycle=%d status=%s sensor=%s display=%s",
				up, last.Cycle, last.Status, last.Sensor, last.Display)
		case msg := <-stSub.Channel():
			if st, ok := msg.Payload.(types.MonitorStatus); ok {
				last, seen = st, true
			}
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok && interval > 0 {
						tick.Reset(time.Duration(interval * float64(time.Second)))
						s.Log.Infof("heartbeat interval set to %v seconds", interval)
					}
				}
			}
		}
	}
}

// Start the heartbeat service. Subscriptions are in place when it returns.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.Interval <= 0 {
		s.Interval = 30 * time.Second
	}
	if s.Log == nil {
		s.Log = logsink.Noop()
	}
	cfgSub := conn.Subscribe(TopicConfig)
	stSub := conn.Subscribe(monitor.TopicStatus)
	go s.serviceLoop(ctx, conn, cfgSub, stSub)
	return nil
}
