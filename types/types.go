package types

// ---- Monitor state (retained on monitor/status) ----

// Link is the health reported for a collaborator.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

// String lets the MCU formatter print a Link; it has no reflection.
func (l Link) String() string { return string(l) }

// MonitorStatus summarises the latest cycle.
type MonitorStatus struct {
	Cycle           uint32 `json:"cycle"`
	Status          string `json:"status"` // "ok", "sensor_error", "format_error", "display_error"
	Sensor          Link   `json:"sensor"`
	Display         Link   `json:"display"`
	SensorFailures  uint32 `json:"sensor_failures"`  // consecutive
	DisplayFailures uint32 `json:"display_failures"` // consecutive
	Error           string `json:"error,omitempty"`
	TS              int64  `json:"ts_ms"` // uptime
}
