package timex

import "time"

var boot = time.Now()

// Uptime returns the time elapsed since the program started.
func Uptime() time.Duration { return time.Since(boot) }

// ResetTimer re-arms t for d, discarding a pending fire.
func ResetTimer(t *time.Timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.Stop() {
		DrainTimer(t)
	}
	t.Reset(d)
}

// DrainTimer empties t.C without blocking.
func DrainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

// Sleep waits for d or until done is closed. It reports false if done won.
func Sleep(done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-done:
		return false
	case <-t.C:
		return true
	}
}
