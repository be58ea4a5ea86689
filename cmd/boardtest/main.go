// cmd/boardtest/main.go
//
// Bench bring-up for a freshly wired board: draws a test card on the panel
// and prints a few raw sensor reads to the console, without the bus, the
// logger task or the monitor loop in the way.
package main

import (
	"context"
	"time"

	"envmon-go/devices/oled"
	"envmon-go/platform"
	"envmon-go/setup"
	"envmon-go/types"
	"envmon-go/x/strconvx"
)

// ---------- Configuration ----------

const (
	bootDelay   = 2 * time.Second
	reads       = 5
	readGap     = 2 * time.Second // DHT22 minimum refresh
	readTimeout = time.Second
)

func main() {
	time.Sleep(bootDelay)
	plan := setup.Selected.WithDefaults()
	if err := plan.Validate(); err != nil {
		println("[boardtest] FAIL plan:", err.Error())
		platform.Halt()
		return
	}
	println("[boardtest] board", plan.Name)

	plat := platform.Default(plan)

	// ---------- Display ----------

	panel := plat.OpenDisplay(plan.Display)
	if err := panel.Init(); err != nil {
		println("[boardtest] FAIL display init:", err.Error())
	} else {
		testCard(panel, plan.Display)
		if err := panel.Flush(); err != nil {
			println("[boardtest] FAIL display flush:", err.Error())
		} else {
			println("[boardtest] ok display: test card shown")
		}
	}

	// ---------- Sensor ----------

	sensor, info, err := plat.OpenSensor(plan.Sensor)
	if err != nil {
		println("[boardtest] FAIL sensor open:", err.Error())
		platform.Halt()
		return
	}
	println("[boardtest] sensor", info.Sensor, "on", info.Bus)

	okCount := 0
	for i := 1; i <= reads; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		r, err := sensor.Read(ctx)
		cancel()
		if err != nil {
			println("[boardtest] read", i, "FAIL:", err.Error())
		} else {
			okCount++
			println("[boardtest] read", i, "temp", strconvx.FormatFixed(float64(r.Temperature), 2),
				"humi", strconvx.FormatFixed(float64(r.Humidity), 2))
		}
		time.Sleep(readGap)
	}
	println("[boardtest] done:", okCount, "of", reads, "reads ok")
	platform.Halt()
}

// testCard fills both status anchors with wide digits and prints the planned
// geometry in between, so a wrong size or offset is obvious at a glance.
func testCard(p *oled.Panel, d setup.DisplayPlan) {
	_ = p.Clear()
	style := types.TextStyle{Color: types.White}
	_ = p.DrawText(types.Point{X: 3, Y: 14}, style, "Temp: 88.88°C")
	_ = p.DrawText(types.Point{X: 3, Y: 50}, style, "Humi: 88.88%")
	_ = p.DrawText(types.Point{X: 3, Y: 32}, style, strconvx.FormatUint(uint64(d.Width))+"x"+strconvx.FormatUint(uint64(d.Height)))
}
