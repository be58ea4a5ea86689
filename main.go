package main

import (
	"context"

	"envmon-go/app"
	"envmon-go/platform"
	"envmon-go/setup"
)

func main() {
	println("[main] envmon", app.Version, "board", setup.Selected.Name)

	plat := platform.Default(setup.Selected)
	if err := app.Run(context.Background(), setup.Selected, plat); err != nil {
		println("[main] stopped:", err.Error())
	}
	platform.Halt()
}
