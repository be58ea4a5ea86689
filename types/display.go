package types

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Point is a pixel coordinate; for text it is the baseline anchor.
type Point struct {
	X, Y int16
}

// TextStyle selects the font and ink for a text draw.
type TextStyle struct {
	Font  *tinyfont.Font
	Color color.RGBA
}

// White is "pixel on" for monochrome panels.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
