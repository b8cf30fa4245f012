package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// RGB color definitions
var (
	RgbBackground  = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbStatusBar   = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusText  = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
	RgbScoreBg     = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbLivesFull   = tcell.NewRGBColor(255, 80, 80)   // Normal Red
	RgbLivesEmpty  = tcell.NewRGBColor(90, 90, 90)    // Gray
	RgbBoundary    = tcell.NewRGBColor(200, 50, 50)   // Red for eviction line
	RgbPrompt      = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbHint        = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbTitle       = tcell.NewRGBColor(255, 255, 0)   // Bright yellow
	RgbGameOver    = tcell.NewRGBColor(255, 0, 0)     // Error Red
	RgbNotice      = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbPopFlash    = tcell.NewRGBColor(255, 255, 200) // Bright yellow-white flash
	RgbPanelBorder = tcell.NewRGBColor(128, 0, 128)   // Dark purple
	RgbPanelText   = tcell.NewRGBColor(200, 200, 200) // Light gray
)

// HueColor maps a hue in degrees to a saturated terminal color
func HueColor(hue int) tcell.Color {
	h := math.Mod(float64(hue), 360)
	if h < 0 {
		h += 360
	}
	const s, v = 0.65, 1.0

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return tcell.NewRGBColor(int32((r+m)*255), int32((g+m)*255), int32((b+m)*255))
}

// PopColor fades the burst from flash toward the background as frames run out
func PopColor(remaining, total int) tcell.Color {
	if total <= 0 {
		return RgbBackground
	}
	t := float64(remaining) / float64(total)
	fr, fg, fb := RgbPopFlash.RGB()
	br, bg, bb := RgbBackground.RGB()
	mix := func(a, b int32) int32 { return int32(float64(b) + (float64(a)-float64(b))*t) }
	return tcell.NewRGBColor(mix(fr, br), mix(fg, bg), mix(fb, bb))
}
