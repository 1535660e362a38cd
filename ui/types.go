// Package ui provides the control panel, HUD and cell inspector drawn
// around the grid in the graphical viewer.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme styles the side panel. Energy bar fills come from the grid
// renderer so panel and cell bars agree.
type Theme struct {
	Panel    rl.Color
	Border   rl.Color
	Header   rl.Color
	Text     rl.Color
	BarTrack rl.Color

	Pad       int32
	Row       int32 // height of one text row
	ValueCol  int32 // value offset from its label
	BarHeight int32
	TextSize  int32
	TitleSize int32
}

// DefaultTheme matches the dark grid background.
func DefaultTheme() Theme {
	return Theme{
		Panel:     rl.Color{R: 24, G: 26, B: 32, A: 235},
		Border:    rl.DarkGray,
		Header:    rl.Gold,
		Text:      rl.LightGray,
		BarTrack:  rl.Color{R: 45, G: 45, B: 50, A: 255},
		Pad:       8,
		Row:       18,
		ValueCol:  84,
		BarHeight: 10,
		TextSize:  12,
		TitleSize: 14,
	}
}
