package core

import "strings"

// Color is the cosmetic display color of a piece template.
// It has no effect on the simulation.
type Color uint8

const (
	ColorCyan Color = iota
	ColorYellow
	ColorPurple
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
	ColorGray
	ColorCount // Sentinel value for iteration
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorCyan:
		return "cyan"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorOrange:
		return "orange"
	case ColorGray:
		return "gray"
	default:
		return "unknown"
	}
}

// ANSI returns the 256-color terminal code closest to the color.
func (c Color) ANSI() string {
	switch c {
	case ColorCyan:
		return "51"
	case ColorYellow:
		return "226"
	case ColorPurple:
		return "129"
	case ColorGreen:
		return "46"
	case ColorRed:
		return "196"
	case ColorBlue:
		return "21"
	case ColorOrange:
		return "208"
	default:
		return "245"
	}
}

// ParseColor converts a color name to a Color.
// Returns ColorGray and false if the name is not recognized.
func ParseColor(s string) (Color, bool) {
	for c := Color(0); c < ColorCount; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, true
		}
	}
	return ColorGray, false
}
