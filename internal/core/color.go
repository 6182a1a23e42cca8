package core

// Color is an ANSI 256-color code for a screen cell.
// ColorDefault leaves the terminal's own color in place.
type Color int16

// Named colors used by the HUD and overlays.
const (
	ColorDefault Color = -1

	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7

	ColorBrightWhite Color = 15
	ColorOrange      Color = 208
	ColorGray        Color = 245
	ColorDarkGray    Color = 238
	ColorCream       Color = 230
	ColorBrown       Color = 94
)

// IsDefault reports whether the color leaves the terminal color unchanged.
func (c Color) IsDefault() bool {
	return c < 0 || c > 255
}
