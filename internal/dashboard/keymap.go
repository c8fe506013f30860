package dashboard

// Key binding constants used in handleKey.
const (
	KeyQuit      = "q"
	KeyQuitUpper = "Q"
	KeyCtrlC     = "ctrl+c"
	KeyEsc       = "esc"
	KeyTab       = "tab"
	KeyShiftTab  = "shift+tab"
	KeyRight     = "right"
	KeyLeft      = "left"
	KeyL         = "l"
	KeyH         = "h"
)
