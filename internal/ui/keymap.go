package ui

// Key binding constants used in handleKey. Bound punctuation cannot be
// typed into the query.
const (
	KeyQuit           = "ctrl+c"
	KeyUp             = "up"
	KeyDown           = "down"
	KeyBackspace      = "backspace"
	KeyReset          = "esc"
	KeyPreview        = "tab"
	KeyExtract        = "enter"
	KeyNextPair       = "ctrl+n"
	KeyPrevPair       = "ctrl+p"
	KeyClearQuery     = "ctrl+u"
	KeyMoreContext    = "+"
	KeyLessContext    = "-"
	KeyStartEarlier   = ","
	KeyStartLater     = "."
	KeyStartEarlierFn = "<"
	KeyStartLaterFn   = ">"
	KeyEndEarlier     = "["
	KeyEndLater       = "]"
	KeyEndEarlierFn   = "{"
	KeyEndLaterFn     = "}"
)
