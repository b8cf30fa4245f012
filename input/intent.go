package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit        // Ctrl+Q, Ctrl+C
	IntentTogglePause // ESC key
	IntentToggleMute  // Ctrl+S
	IntentResize      // Terminal resize event

	// Word entry
	IntentTextChanged // Printable character or Backspace edited the buffer
	IntentSubmit      // Enter/Space; empty word means start or restart

	// Debug intents, ignored unless debug mode is on
	IntentPopAll             // Ctrl+P
	IntentRestartRecognition // Ctrl+R
	IntentListWords          // Ctrl+L
	IntentToggleDebug        // Ctrl+D
)

// Intent is the semantic result of one input event
type Intent struct {
	Type IntentType
	Word string // Submitted word or current buffer for IntentTextChanged
}

// debugOnly reports whether t needs debug mode
func (t IntentType) debugOnly() bool {
	switch t {
	case IntentPopAll, IntentRestartRecognition, IntentListWords, IntentToggleDebug:
		return true
	}
	return false
}

var intentNames = map[IntentType]string{
	IntentNone:               "none",
	IntentQuit:               "quit",
	IntentTogglePause:        "toggle_pause",
	IntentToggleMute:         "toggle_mute",
	IntentResize:             "resize",
	IntentTextChanged:        "text_changed",
	IntentSubmit:             "submit",
	IntentPopAll:             "pop_all",
	IntentRestartRecognition: "restart_recognition",
	IntentListWords:          "list_words",
	IntentToggleDebug:        "toggle_debug",
}

func (t IntentType) String() string {
	if n, ok := intentNames[t]; ok {
		return n
	}
	return "unknown"
}
