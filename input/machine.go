package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Machine turns terminal events into intents
// Owns the typed word buffer; not safe for concurrent use
type Machine struct {
	keys  *KeyTable
	buf   wordBuffer
	debug bool
}

// NewMachine creates a machine with the default key table
func NewMachine(debug bool) *Machine {
	return &Machine{
		keys:  DefaultKeyTable(),
		debug: debug,
	}
}

// SetDebug enables or disables the debug intents
func (m *Machine) SetDebug(debug bool) {
	m.debug = debug
}

// Buffer returns the word typed so far
func (m *Machine) Buffer() string {
	return m.buf.String()
}

// Process maps one event to an intent; IntentNone for anything ignored
func (m *Machine) Process(ev tcell.Event) Intent {
	switch e := ev.(type) {
	case *tcell.EventResize:
		return Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(e)
	}
	return Intent{}
}

func (m *Machine) processKey(ev *tcell.EventKey) Intent {
	key := ev.Key()

	switch key {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if m.buf.backspace() {
			return Intent{Type: IntentTextChanged, Word: m.buf.String()}
		}
		return Intent{}
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return Intent{Type: IntentSubmit, Word: m.buf.take()}
		}
		if !unicode.IsPrint(r) || !m.buf.add(unicode.ToLower(r)) {
			return Intent{}
		}
		return Intent{Type: IntentTextChanged, Word: m.buf.String()}
	}

	t, ok := m.keys.Lookup(key)
	if !ok {
		return Intent{}
	}
	if t.debugOnly() && !m.debug {
		return Intent{}
	}
	if t == IntentSubmit {
		return Intent{Type: t, Word: m.buf.take()}
	}
	return Intent{Type: t}
}
