package input

import "github.com/gdamore/tcell/v2"

// KeyTable maps control keys to intents
// Printable runes other than space always edit the word buffer
type KeyTable struct {
	SpecialKeys map[tcell.Key]IntentType
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]IntentType{
			tcell.KeyCtrlQ:  IntentQuit,
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyEscape: IntentTogglePause,
			tcell.KeyCtrlS:  IntentToggleMute,
			tcell.KeyEnter:  IntentSubmit,
			tcell.KeyCtrlP:  IntentPopAll,
			tcell.KeyCtrlR:  IntentRestartRecognition,
			tcell.KeyCtrlL:  IntentListWords,
			tcell.KeyCtrlD:  IntentToggleDebug,
		},
	}
}

// Lookup returns the intent bound to key
func (kt *KeyTable) Lookup(key tcell.Key) (IntentType, bool) {
	t, ok := kt.SpecialKeys[key]
	return t, ok
}
