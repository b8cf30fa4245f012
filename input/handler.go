// Package input maps terminal keys to game commands
package input

import (
	"log"

	"github.com/gdamore/tcell/v2"
)

// Actions is the command surface the handler drives
// Implementations post onto the game loop; calls arrive on the input goroutine
type Actions interface {
	TogglePause()
	Submit(word string) // empty word starts or restarts the game
	SetPrompt(text string)
	PopAll()
	RestartRecognition()
	ListWords()
	ToggleDebug()
	ToggleMute()
	Resize()
}

// Handler feeds terminal events through the machine and runs the resulting intent
type Handler struct {
	machine *Machine
	actions Actions
}

// NewHandler creates a handler; debug enables the Ctrl debug keys
func NewHandler(actions Actions, debug bool) *Handler {
	return &Handler{
		machine: NewMachine(debug),
		actions: actions,
	}
}

// HandleEvent processes one event; false means quit
func (h *Handler) HandleEvent(ev tcell.Event) bool {
	intent := h.machine.Process(ev)

	switch intent.Type {
	case IntentNone:
	case IntentQuit:
		log.Printf("[input] quit requested")
		return false
	case IntentTogglePause:
		h.actions.TogglePause()
	case IntentToggleMute:
		h.actions.ToggleMute()
	case IntentResize:
		h.actions.Resize()
	case IntentTextChanged:
		h.actions.SetPrompt(intent.Word)
	case IntentSubmit:
		h.actions.SetPrompt("")
		h.actions.Submit(intent.Word)
	case IntentPopAll:
		h.actions.PopAll()
	case IntentRestartRecognition:
		h.actions.RestartRecognition()
	case IntentListWords:
		h.actions.ListWords()
	case IntentToggleDebug:
		h.actions.ToggleDebug()
	default:
		log.Printf("[input] unhandled intent %s", intent.Type)
	}
	return true
}

// Run polls the screen until quit or the screen is finalized
func (h *Handler) Run(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if !h.HandleEvent(ev) {
			return
		}
	}
}
