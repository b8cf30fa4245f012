package main

import (
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/word-popper/audio"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/game"
	"github.com/lixenwraith/word-popper/render"
)

// gameActions adapts input intents to loop-posted controller calls
// Methods run on the input goroutine; everything touching game state is posted
type gameActions struct {
	loop     *engine.Loop
	ctrl     *game.Controller
	renderer *render.TerminalRenderer
	sound    *audio.SoundManager
	screen   tcell.Screen
	clip     func(string) error
}

func (a *gameActions) TogglePause() {
	a.loop.Post(func() {
		if err := a.ctrl.TogglePause(); err != nil {
			log.Printf("[input] pause: %v", err)
		}
	})
}

// Submit starts a game on an empty word from Idle or Ended, otherwise matches the word
func (a *gameActions) Submit(word string) {
	a.loop.Post(func() {
		if word == "" {
			if a.ctrl.CanStart() {
				if err := a.ctrl.Start(); err != nil {
					log.Printf("[input] start: %v", err)
				}
			}
			return
		}
		a.ctrl.SubmitWord(word)
	})
}

func (a *gameActions) SetPrompt(text string) {
	a.renderer.SetPrompt(text)
}

func (a *gameActions) PopAll() {
	a.loop.Post(func() { a.ctrl.PopAll() })
}

func (a *gameActions) RestartRecognition() {
	a.loop.Post(a.ctrl.RestartRecognition)
}

// ListWords copies the on-screen words to the clipboard
func (a *gameActions) ListWords() {
	var words []string
	if !a.loop.Call(func() { words = a.ctrl.Snapshot().Words() }) {
		return
	}
	if err := a.clip(strings.Join(words, "\n")); err != nil {
		log.Printf("[input] clipboard: %v", err)
	}
}

func (a *gameActions) ToggleDebug() {
	a.renderer.ToggleDebug()
}

func (a *gameActions) ToggleMute() {
	a.sound.SetEnabled(!a.sound.Enabled())
}

func (a *gameActions) Resize() {
	a.loop.Post(a.screen.Sync)
}

func newGameActions(loop *engine.Loop, ctrl *game.Controller, renderer *render.TerminalRenderer, sound *audio.SoundManager, screen tcell.Screen) *gameActions {
	return &gameActions{
		loop:     loop,
		ctrl:     ctrl,
		renderer: renderer,
		sound:    sound,
		screen:   screen,
		clip:     clipboard.WriteAll,
	}
}
