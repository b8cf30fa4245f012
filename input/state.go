package input

import (
	"strings"

	"github.com/lixenwraith/word-popper/constants"
)

// wordBuffer holds the word being typed
type wordBuffer struct {
	runes []rune
}

func (b *wordBuffer) add(r rune) bool {
	if len(b.runes) >= constants.TypedMaxLen {
		return false
	}
	b.runes = append(b.runes, r)
	return true
}

func (b *wordBuffer) backspace() bool {
	if len(b.runes) == 0 {
		return false
	}
	b.runes = b.runes[:len(b.runes)-1]
	return true
}

// take returns the trimmed buffer and empties it
func (b *wordBuffer) take() string {
	w := strings.TrimSpace(string(b.runes))
	b.runes = b.runes[:0]
	return w
}

func (b *wordBuffer) String() string {
	return string(b.runes)
}
