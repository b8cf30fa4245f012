package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/status"
)

// debugMetrics are shown in the debug panel, in order
var debugMetrics = []string{
	status.SessionState,
	status.IngestSource,
	status.IngestLastWord,
	status.IngestFinal,
	status.IngestPartial,
	status.IngestRestarts,
	status.MatchExact,
	status.MatchFuzzy,
	status.MatchMiss,
	status.SpawnCreated,
	status.MotionEvicted,
	status.FrameMillis,
	status.LoopProcessed,
}

// TerminalRenderer draws the playfield into a tcell screen
// State arrives through HandleEvent; Draw may run on any goroutine
type TerminalRenderer struct {
	screen tcell.Screen
	field  config.PlayfieldConfig
	status *status.Registry

	mu     sync.Mutex
	view   *view
	prompt string
	debug  bool
}

// NewTerminalRenderer creates a renderer for the given playfield geometry
func NewTerminalRenderer(screen tcell.Screen, cfg config.Config, reg *status.Registry) *TerminalRenderer {
	return &TerminalRenderer{
		screen: screen,
		field:  cfg.Playfield,
		status: reg,
		view:   newView(cfg.Game.InitialLives),
		debug:  cfg.Debug.Enabled,
	}
}

// EventTypes implements events.Handler
func (r *TerminalRenderer) EventTypes() []events.EventType {
	return events.AllTypes()
}

// HandleEvent folds an event into the view
func (r *TerminalRenderer) HandleEvent(ev events.GameEvent) {
	r.mu.Lock()
	r.view.apply(ev)
	r.mu.Unlock()
}

// SetPrompt sets the typed word shown in the footer
func (r *TerminalRenderer) SetPrompt(text string) {
	r.mu.Lock()
	r.prompt = text
	r.mu.Unlock()
}

// SetDebug shows or hides the debug panel
func (r *TerminalRenderer) SetDebug(enabled bool) {
	r.mu.Lock()
	r.debug = enabled
	r.mu.Unlock()
}

// ToggleDebug flips the debug panel
func (r *TerminalRenderer) ToggleDebug() {
	r.mu.Lock()
	r.debug = !r.debug
	r.mu.Unlock()
}

// Draw renders one frame and ages effects
func (r *TerminalRenderer) Draw() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Clear()
	width, height := r.screen.Size()
	base := tcell.StyleDefault.Background(RgbBackground)
	r.fill(width, height, base)

	panel := 0
	if r.debug {
		panel = constants.DebugPanelLines + 2
	}
	top := constants.HeaderRows
	rows := height - constants.HeaderRows - constants.FooterRows - panel
	if rows < 2 || width < 10 {
		r.drawText(0, 0, "terminal too small", base.Foreground(RgbGameOver))
		r.screen.Show()
		return
	}

	r.drawHeader(width, base)
	r.drawBoundary(width, top, rows, base)

	v := r.view
	for _, p := range v.pops {
		x, y := r.toCell(p.x, p.y, width, top, rows)
		label := strings.Repeat("*", len([]rune(p.word))+2)
		r.drawText(x-len(label)/2, y, label, base.Foreground(PopColor(p.frames, constants.PopEffectFrames)))
	}
	for _, b := range v.bubbles {
		x, y := r.toCell(b.x, b.y, width, top, rows)
		label := "(" + b.word + ")"
		r.drawText(x-len([]rune(label))/2, y, label, base.Foreground(HueColor(b.hue)).Bold(true))
	}

	switch v.phase {
	case phaseTitle:
		r.drawCentered(top+rows/2-1, constants.TitleText, base.Foreground(RgbTitle).Bold(true), width)
		r.drawCentered(top+rows/2+1, constants.StartHint, base.Foreground(RgbHint), width)
	case phasePaused:
		r.drawCentered(top+rows/2, constants.PausedText, base.Foreground(RgbNotice).Bold(true), width)
	case phaseOver:
		r.drawCentered(top+rows/2-1, constants.GameOverText, base.Foreground(RgbGameOver).Bold(true), width)
		r.drawCentered(top+rows/2, fmt.Sprintf("Final score: %d", v.finalScore), base.Foreground(RgbStatusBar), width)
		r.drawCentered(top+rows/2+2, constants.RestartHint, base.Foreground(RgbHint), width)
	}

	if panel > 0 {
		r.drawDebugPanel(width, top+rows, base)
	}
	r.drawFooter(width, height-1, base)

	v.tickEffects()
	r.screen.Show()
}

// toCell scales playfield units to a screen cell inside the play area
func (r *TerminalRenderer) toCell(x, y float64, width, top, rows int) (int, int) {
	cx := int(x / r.field.Width * float64(width))
	cy := top + int(y/r.field.Height*float64(rows))
	if cy >= top+rows {
		cy = top + rows - 1
	}
	return cx, cy
}

func (r *TerminalRenderer) fill(width, height int, style tcell.Style) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (r *TerminalRenderer) drawHeader(width int, base tcell.Style) {
	v := r.view
	score := fmt.Sprintf(" SCORE %d ", v.score)
	r.drawText(0, 0, score, base.Foreground(RgbStatusText).Background(RgbScoreBg))

	x := len(score) + 1
	r.drawText(x, 0, "LIVES ", base.Foreground(RgbStatusBar))
	x += 6
	for i := 0; i < v.maxLives; i++ {
		style := base.Foreground(RgbLivesEmpty)
		if i < v.lives {
			style = base.Foreground(RgbLivesFull)
		}
		r.screen.SetContent(x+i, 0, '♥', nil, style)
	}

	if v.notice != "" {
		r.drawText(width-len(v.notice)-1, 0, v.notice, base.Foreground(RgbNotice))
	}
}

func (r *TerminalRenderer) drawBoundary(width, top, rows int, base tcell.Style) {
	_, y := r.toCell(0, r.field.Height-r.field.BoundaryMargin, width, top, rows)
	style := base.Foreground(RgbBoundary)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *TerminalRenderer) drawFooter(width, y int, base tcell.Style) {
	prompt := constants.PromptPrefix + r.prompt + "_"
	r.drawText(0, y, prompt, base.Foreground(RgbPrompt))
	if r.view.lastWord != "" {
		heard := "heard: " + r.view.lastWord
		if x := width - len(heard) - 1; x > len(prompt)+1 {
			r.drawText(x, y, heard, base.Foreground(RgbHint))
		}
	}
}

func (r *TerminalRenderer) drawDebugPanel(width, y int, base tcell.Style) {
	border := base.Foreground(RgbPanelBorder)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, '─', nil, border)
	}
	r.drawText(1, y, " debug ", border)

	text := base.Foreground(RgbPanelText)
	for i, line := range r.view.recent {
		r.drawText(1, y+1+i, line, text)
	}

	col := width / 2
	metrics := r.metricLines()
	for i := 0; i < len(metrics) && i < constants.DebugPanelLines+1; i++ {
		r.drawText(col, y+1+i, metrics[i], text)
	}
}

// metricLines formats the watched metrics, two per line
func (r *TerminalRenderer) metricLines() []string {
	if r.status == nil {
		return nil
	}
	snap := r.status.Snapshot()
	var parts []string
	for _, key := range debugMetrics {
		val, ok := snap[key]
		if !ok {
			continue
		}
		switch x := val.(type) {
		case float64:
			parts = append(parts, fmt.Sprintf("%s=%.2f", key, x))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", key, x))
		}
	}

	var lines []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			lines = append(lines, parts[i]+"  "+parts[i+1])
		} else {
			lines = append(lines, parts[i])
		}
	}
	return lines
}

func (r *TerminalRenderer) drawCentered(y int, text string, style tcell.Style, width int) {
	r.drawText((width-len([]rune(text)))/2, y, text, style)
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	width, height := r.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for _, ch := range text {
		if x >= 0 && x < width {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}
