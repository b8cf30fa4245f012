package engine

import "github.com/lixenwraith/word-popper/status"

// SystemBase is embedded by every game system
// Fields alias World members so systems read Session and Registry directly
type SystemBase struct {
	World     *World
	Registry  *Registry
	Session   *Session
	Scheduler Scheduler
	Status    *status.Registry
}

func NewSystemBase(w *World) SystemBase {
	return SystemBase{
		World:     w,
		Registry:  w.Registry,
		Session:   w.Session,
		Scheduler: w.Scheduler,
		Status:    w.Status,
	}
}
