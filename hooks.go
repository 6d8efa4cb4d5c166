package flowcheck

import (
	"sync"

	"github.com/agentstation/flowcheck/pkg/report"
)

// SectionHook is called after each section completes
type SectionHook func(section *report.Section)

// hooks manages event callbacks for a run
type hooks struct {
	mu        sync.RWMutex
	onSection []SectionHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnSection registers a callback for completed sections
func (h *hooks) OnSection(fn SectionHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSection = append(h.onSection, fn)
}

// triggerSection calls every section hook. In parallel runs hooks may be
// called from several goroutines.
func (h *hooks) triggerSection(section *report.Section) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSection {
		fn(section)
	}
}
