package admin

import "github.com/charmbracelet/log"

// Handler receives one event. Handlers run synchronously on the dispatching
// goroutine, in registration order; they must not block.
type Handler func(Event)

// Dispatcher routes events to handlers registered per event kind. A handler
// can be registered for a plain kind ("domain-feature-set") or for a
// kind:detail pair ("domain-feature-set:menu-initial-page"); both fire when
// they apply, plain kind first.
type Dispatcher struct {
	handlers map[string][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// AddHandler appends h to the handler list for key. Keys are either an event
// kind or "kind:detail".
func (d *Dispatcher) AddHandler(key string, h Handler) {
	d.handlers[key] = append(d.handlers[key], h)
}

// Dispatch invokes all handlers matching ev. Events with no handlers at all
// are dropped silently; the feed carries plenty of kinds nobody asked for.
func (d *Dispatcher) Dispatch(ev Event) {
	for _, h := range d.handlers[ev.Kind] {
		h(ev)
	}
	if detail := ev.Detail(); detail != "" {
		for _, h := range d.handlers[ev.Kind+":"+detail] {
			h(ev)
		}
	}
	log.Debug("Dispatched event", "kind", ev.Kind, "id", ev.ID)
}
