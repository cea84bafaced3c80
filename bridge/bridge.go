// Package bridge carries named events from the embedded survey content to
// host logic. The embedded content itself is an external collaborator behind
// the EmbeddedHost interface; this package owns subscription bookkeeping,
// handler ordering, and detachment.
package bridge

import (
	"github.com/golang/glog"
)

// EmbeddedHost is the surface hosting the survey widget. Implementations are
// provided by the host environment (a web view, a test double). Subscribe
// callbacks must be delivered synchronously on the host's single callback
// context.
type EmbeddedHost interface {
	// LoadHTML loads the assembled widget document.
	LoadHTML(html string)

	// StartInterview instructs the embedded content to begin the interview.
	StartInterview()

	// Subscribe routes messages named name to fn, replacing any previous
	// route for that name.
	Subscribe(name string, fn func(payload []byte))

	// Unsubscribe removes the route for name. No deliveries for name occur
	// after it returns.
	Unsubscribe(name string)
}

// DismissRevealer is an optional EmbeddedHost capability: hosts that draw a
// dismiss affordance implement it to reveal the affordance on demand.
type DismissRevealer interface {
	ShowDismiss()
}

// Handler consumes one event payload.
type Handler func(payload []byte)

// Bridge is a typed channel from one embedded content surface to host logic.
// Not safe for concurrent use; it lives on its session's callback context.
type Bridge struct {
	host     EmbeddedHost
	handlers map[EventName][]Handler
	attached bool
}

// New creates a detached Bridge over host.
func New(host EmbeddedHost) *Bridge {
	return &Bridge{
		host:     host,
		handlers: make(map[EventName][]Handler),
	}
}

// On appends fn to the handler list for name. Handlers run in registration
// order on dispatch.
func (b *Bridge) On(name EventName, fn Handler) {
	b.handlers[name] = append(b.handlers[name], fn)
}

// Attach subscribes the full event vocabulary on the host. Messages outside
// the vocabulary, or with no registered handler, are silently ignored.
func (b *Bridge) Attach() {
	if b.attached {
		return
	}
	b.attached = true
	for _, name := range EventNames {
		name := name
		b.host.Subscribe(string(name), func(payload []byte) {
			b.Dispatch(Event{Name: name, Payload: payload})
		})
	}
}

// Dispatch invokes every handler registered for the event's name, in order.
func (b *Bridge) Dispatch(event Event) {
	handlers, ok := b.handlers[event.Name]
	if !ok {
		glog.V(2).Infof("bridge: ignoring event %q", event.Name)
		return
	}
	glog.V(2).Infof("bridge: event %q", event.Name)
	for _, fn := range handlers {
		fn(event.Payload)
	}
}

// Detach unsubscribes the vocabulary from the host so late messages cannot
// invoke stale handlers. Safe to call more than once.
func (b *Bridge) Detach() {
	if !b.attached {
		return
	}
	b.attached = false
	for _, name := range EventNames {
		b.host.Unsubscribe(string(name))
	}
}
