// Package eventbus is Gwen's node-event bus (spec.md §4.J): a synchronous
// publish system the step engine fires around every node evaluation so
// reporters and other observers can react without being wired into the
// engine itself.
package eventbus

import (
	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/logger"
)

// Phase is which side of a node's evaluation an event represents.
type Phase string

const (
	Before Phase = "Before"
	After  Phase = "After"
)

// Event carries everything a listener needs to react to a node transition:
// which phase, which node type, the node itself, and the node types of the
// ancestors the publisher passes, outermost first (the step engine passes
// only the parent's type).
type Event struct {
	Phase     Phase
	NodeType  ast.NodeType
	Source    interface{}
	CallChain []ast.NodeType
}

// Listener observes Before/After events. OnBefore/OnAfter must not panic;
// the bus recovers and logs a panicking listener rather than propagating it
// (spec.md §4.J "Listeners must not raise; failures are logged and
// swallowed").
type Listener interface {
	// Ignores returns the set of node types this listener is not interested
	// in; the bus skips dispatch to it entirely for those.
	Ignores() map[ast.NodeType]bool
	OnBefore(Event)
	OnAfter(Event)
}

// Bus dispatches Before events to listeners in registration order and
// After events in reverse registration order, matching the call/return
// nesting of the step engine walking the tree (spec.md §4.J).
type Bus struct {
	listeners []Listener
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Register appends l to the listener list.
func (b *Bus) Register(l Listener) {
	b.listeners = append(b.listeners, l)
}

// PublishBefore fires ev (with Phase forced to Before) to every listener
// that does not ignore ev.NodeType, in registration order.
func (b *Bus) PublishBefore(ev Event) {
	ev.Phase = Before
	for _, l := range b.listeners {
		b.dispatch(l, ev, l.OnBefore)
	}
}

// PublishAfter fires ev (with Phase forced to After) to every listener that
// does not ignore ev.NodeType, in reverse registration order.
func (b *Bus) PublishAfter(ev Event) {
	ev.Phase = After
	for i := len(b.listeners) - 1; i >= 0; i-- {
		l := b.listeners[i]
		b.dispatch(l, ev, l.OnAfter)
	}
}

func (b *Bus) dispatch(l Listener, ev Event, fn func(Event)) {
	if l.Ignores()[ev.NodeType] {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Get().With("phase", string(ev.Phase), "node_type", string(ev.NodeType)).Errorf("eventbus: listener panicked: %v", r)
		}
	}()
	fn(ev)
}
