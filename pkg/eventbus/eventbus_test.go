package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwen-io/gwen/pkg/ast"
)

type recordingListener struct {
	name    string
	ignored map[ast.NodeType]bool
	order   *[]string
}

func (l *recordingListener) Ignores() map[ast.NodeType]bool { return l.ignored }
func (l *recordingListener) OnBefore(ev Event)               { *l.order = append(*l.order, l.name+":before") }
func (l *recordingListener) OnAfter(ev Event)                { *l.order = append(*l.order, l.name+":after") }

func TestBeforeForwardAfterReverseOrder(t *testing.T) {
	var order []string
	bus := New()
	bus.Register(&recordingListener{name: "a", order: &order})
	bus.Register(&recordingListener{name: "b", order: &order})

	bus.PublishBefore(Event{NodeType: ast.NodeStep})
	bus.PublishAfter(Event{NodeType: ast.NodeStep})

	assert.Equal(t, []string{"a:before", "b:before", "b:after", "a:after"}, order)
}

func TestIgnoredNodeTypeSkipsListener(t *testing.T) {
	var order []string
	bus := New()
	bus.Register(&recordingListener{name: "a", ignored: map[ast.NodeType]bool{ast.NodeStep: true}, order: &order})

	bus.PublishBefore(Event{NodeType: ast.NodeStep})
	assert.Empty(t, order)
}

type panickingListener struct{}

func (panickingListener) Ignores() map[ast.NodeType]bool { return nil }
func (panickingListener) OnBefore(Event)                  { panic("boom") }
func (panickingListener) OnAfter(Event)                   {}

func TestPanickingListenerIsSwallowed(t *testing.T) {
	bus := New()
	bus.Register(panickingListener{})

	assert.NotPanics(t, func() {
		bus.PublishBefore(Event{NodeType: ast.NodeStep})
	})
}
