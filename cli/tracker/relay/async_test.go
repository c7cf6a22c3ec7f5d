package relay

import (
	"errors"
	"io"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

// mockRelay records published states.
type mockRelay struct {
	mu        sync.Mutex
	published []string
	failWith  error
}

func (m *mockRelay) Init(map[string]string) error { return nil }
func (m *mockRelay) Close() error                 { return nil }

func (m *mockRelay) Publish(state *model.VehicleState) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.mu.Lock()
	m.published = append(m.published, state.VehicleID)
	m.mu.Unlock()
	return nil
}

func (m *mockRelay) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}

func TestGroupPublishesToAll(t *testing.T) {
	log.SetOutput(io.Discard)

	first := &mockRelay{}
	second := &mockRelay{}
	g := &Group{}
	g.Add(first)
	g.Add(second)

	err := g.Publish(&model.VehicleState{VehicleID: "v1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
}

func TestGroupKeepsPublishingAfterFailure(t *testing.T) {
	log.SetOutput(io.Discard)

	broken := &mockRelay{failWith: errors.New("broker down")}
	healthy := &mockRelay{}
	g := &Group{}
	g.Add(broken)
	g.Add(healthy)

	err := g.Publish(&model.VehicleState{VehicleID: "v1"})
	assert.Error(t, err)
	assert.Equal(t, 1, healthy.count(), "one broken broker must not stop the others")
}

func TestAsyncDeliversAllQueued(t *testing.T) {
	log.SetOutput(io.Discard)

	sink := &mockRelay{}
	g := &Group{}
	g.Add(sink)

	a := NewAsync(g, 64, 4)
	for i := 0; i < 50; i++ {
		a.Enqueue(&model.VehicleState{VehicleID: "v1"})
	}
	a.Shutdown()

	assert.Equal(t, 50, sink.count(), "shutdown drains the queue")
}

func TestAsyncEnqueueNeverBlocks(t *testing.T) {
	log.SetOutput(io.Discard)

	g := &Group{} // no relays, nothing consumes fast
	a := NewAsync(g, 1, 1)
	defer a.Shutdown()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			a.Enqueue(&model.VehicleState{VehicleID: "v1"})
		}
		close(done)
	}()

	<-done // overflow drops, the caller is never blocked
}

func TestAsyncEnqueueConcurrentWithShutdown(t *testing.T) {
	log.SetOutput(io.Discard)

	sink := &mockRelay{}
	g := &Group{}
	g.Add(sink)
	a := NewAsync(g, 4, 2)

	// Keep enqueueing while Shutdown runs: updates may be dropped, but the
	// producer must never panic or block on a closing queue.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			a.Enqueue(&model.VehicleState{VehicleID: "v1"})
		}
	}()

	a.Shutdown()
	<-done

	// And enqueueing after shutdown is a silent no-op.
	a.Enqueue(&model.VehicleState{VehicleID: "v2"})
}

func TestLoadUnknownRelay(t *testing.T) {
	_, err := Load(map[string]map[string]string{"kafka": {}})
	assert.ErrorIs(t, err, ErrUnknownRelay)
}

func TestLoadEmpty(t *testing.T) {
	g, err := Load(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}
