package room

import (
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/protocol"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/rs/zerolog"
)

const testDelay = 3 * time.Second

type delivery struct {
	to  []string
	msg protocol.Message
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []delivery
}

func (p *recordingPublisher) Publish(ids []string, msg protocol.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, delivery{to: slices.Clone(ids), msg: msg})
}

// received returns the messages delivered to conn, optionally filtered by event.
func (p *recordingPublisher) received(conn string, event string) []protocol.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []protocol.Message
	for _, d := range p.sent {
		if slices.Contains(d.to, conn) && (event == "" || d.msg.Event() == event) {
			out = append(out, d.msg)
		}
	}
	return out
}

func (p *recordingPublisher) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, d := range p.sent {
		if d.msg.Event() == event {
			n++
		}
	}
	return n
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = nil
}

type recordingMonitor struct {
	mu       sync.Mutex
	starts   []HandStart
	actions  []PlayerAction
	streets  []StreetChange
	outcomes []HandOutcome
}

func (m *recordingMonitor) OnHandStart(s HandStart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, s)
}

func (m *recordingMonitor) OnPlayerAction(a PlayerAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, a)
}

func (m *recordingMonitor) OnStreetChange(s StreetChange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streets = append(m.streets, s)
}

func (m *recordingMonitor) OnHandComplete(o HandOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

type testEnv struct {
	registry  *Registry
	publisher *recordingPublisher
	monitor   *recordingMonitor
	clock     *quartz.Mock
}

func newTestEnv(t *testing.T, mutate ...func(*Settings)) *testEnv {
	t.Helper()

	settings := DefaultSettings()
	settings.NextHandDelay = testDelay
	for _, fn := range mutate {
		fn(&settings)
	}

	env := &testEnv{
		publisher: &recordingPublisher{},
		monitor:   &recordingMonitor{},
		clock:     quartz.NewMock(t),
	}
	logger := zerolog.New(io.Discard).Level(zerolog.Disabled)
	env.registry = NewRegistry(logger, randutil.New(42), env.clock, settings)
	env.registry.SetPublisher(env.publisher)
	env.registry.SetHandMonitor(env.monitor)
	t.Cleanup(env.registry.Close)
	return env
}
