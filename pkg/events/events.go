// Package events provides the synchronous, priority-ordered event bus that
// couples the deployment lifecycle to the launch-interception hook. Listeners
// run in ascending priority order on the emitter's goroutine; a listener
// returning an error stops propagation and the error is returned to the
// emitter.
package events

import (
	"sort"
	"sync"
)

// Topic names an event stream on the bus.
type Topic string

// Topics used by the deployment core.
const (
	// TopicDeployMods requests a deployment pass. Payload: *DeployRequest.
	TopicDeployMods Topic = "deploy-mods"

	// TopicWillDeploy fires when a deployment cycle begins. Payload: Notice.
	TopicWillDeploy Topic = "will-deploy"

	// TopicDidDeploy fires when a deployment cycle has settled. Payload: Notice.
	TopicDidDeploy Topic = "did-deploy"

	// TopicRestartHelpers asks long-running helper processes to restart so
	// they observe the correct filesystem view. Payload: Notice.
	TopicRestartHelpers Topic = "restart-helpers"
)

// Listener priorities. Lower values run earlier.
const (
	PriorityFirst  = 0
	PriorityNormal = 100
)

// Notice is the payload for lifecycle broadcast topics.
type Notice struct {
	GameID string
}

// Handler receives an event payload.
type Handler func(payload interface{}) error

type subscription struct {
	priority int
	seq      int
	handler  Handler
}

// Bus is a synchronous in-process event bus.
type Bus struct {
	mu     sync.RWMutex
	seq    int
	topics map[Topic][]*subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[Topic][]*subscription)}
}

// Subscribe registers handler on topic at the given priority and returns an
// unsubscribe function. Equal priorities run in subscription order.
func (b *Bus) Subscribe(topic Topic, priority int, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	sub := &subscription{priority: priority, seq: b.seq, handler: handler}
	subs := append(b.topics[topic], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].priority != subs[j].priority {
			return subs[i].priority < subs[j].priority
		}
		return subs[i].seq < subs[j].seq
	})
	b.topics[topic] = subs

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		current := b.topics[topic]
		for i, s := range current {
			if s == sub {
				b.topics[topic] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Emit dispatches payload to every listener of topic in priority order. The
// first listener error stops propagation and is returned.
func (b *Bus) Emit(topic Topic, payload interface{}) error {
	b.mu.RLock()
	subs := make([]*subscription, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.handler(payload); err != nil {
			return err
		}
	}
	return nil
}
