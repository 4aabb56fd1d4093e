// Package eventsmock provides a recording dispatcher for service tests.
package eventsmock

import (
	"context"
	"sync"

	"github.com/Tornike222/Loan-Api/internal/events"
)

// Recorder captures published events for assertions.
type Recorder struct {
	mu        sync.Mutex
	Published []events.Event
}

func (r *Recorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Published = append(r.Published, event)
	return nil
}

func (r *Recorder) Subscribe(events.EventType, events.EventHandler) {}

// Last returns the most recently published event, or nil.
func (r *Recorder) Last() *events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Published) == 0 {
		return nil
	}
	return &r.Published[len(r.Published)-1]
}
