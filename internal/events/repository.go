package events

import (
	"sync"
)

// Repository owns the set of events. Writers (Add) are serialized; readers
// never block each other. Stored events are never replaced or removed, so an
// id keeps resolving to the same *Event for the life of the process.
type Repository interface {
	Add(event *Event) error
	Get(id string) (*Event, bool)
	List() []*Event
	Count() int
}

type repository struct {
	mu     sync.RWMutex
	events map[string]*Event
	order  []string
}

func NewRepository() Repository {
	return &repository{
		events: make(map[string]*Event),
	}
}

func (r *repository) Add(event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[event.ID]; exists {
		return errDuplicateEventID
	}
	r.events[event.ID] = event
	r.order = append(r.order, event.ID)
	return nil
}

func (r *repository) Get(id string) (*Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	return event, ok
}

// List returns events in insertion order.
func (r *repository) List() []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Event, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.events[id])
	}
	return list
}

func (r *repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
