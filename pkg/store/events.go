package store

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventVerticesReplaced EventKind = "vertices_replaced"
	EventEdgesReplaced    EventKind = "edges_replaced"
	EventVerticesAdded    EventKind = "vertices_added"
	EventVertexUpdated    EventKind = "vertex_updated"
	EventEdgeUpdated      EventKind = "edge_updated"
	EventEdgeConnected    EventKind = "edge_connected"
	EventVerticesChanged  EventKind = "vertices_changed"
	EventEdgesChanged     EventKind = "edges_changed"
)

// Event describes a completed mutation. IDs lists the affected vertices or
// edges.
type Event struct {
	Kind EventKind
	IDs  []string
}

// Listener receives store events. It runs synchronously on the writer's
// goroutine and must not mutate the store.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(ev Event) {
	if len(s.listeners) == 0 {
		return
	}
	for _, sub := range append([]subscription(nil), s.listeners...) {
		sub.fn(ev)
	}
}
