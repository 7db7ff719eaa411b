package app

import (
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
)

// Window is one simulated window in the demo's authoritative source.
// Real integrations replace this with the host's window enumeration.
type Window struct {
	ID    cluster.WindowID
	Title string
}

// windowSource is the authoritative list the reconciler converges the
// layout trees against. Windows are created and closed here, never in
// the trees directly.
type windowSource struct {
	order  []cluster.WindowID
	byID   map[cluster.WindowID]*Window
	nextID cluster.WindowID
}

func newWindowSource() *windowSource {
	return &windowSource{
		byID:   make(map[cluster.WindowID]*Window),
		nextID: 1,
	}
}

// Open creates a window with a fresh identity and a short unique title.
func (s *windowSource) Open() *Window {
	w := &Window{
		ID:    s.nextID,
		Title: "win-" + uuid.NewString()[:8],
	}
	s.nextID++
	s.order = append(s.order, w.ID)
	s.byID[w.ID] = w
	return w
}

// Close drops the window with the given identity.
func (s *windowSource) Close(id cluster.WindowID) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns the window bound to id, or nil.
func (s *windowSource) Get(id cluster.WindowID) *Window {
	return s.byID[id]
}

// IDs returns the live identities in creation order.
func (s *windowSource) IDs() []cluster.WindowID {
	out := make([]cluster.WindowID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *windowSource) Len() int { return len(s.order) }
