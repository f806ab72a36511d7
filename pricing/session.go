package pricing

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the explicit checkout aggregate for one user: the authoritative
// cart, the coordinator owning the derived discount/tier state, and the gift
// selections. One session per user at a time; the single-writer assumption of
// the engine holds per session.
type Session struct {
	ID          string
	UserID      uint
	Cart        *Cart
	Coordinator *Coordinator
	Selections  *Selections
}

// Manager is the session registry. Controllers fetch sessions here instead of
// reaching into shared globals.
type Manager struct {
	mu        sync.Mutex
	validator *Validator
	resolver  *Resolver
	sessions  map[uint]*Session
}

// NewManager builds a registry whose sessions share the given validator and
// resolver.
func NewManager(validator *Validator, resolver *Resolver) *Manager {
	return &Manager{
		validator: validator,
		resolver:  resolver,
		sessions:  make(map[uint]*Session),
	}
}

// Session returns the user's session, creating and wiring one on first
// touch. created tells the caller to hydrate the cart from storage.
func (m *Manager) Session(userID uint, identity string) (sess *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess, false
	}

	cart := NewCart()
	selections := NewSelections()
	coordinator := NewCoordinator(m.validator, m.resolver, selections, identity)
	cart.OnSubtotalChange(coordinator.CartChanged)

	sess = &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		Cart:        cart,
		Coordinator: coordinator,
		Selections:  selections,
	}
	m.sessions[userID] = sess
	return sess, true
}

// Drop discards a session, e.g. after a successful order submission.
func (m *Manager) Drop(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
