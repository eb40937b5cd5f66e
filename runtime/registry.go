package runtime

import (
	"puppet-lab/domain"
	"sync"
)

// Registry keeps a single reference per contact and room id so that
// every message pointing at the same account shares the same *domain.Contact.
// Entries are never mutated once stored. StoreContact and StoreRoom replace an entry
// whose payload changed, messages hydrated earlier keep the reference they got.
type Registry struct {
	mu       sync.RWMutex
	contacts map[string]*domain.Contact
	rooms    map[string]*domain.Room
}

func NewRegistry() *Registry {
	return &Registry{
		contacts: make(map[string]*domain.Contact),
		rooms:    make(map[string]*domain.Room),
	}
}

func (r *Registry) Contact(id string) (*domain.Contact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contacts[id]
	return c, ok
}

func (r *Registry) Room(id string) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// LoadOrStoreContact returns the registered contact for payload.ID,
// registering a new one built from payload when none exists yet.
func (r *Registry) LoadOrStoreContact(payload domain.ContactPayload) *domain.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contacts[payload.ID]; ok {
		return c
	}
	c := domain.NewContact(payload)
	r.contacts[payload.ID] = c
	return c
}

func (r *Registry) LoadOrStoreRoom(payload domain.RoomPayload) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[payload.ID]; ok {
		return room
	}
	room := domain.NewRoom(payload)
	r.rooms[payload.ID] = room
	return room
}

// StoreContact registers payload and returns the current reference for its id.
// The registered contact is kept while it carries the same values.
func (r *Registry) StoreContact(payload domain.ContactPayload) *domain.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contacts[payload.ID]; ok && c.Payload() == payload {
		return c
	}
	c := domain.NewContact(payload)
	r.contacts[payload.ID] = c
	return c
}

// StoreRoom registers payload, replacing the room when topic, owner or members changed.
func (r *Registry) StoreRoom(payload domain.RoomPayload) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[payload.ID]; ok && room.Payload().Equal(payload) {
		return room
	}
	room := domain.NewRoom(payload)
	r.rooms[payload.ID] = room
	return room
}

// Forget drops the contact and room registered under id, if any.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.contacts, id)
	delete(r.rooms, id)
}

func (r *Registry) Len() (contacts int, rooms int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contacts), len(r.rooms)
}
