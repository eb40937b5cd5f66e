package runtime

import (
	"puppet-lab/domain"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LoadOrStoreContact_Returns_Same_Reference(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	contactID := uuid.NewString()

	// Given no contact is registered
	_, ok := registry.Contact(contactID)
	req.False(ok)

	// When the same contact is loaded twice
	first := registry.LoadOrStoreContact(domain.ContactPayload{ID: contactID, Name: "Alice"})
	second := registry.LoadOrStoreContact(domain.ContactPayload{ID: contactID, Name: "Alice renamed"})

	// Then both loads share one reference and the first payload wins
	req.Same(first, second)
	req.Equal("Alice", second.Name)

	stored, ok := registry.Contact(contactID)
	req.True(ok)
	req.Same(first, stored)
}

func TestRegistry_LoadOrStoreRoom_Returns_Same_Reference(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	first := registry.LoadOrStoreRoom(domain.RoomPayload{ID: "room-1", Topic: "badgers"})
	second := registry.LoadOrStoreRoom(domain.RoomPayload{ID: "room-1"})

	req.Same(first, second)
	contacts, rooms := registry.Len()
	req.Equal(0, contacts)
	req.Equal(1, rooms)
}

func TestRegistry_Forget(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	old := registry.LoadOrStoreContact(domain.ContactPayload{ID: "alice", Name: "Alice"})

	// When the contact is forgotten
	registry.Forget("alice")

	// Then the next load registers the fresh payload
	_, ok := registry.Contact("alice")
	req.False(ok)
	fresh := registry.LoadOrStoreContact(domain.ContactPayload{ID: "alice", Name: "Alicia"})
	req.NotSame(old, fresh)
	req.Equal("Alicia", fresh.Name)
}

func TestRegistry_Concurrent_Loads_Share_One_Reference(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	results := make([]*domain.Contact, 50)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = registry.LoadOrStoreContact(domain.ContactPayload{ID: "bob"})
		}(i)
	}
	wg.Wait()

	for _, c := range results {
		req.Same(results[0], c)
	}
}

func TestRegistry_Store_Keeps_Reference_Until_Payload_Changes(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	room := domain.RoomPayload{ID: "room-1", Topic: "badgers", MemberIDs: []string{"alice", "bob"}}

	// Given a registered room
	first := registry.StoreRoom(room)

	// When the same payload is stored again
	// Then the reference is kept
	req.Same(first, registry.StoreRoom(room))

	// When a member joins
	room.MemberIDs = append(room.MemberIDs, "carol")
	second := registry.StoreRoom(room)

	// Then the registry serves the new members and the earlier room is untouched
	req.NotSame(first, second)
	req.True(second.HasMember("carol"))
	req.False(first.HasMember("carol"))
	stored, ok := registry.Room("room-1")
	req.True(ok)
	req.Same(second, stored)
	req.True(first.Equal(second))
}

func TestRegistry_StoreContact_Picks_Up_Renames(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	first := registry.StoreContact(domain.ContactPayload{ID: "alice", Name: "Alice"})
	req.Same(first, registry.StoreContact(domain.ContactPayload{ID: "alice", Name: "Alice"}))

	renamed := registry.StoreContact(domain.ContactPayload{ID: "alice", Name: "Alicia"})
	req.Equal("Alicia", renamed.Name)
	req.Equal("Alice", first.Name)
}
