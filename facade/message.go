package facade

import (
	"context"
	"fmt"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/mention"
	"sync/atomic"
	"time"
)

// Message is a handle on a message that may not be loaded yet.
// Only its id is known until Ready succeeds.
type Message struct {
	accessory *Accessory
	id        string
	payload   *domain.MessagePayload

	// hydrating holds one token while a hydration is in flight
	hydrating chan struct{}
	hydrated  atomic.Pointer[Hydrated]
}

func newMessage(a *Accessory, id string, payload *domain.MessagePayload) *Message {
	return &Message{accessory: a, id: id, payload: payload, hydrating: make(chan struct{}, 1)}
}

func (m *Message) ID() string {
	return m.id
}

// Hydrated returns the loaded view if Ready already succeeded. It never waits for a
// hydration in flight.
func (m *Message) Hydrated() (*Hydrated, bool) {
	h := m.hydrated.Load()
	return h, h != nil
}

// Ready loads the message from the puppet. Concurrent and repeated calls share one
// hydration; once it succeeded the same *Hydrated is returned without further I/O.
// A caller waiting on another hydration gives up when ctx is done.
// On failure the message stays unhydrated and Ready may be called again.
func (m *Message) Ready(ctx context.Context) (*Hydrated, error) {
	if h := m.hydrated.Load(); h != nil {
		return h, nil
	}
	select {
	case m.hydrating <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", errors.ErrHydration, ctx.Err())
	}
	defer func() { <-m.hydrating }()
	if h := m.hydrated.Load(); h != nil {
		return h, nil
	}

	a := m.accessory
	start := time.Now()
	h, err := m.hydrate(ctx)
	a.metrics.Observe(a.puppet.Name(), "ready", start, err)
	if err != nil {
		a.log.Debug("Message hydration failed", "id", m.id, "error", err)
		return nil, err
	}
	m.hydrated.Store(h)
	a.log.Debug("Message hydrated", "id", m.id, "type", h.Type().String())
	return h, nil
}

func (m *Message) String() string {
	if h, ok := m.Hydrated(); ok {
		return h.String()
	}
	return fmt.Sprintf("Message#%s", m.id)
}

// resolver fetches each contact at most once per hydration and refreshes the registry
// with what the puppet reports.
type resolver struct {
	accessory *Accessory
	contacts  map[string]*domain.Contact
}

func (r *resolver) contact(ctx context.Context, id string) (*domain.Contact, error) {
	if c, ok := r.contacts[id]; ok {
		return c, nil
	}
	c, err := r.accessory.refreshContact(ctx, id)
	if err != nil {
		return nil, err
	}
	r.contacts[id] = c
	return c, nil
}

func (m *Message) hydrate(ctx context.Context) (*Hydrated, error) {
	a := m.accessory
	var payload domain.MessagePayload
	switch {
	case m.payload != nil:
		payload = *m.payload
	case m.id == "":
		return nil, fmt.Errorf("%w: %w: message without id", errors.ErrHydration, errors.ErrMessageNotFound)
	default:
		p, err := a.puppet.MessagePayload(ctx, m.id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
		}
		payload = p
	}
	if payload.ID == "" {
		payload.ID = m.id
	}

	if payload.TalkerID == "" {
		return nil, fmt.Errorf("%w: %w: %s", errors.ErrHydration, errors.ErrNoTalker, payload.ID)
	}
	if payload.RoomID == "" && payload.ListenerID == "" {
		return nil, fmt.Errorf("%w: %w: %s", errors.ErrHydration, errors.ErrNoDestination, payload.ID)
	}

	h := &Hydrated{message: m, payload: payload}
	entities := &resolver{accessory: a, contacts: make(map[string]*domain.Contact)}
	from, err := entities.contact(ctx, payload.TalkerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
	}
	if err = h.setFrom(from); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
	}

	// A room wins over a listener, some backends report both for group messages
	if payload.RoomID != "" {
		room, err := a.refreshRoom(ctx, payload.RoomID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
		}
		if err = h.setRoom(room); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
		}
	} else {
		to, err := entities.contact(ctx, payload.ListenerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
		}
		if err = h.setTo(to); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
		}
	}
	h.setContent(payload.Text)

	selfID, loggedIn, err := a.SelfID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrHydration, err)
	}
	if loggedIn {
		h.selfID = selfID
	}

	h.mentioned = m.mentions(ctx, entities, payload, h.room)
	return h, nil
}

// mentions prefers the ids reported by the platform and falls back to scanning the
// content against the room members. Contacts that cannot be resolved are skipped.
func (m *Message) mentions(ctx context.Context, entities *resolver, payload domain.MessagePayload, room *domain.Room) []*domain.Contact {
	a := m.accessory
	mentioned := make([]*domain.Contact, 0, len(payload.MentionIDs))
	if len(payload.MentionIDs) > 0 {
		seen := make(map[string]struct{}, len(payload.MentionIDs))
		for _, id := range payload.MentionIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			contact, err := entities.contact(ctx, id)
			if err != nil {
				a.log.Warn("Mentioned contact not resolved", "message_id", payload.ID, "contact_id", id, "error", err)
				continue
			}
			mentioned = append(mentioned, contact)
		}
		return mentioned
	}
	if room == nil || payload.Text == "" {
		return mentioned
	}

	matcher, err := mention.NewMatcher(m.members(ctx, entities, room))
	if err != nil {
		a.log.Warn("Mention matcher not built", "room_id", room.ID, "error", err)
		return mentioned
	}
	return append(mentioned, matcher.Match(payload.Text)...)
}

func (m *Message) members(ctx context.Context, entities *resolver, room *domain.Room) []*domain.Contact {
	a := m.accessory
	members := make([]*domain.Contact, 0, len(room.MemberIDs))
	for _, id := range room.MemberIDs {
		contact, err := entities.contact(ctx, id)
		if err != nil {
			a.log.Debug("Room member not resolved", "room_id", room.ID, "contact_id", id, "error", err)
			continue
		}
		members = append(members, contact)
	}
	return members
}
