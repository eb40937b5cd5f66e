// Package facade exposes chat messages independently of the puppet carrying them.
//
// An Accessory is bound to one puppet. Messages it hands out start unhydrated and only
// expose their id; Ready resolves them into a Hydrated view carrying sender, destination,
// content and classification, and the reply operations.
package facade

import (
	"context"
	"fmt"
	"log/slog"
	"puppet-lab/contract"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/observability"
	"puppet-lab/runtime"
	"puppet-lab/validation"
	"time"

	"github.com/samber/lo"
)

// MessageHandler is invoked for every inbound message, unhydrated.
type MessageHandler func(ctx context.Context, message *Message) error

type Accessory struct {
	puppet   contract.IPuppet
	log      *slog.Logger
	registry *runtime.Registry
	metrics  *observability.Metrics
	now      func() time.Time
}

type Option func(*Accessory)

// WithRegistry shares an entity registry between accessories of the same puppet.
func WithRegistry(registry *runtime.Registry) Option {
	return func(a *Accessory) { a.registry = registry }
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(a *Accessory) { a.metrics = metrics }
}

// WithClock replaces time.Now, used by Age.
func WithClock(now func() time.Time) Option {
	return func(a *Accessory) { a.now = now }
}

func NewAccessory(puppet contract.IPuppet, log *slog.Logger, opts ...Option) *Accessory {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &Accessory{
		puppet:   puppet,
		log:      log,
		registry: runtime.NewRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Accessory) Puppet() contract.IPuppet {
	return a.puppet
}

// Message returns an unhydrated handle on id. No I/O happens until Ready.
func (a *Accessory) Message(id string) *Message {
	return newMessage(a, id, nil)
}

// MessageFromPayload wraps a payload the caller already holds, Ready then skips the payload lookup.
func (a *Accessory) MessageFromPayload(payload domain.MessagePayload) *Message {
	return newMessage(a, payload.ID, &payload)
}

// FindMessage returns the first message matching query, nil when nothing matches.
func (a *Accessory) FindMessage(ctx context.Context, query domain.MessageQuery) (*Message, error) {
	start := time.Now()
	ids, err := a.search(ctx, query)
	a.metrics.Observe(a.puppet.Name(), "find", start, err)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return a.Message(ids[0]), nil
}

// FindAllMessages returns every matching message in the order the puppet reports them.
func (a *Accessory) FindAllMessages(ctx context.Context, query domain.MessageQuery) ([]*Message, error) {
	start := time.Now()
	ids, err := a.search(ctx, query)
	a.metrics.Observe(a.puppet.Name(), "find_all", start, err)
	if err != nil {
		return nil, err
	}
	return lo.Map(ids, func(id string, _ int) *Message { return a.Message(id) }), nil
}

// Contact resolves a contact through the registry, asking the puppet on a miss.
func (a *Accessory) Contact(ctx context.Context, id string) (*domain.Contact, error) {
	if contact, ok := a.registry.Contact(id); ok {
		return contact, nil
	}
	payload, err := a.puppet.ContactPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.registry.LoadOrStoreContact(payload), nil
}

// Room resolves a room through the registry, asking the puppet on a miss.
func (a *Accessory) Room(ctx context.Context, id string) (*domain.Room, error) {
	if room, ok := a.registry.Room(id); ok {
		return room, nil
	}
	payload, err := a.puppet.RoomPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.registry.LoadOrStoreRoom(payload), nil
}

// refreshContact asks the puppet for the current payload and updates the registry with it.
func (a *Accessory) refreshContact(ctx context.Context, id string) (*domain.Contact, error) {
	payload, err := a.puppet.ContactPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.registry.StoreContact(payload), nil
}

func (a *Accessory) refreshRoom(ctx context.Context, id string) (*domain.Room, error) {
	payload, err := a.puppet.RoomPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.registry.StoreRoom(payload), nil
}

// SelfID reports the logged-in account. ok is false when the puppet is not logged in.
func (a *Accessory) SelfID(ctx context.Context) (id string, ok bool, err error) {
	id, err = a.puppet.SelfID(ctx)
	if errors.Is(err, errors.ErrNotLoggedIn) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (a *Accessory) search(ctx context.Context, query domain.MessageQuery) ([]string, error) {
	if err := validation.ValidateQuery(query); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrPrecondition, err)
	}
	ids, err := a.puppet.MessageSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	a.log.Debug("Messages found", "puppet", a.puppet.Name(), "count", len(ids))
	return ids, nil
}
