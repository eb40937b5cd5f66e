// Package mock is an in-memory puppet. It keeps contacts, rooms and messages in maps
// and records everything sent through it, which makes it the backend of choice for tests
// and for running the bot without any network account.
package mock

import (
	"context"
	"fmt"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

const Name = "mock"

// Sent is one call recorded by MessageSend or MessageForward.
type Sent struct {
	MessageID      string
	ConversationID string
	Sayable        domain.Sayable
	MentionIDs     []string
	ForwardedFrom  string
}

type Puppet struct {
	mu       sync.RWMutex
	selfID   string
	contacts map[string]domain.ContactPayload
	rooms    map[string]domain.RoomPayload
	messages map[string]domain.MessagePayload
	order    []string
	sent     []Sent
	inbox    chan string
	sendErr  error
	now      func() time.Time
}

type Option func(*Puppet)

// WithClock replaces time.Now for stamped messages.
func WithClock(now func() time.Time) Option {
	return func(p *Puppet) { p.now = now }
}

func New(opts ...Option) *Puppet {
	p := &Puppet{
		contacts: make(map[string]domain.ContactPayload),
		rooms:    make(map[string]domain.RoomPayload),
		messages: make(map[string]domain.MessagePayload),
		inbox:    make(chan string, 64),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Puppet) Name() string { return Name }

// Login sets the self id and registers the account as a contact if unknown.
func (p *Puppet) Login(self domain.ContactPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selfID = self.ID
	if _, ok := p.contacts[self.ID]; !ok {
		p.contacts[self.ID] = self
	}
}

func (p *Puppet) Logout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selfID = ""
}

func (p *Puppet) AddContact(contacts ...domain.ContactPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range contacts {
		p.contacts[c.ID] = c
	}
}

func (p *Puppet) AddRoom(rooms ...domain.RoomPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range rooms {
		p.rooms[r.ID] = r
	}
}

// AddMessage stores a payload as if it had been received. A missing id is generated.
func (p *Puppet) AddMessage(message domain.MessagePayload) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store(message)
}

// Receive stores the payload and pushes its id to Poll.
func (p *Puppet) Receive(ctx context.Context, message domain.MessagePayload) (string, error) {
	id := p.AddMessage(message)
	select {
	case p.inbox <- id:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FailSend makes every following send fail with err, nil restores normal behaviour.
func (p *Puppet) FailSend(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendErr = err
}

func (p *Puppet) Sent() []Sent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.sent)
}

func (p *Puppet) MessagePayload(_ context.Context, messageID string) (domain.MessagePayload, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.messages[messageID]
	if !ok {
		return domain.MessagePayload{}, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, messageID)
	}
	return m, nil
}

func (p *Puppet) MessageSearch(_ context.Context, query domain.MessageQuery) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var matching []domain.MessagePayload
	for _, id := range p.order {
		if m := p.messages[id]; query.Match(m) {
			matching = append(matching, m)
		}
	}
	slices.SortStableFunc(matching, func(a, b domain.MessagePayload) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	ids := make([]string, 0, len(matching))
	for _, m := range matching {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (p *Puppet) MessageSend(_ context.Context, conversationID string, sayable domain.Sayable, mentionIDs []string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return "", p.sendErr
	}
	if p.selfID == "" {
		return "", errors.ErrNotLoggedIn
	}
	message := domain.MessagePayload{
		TalkerID:   p.selfID,
		MentionIDs: slices.Clone(mentionIDs),
	}
	if err := p.route(&message, conversationID); err != nil {
		return "", err
	}
	switch s := sayable.(type) {
	case domain.Text:
		message.Type, message.Text = domain.MessageTypeText, string(s)
	case domain.FileBox:
		message.Type, message.Text = domain.MessageTypeAttachment, s.Name
		if s.IsImage() {
			message.Type = domain.MessageTypeImage
		}
	case domain.UrlLink:
		message.Type, message.Text, message.AppType = domain.MessageTypeUrl, s.URL, domain.AppTypeUrl
	case domain.ContactCard:
		message.Type, message.Text = domain.MessageTypeContact, s.ContactID
	case domain.Location:
		message.Type, message.SubType, message.Text = domain.MessageTypeLocation, domain.SubTypeLocation, s.Name
	default:
		return "", fmt.Errorf("%w: %T", errors.ErrUnsupportedPayload, sayable)
	}
	id := p.store(message)
	p.sent = append(p.sent, Sent{MessageID: id, ConversationID: conversationID, Sayable: sayable, MentionIDs: message.MentionIDs})
	return id, nil
}

func (p *Puppet) MessageForward(_ context.Context, conversationID string, messageID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return "", p.sendErr
	}
	if p.selfID == "" {
		return "", errors.ErrNotLoggedIn
	}
	original, ok := p.messages[messageID]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrMessageNotFound, messageID)
	}
	message := domain.MessagePayload{
		Type:     original.Type,
		SubType:  domain.SubTypeForwarded,
		AppType:  original.AppType,
		Text:     original.Text,
		TalkerID: p.selfID,
	}
	if err := p.route(&message, conversationID); err != nil {
		return "", err
	}
	id := p.store(message)
	p.sent = append(p.sent, Sent{MessageID: id, ConversationID: conversationID, ForwardedFrom: messageID})
	return id, nil
}

func (p *Puppet) ContactPayload(_ context.Context, contactID string) (domain.ContactPayload, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.contacts[contactID]
	if !ok {
		return domain.ContactPayload{}, fmt.Errorf("%w: %s", errors.ErrContactNotFound, contactID)
	}
	return c, nil
}

func (p *Puppet) RoomPayload(_ context.Context, roomID string) (domain.RoomPayload, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.rooms[roomID]
	if !ok {
		return domain.RoomPayload{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, roomID)
	}
	r.MemberIDs = slices.Clone(r.MemberIDs)
	return r, nil
}

func (p *Puppet) SelfID(_ context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selfID == "" {
		return "", errors.ErrNotLoggedIn
	}
	return p.selfID, nil
}

// Poll implements contract.IMessageSource on top of Receive.
func (p *Puppet) Poll(ctx context.Context) ([]string, error) {
	select {
	case id := <-p.inbox:
		ids := []string{id}
		for {
			select {
			case id = <-p.inbox:
				ids = append(ids, id)
			default:
				return ids, nil
			}
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// route fills RoomID or ListenerID depending on what the conversation id points at.
// Must be called with the lock held.
func (p *Puppet) route(message *domain.MessagePayload, conversationID string) error {
	if _, ok := p.rooms[conversationID]; ok {
		message.RoomID = conversationID
		return nil
	}
	if _, ok := p.contacts[conversationID]; ok {
		message.ListenerID = conversationID
		return nil
	}
	return fmt.Errorf("%w: unknown conversation %s", errors.ErrNoDestination, conversationID)
}

// store must be called with the lock held.
func (p *Puppet) store(message domain.MessagePayload) string {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = p.now()
	}
	if _, exists := p.messages[message.ID]; !exists {
		p.order = append(p.order, message.ID)
	}
	p.messages[message.ID] = message
	return message.ID
}
