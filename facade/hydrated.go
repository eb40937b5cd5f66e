package facade

import (
	"fmt"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/mention"
	"slices"
	"strings"
	"time"
)

// Hydrated is the loaded view of a Message. Its fields are fixed once Ready returns it.
type Hydrated struct {
	message *Message
	payload domain.MessagePayload

	from      *domain.Contact
	to        *domain.Contact
	room      *domain.Room
	content   string
	selfID    string
	mentioned []*domain.Contact
}

// Message returns the handle this view was loaded from.
func (h *Hydrated) Message() *Message { return h.message }

func (h *Hydrated) ID() string { return h.payload.ID }

func (h *Hydrated) From() *domain.Contact { return h.from }

// To is the recipient of a direct message, nil for room messages.
func (h *Hydrated) To() *domain.Contact { return h.to }

// Room is nil for direct messages.
func (h *Hydrated) Room() *domain.Room { return h.room }

func (h *Hydrated) Content() string { return h.content }

func (h *Hydrated) Type() domain.MessageType { return h.payload.Type }

func (h *Hydrated) TypeSub() domain.MessageSubType { return h.payload.SubType }

func (h *Hydrated) TypeApp() domain.AppType { return h.payload.AppType }

// Self reports whether the logged-in account sent the message.
// It is false when the puppet was not logged in at hydration time.
func (h *Hydrated) Self() bool {
	return h.selfID != "" && h.from.ID == h.selfID
}

// Mentioned returns the mentioned contacts in order, never nil.
func (h *Hydrated) Mentioned() []*domain.Contact {
	return slices.Clone(h.mentioned)
}

func (h *Hydrated) MentionSelf() bool {
	if h.selfID == "" {
		return false
	}
	return slices.ContainsFunc(h.mentioned, func(c *domain.Contact) bool { return c.ID == h.selfID })
}

// MentionText is the content without the mentions of the mentioned contacts.
func (h *Hydrated) MentionText() string {
	if len(h.mentioned) == 0 {
		return strings.TrimSpace(h.content)
	}
	matcher, err := mention.NewMatcher(h.mentioned)
	if err != nil {
		return strings.TrimSpace(h.content)
	}
	return matcher.Strip(h.content)
}

// Date is the time the platform stamped the message with, zero when unknown.
func (h *Hydrated) Date() time.Time { return h.payload.Timestamp }

// Age is zero when the date is unknown.
func (h *Hydrated) Age() time.Duration {
	if h.payload.Timestamp.IsZero() {
		return 0
	}
	return h.message.accessory.now().Sub(h.payload.Timestamp)
}

// Payload returns a copy of the raw payload the view was built from.
func (h *Hydrated) Payload() domain.MessagePayload {
	p := h.payload
	p.MentionIDs = slices.Clone(p.MentionIDs)
	return p
}

func (h *Hydrated) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Message#%s[%s", h.Type(), h.from)
	if h.room != nil {
		fmt.Fprintf(&b, "@%s", h.room)
	}
	b.WriteString("]")
	if h.content != "" {
		fmt.Fprintf(&b, "\t%s", h.content)
	}
	return b.String()
}

func (h *Hydrated) setFrom(from *domain.Contact) error {
	if h.from != nil {
		return fmt.Errorf("%w: %w: from", errors.ErrPrecondition, errors.ErrAlreadySet)
	}
	h.from = from
	return nil
}

func (h *Hydrated) setTo(to *domain.Contact) error {
	if h.room != nil {
		return fmt.Errorf("%w: %w", errors.ErrPrecondition, errors.ErrAmbiguousDestination)
	}
	if h.to != nil {
		return fmt.Errorf("%w: %w: to", errors.ErrPrecondition, errors.ErrAlreadySet)
	}
	h.to = to
	return nil
}

func (h *Hydrated) setRoom(room *domain.Room) error {
	if h.to != nil {
		return fmt.Errorf("%w: %w", errors.ErrPrecondition, errors.ErrAmbiguousDestination)
	}
	if h.room != nil {
		return fmt.Errorf("%w: %w: room", errors.ErrPrecondition, errors.ErrAlreadySet)
	}
	h.room = room
	return nil
}

func (h *Hydrated) setContent(content string) {
	h.content = content
}
