package facade

import (
	"context"
	"fmt"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/mention"
	"puppet-lab/validation"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Say replies in the conversation the message belongs to.
//
// A room message is answered in the room. replyTo then prefixes a text with an
// "@name" mention per contact and passes their ids along, other sayables are sent as is.
// A direct message is answered to its sender, or to its recipient when the logged-in
// account sent it. replyTo is rejected on direct messages.
//
// The returned handle points at the sent message and is nil when the puppet does not
// report an id.
func (h *Hydrated) Say(ctx context.Context, sayable domain.Sayable, replyTo ...*domain.Contact) (*Message, error) {
	a := h.message.accessory
	if h.room == nil && len(replyTo) > 0 {
		return nil, fmt.Errorf("%w: %w", errors.ErrPrecondition, errors.ErrReplyWithoutRoom)
	}
	var conversation domain.Conversation = h.from
	var mentionIDs []string
	switch {
	case h.room != nil:
		conversation = h.room
		if text, ok := sayable.(domain.Text); ok && len(replyTo) > 0 {
			sayable = domain.Text(mentionPrefix(replyTo) + string(text))
			mentionIDs = lo.Uniq(lo.Map(replyTo, func(c *domain.Contact, _ int) string { return c.ID }))
		}
	case h.Self():
		conversation = h.to
	}
	// Validated as sent, mention prefix included
	if err := validation.ValidateSayable(sayable); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSend, err)
	}

	start := time.Now()
	id, err := a.puppet.MessageSend(ctx, conversation.ConversationID(), sayable, mentionIDs)
	a.metrics.Observe(a.puppet.Name(), "say", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSend, err)
	}
	a.log.Debug("Message sent", "in_reply_to", h.ID(), "conversation_id", conversation.ConversationID(), "kind", string(sayable.Kind()))
	if id == "" {
		return nil, nil
	}
	return a.Message(id), nil
}

// Forward sends a copy of the message to another room or contact.
func (h *Hydrated) Forward(ctx context.Context, to domain.Conversation) (*Message, error) {
	a := h.message.accessory
	if to == nil || to.ConversationID() == "" {
		return nil, fmt.Errorf("%w: %w", errors.ErrPrecondition, errors.ErrNoDestination)
	}
	start := time.Now()
	id, err := a.puppet.MessageForward(ctx, to.ConversationID(), h.ID())
	a.metrics.Observe(a.puppet.Name(), "forward", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSend, err)
	}
	if id == "" {
		return nil, nil
	}
	return a.Message(id), nil
}

func mentionPrefix(contacts []*domain.Contact) string {
	var b strings.Builder
	for _, c := range lo.UniqBy(contacts, func(c *domain.Contact) string { return c.ID }) {
		b.WriteString("@")
		b.WriteString(c.DisplayName())
		b.WriteRune(mention.Separator)
	}
	return b.String()
}
