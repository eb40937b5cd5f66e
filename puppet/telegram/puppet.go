// Package telegram is a puppet backed by the Telegram Bot API.
//
// Updates received through Poll and messages sent by the bot are written to badger
// through a storage.DiskSink, the Bot API having no way to fetch a message back by id.
// Ids are the decimal Telegram ids for contacts and rooms and "{chat}:{message}" for messages.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/mention"
	"puppet-lab/repositories"
	"puppet-lab/repositories/storage"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/samber/lo"
)

const Name = "telegram"

type Puppet struct {
	client      *Client
	messages    repositories.IMessageRepository
	directory   repositories.IDirectoryRepository
	sink        storage.DiskSink
	limiter     *limiterPool
	log         *slog.Logger
	pollTimeout int

	mu     sync.Mutex
	offset int64
	self   *User
}

type Config struct {
	// PollTimeout is the long-poll duration in seconds.
	PollTimeout int
	SendRPS     float64
	SendBurst   int
}

func NewPuppet(client *Client, messages repositories.IMessageRepository, directory repositories.IDirectoryRepository, log *slog.Logger, cfg Config) *Puppet {
	return &Puppet{
		client:      client,
		messages:    messages,
		directory:   directory,
		sink:        storage.NewDiskSink(messages, directory, log),
		limiter:     newLimiterPool(cfg.SendRPS, cfg.SendBurst),
		log:         log,
		pollTimeout: cfg.PollTimeout,
	}
}

func (p *Puppet) Name() string { return Name }

// Login resolves the bot account with getMe. Nothing is sent before it succeeded.
func (p *Puppet) Login(ctx context.Context) error {
	me, err := p.client.GetMe(ctx)
	if err != nil {
		return err
	}
	if err = p.sink.Consume(ctx, contactFromUser(me)); err != nil {
		return err
	}
	p.mu.Lock()
	p.self = &me
	p.mu.Unlock()
	p.log.Info("Telegram puppet logged in", "id", me.ID, "username", me.Username)
	return nil
}

func (p *Puppet) SelfID(_ context.Context) (string, error) {
	self, ok := p.selfUser()
	if !ok {
		return "", errors.ErrNotLoggedIn
	}
	return formatID(self.ID), nil
}

// Poll implements contract.IMessageSource. It logs in first when needed.
func (p *Puppet) Poll(ctx context.Context) ([]string, error) {
	if _, ok := p.selfUser(); !ok {
		if err := p.Login(ctx); err != nil {
			return nil, err
		}
	}
	p.mu.Lock()
	offset := p.offset
	p.mu.Unlock()

	updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(updates))
	for _, update := range updates {
		p.mu.Lock()
		p.offset = max(p.offset, update.UpdateID+1)
		p.mu.Unlock()

		message := update.Message
		if message == nil {
			message = update.EditedMessage
		}
		if message == nil {
			continue
		}
		payload, err := p.ingest(ctx, *message)
		if err != nil {
			p.log.Error("Unable to store update", "update_id", update.UpdateID, "error", err)
			continue
		}
		ids = append(ids, payload.ID)
	}
	return ids, nil
}

func (p *Puppet) MessagePayload(_ context.Context, messageID string) (domain.MessagePayload, error) {
	return p.messages.GetMessage(messageID)
}

func (p *Puppet) MessageSearch(_ context.Context, query domain.MessageQuery) ([]string, error) {
	messages, err := p.messages.SearchMessages(query)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m domain.MessagePayload, _ int) string { return m.ID }), nil
}

func (p *Puppet) MessageSend(ctx context.Context, conversationID string, sayable domain.Sayable, mentionIDs []string) (string, error) {
	if _, ok := p.selfUser(); !ok {
		return "", errors.ErrNotLoggedIn
	}
	chatID, err := parseID(conversationID)
	if err != nil {
		return "", err
	}
	if err = p.limiter.Wait(ctx, conversationID); err != nil {
		return "", err
	}

	var sent Message
	switch s := sayable.(type) {
	case domain.Text:
		sent, err = p.client.SendMessage(ctx, chatID, string(s), p.mentionEntities(string(s), mentionIDs))
	case domain.UrlLink:
		sent, err = p.client.SendMessage(ctx, chatID, strings.TrimSpace(s.Title+"\n"+s.URL), nil)
	case domain.Location:
		sent, err = p.client.SendLocation(ctx, chatID, s.Latitude, s.Longitude)
	case domain.FileBox:
		file := s
		if file.MimeType == "" {
			file = file.WithDetectedMimeType()
		}
		field := "document"
		if file.IsImage() {
			field = "photo"
		}
		sent, err = p.client.SendFile(ctx, chatID, field, file.Name, file.Data, file.URL)
	default:
		return "", fmt.Errorf("%w: %s cannot send %s", errors.ErrUnsupportedPayload, Name, sayable.Kind())
	}
	if err != nil {
		return "", err
	}
	payload, err := p.ingest(ctx, sent)
	if err != nil {
		return "", err
	}
	return payload.ID, nil
}

func (p *Puppet) MessageForward(ctx context.Context, conversationID string, messageID string) (string, error) {
	if _, ok := p.selfUser(); !ok {
		return "", errors.ErrNotLoggedIn
	}
	chatID, err := parseID(conversationID)
	if err != nil {
		return "", err
	}
	fromChatID, id, err := parseMessageID(messageID)
	if err != nil {
		return "", err
	}
	if err = p.limiter.Wait(ctx, conversationID); err != nil {
		return "", err
	}
	sent, err := p.client.ForwardMessage(ctx, chatID, fromChatID, id)
	if err != nil {
		return "", err
	}
	payload, err := p.ingest(ctx, sent)
	if err != nil {
		return "", err
	}
	return payload.ID, nil
}

func (p *Puppet) ContactPayload(_ context.Context, contactID string) (domain.ContactPayload, error) {
	return p.directory.GetContact(contactID)
}

func (p *Puppet) RoomPayload(_ context.Context, roomID string) (domain.RoomPayload, error) {
	return p.directory.GetRoom(roomID)
}

// ingest stores the sender, the room and the message itself.
func (p *Puppet) ingest(ctx context.Context, message Message) (domain.MessagePayload, error) {
	payload := toPayload(message)
	if message.From != nil {
		if err := p.sink.Consume(ctx, contactFromUser(*message.From)); err != nil {
			return domain.MessagePayload{}, err
		}
	}
	for _, member := range message.NewChatMembers {
		if err := p.sink.Consume(ctx, contactFromUser(member)); err != nil {
			return domain.MessagePayload{}, err
		}
	}

	if message.Chat.IsGroup() {
		room := domain.RoomPayload{ID: formatID(message.Chat.ID), Topic: message.Chat.Title}
		if message.From != nil {
			room.MemberIDs = append(room.MemberIDs, formatID(message.From.ID))
		}
		for _, member := range message.NewChatMembers {
			room.MemberIDs = append(room.MemberIDs, formatID(member.ID))
		}
		if self, ok := p.selfUser(); ok {
			room.MemberIDs = append(room.MemberIDs, formatID(self.ID))
		}
		if err := p.sink.Consume(ctx, room); err != nil {
			return domain.MessagePayload{}, err
		}
	} else {
		// In a private chat the chat id is the other party
		payload.ListenerID = formatID(message.Chat.ID)
		if self, ok := p.selfUser(); ok && payload.TalkerID != formatID(self.ID) {
			payload.ListenerID = formatID(self.ID)
		}
	}

	payload.MentionIDs = p.mentions(message)
	if err := p.sink.Consume(ctx, payload); err != nil {
		return domain.MessagePayload{}, err
	}
	return payload, nil
}

// mentions resolves text_mention entities and "@username" entities naming the bot.
func (p *Puppet) mentions(message Message) []string {
	self, loggedIn := p.selfUser()
	var ids []string
	for _, entity := range message.Entities {
		switch entity.Type {
		case "text_mention":
			if entity.User != nil {
				ids = append(ids, formatID(entity.User.ID))
			}
		case "mention":
			if loggedIn && self.Username != "" && strings.EqualFold(entitySlice(message.Text, entity), "@"+self.Username) {
				ids = append(ids, formatID(self.ID))
			}
		}
	}
	return lo.Uniq(ids)
}

// mentionEntities turns the "@name" occurrences of mentioned contacts into text_mention entities.
func (p *Puppet) mentionEntities(text string, mentionIDs []string) []Entity {
	var entities []Entity
	for _, id := range mentionIDs {
		contact, err := p.directory.GetContact(id)
		if err != nil {
			p.log.Debug("Mentioned contact unknown", "contact_id", id)
			continue
		}
		userID, err := parseID(id)
		if err != nil {
			continue
		}
		name := "@" + domain.NewContact(contact).DisplayName()
		at := mention.Index(text, name)
		if at < 0 {
			continue
		}
		entities = append(entities, Entity{
			Type:   "text_mention",
			Offset: utf16Len(text[:at]),
			Length: utf16Len(name),
			User:   &User{ID: userID, FirstName: contact.Name},
		})
	}
	return entities
}

func (p *Puppet) selfUser() (User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.self == nil {
		return User{}, false
	}
	return *p.self, true
}

func toPayload(message Message) domain.MessagePayload {
	payload := domain.MessagePayload{
		ID:        fmt.Sprintf("%d:%d", message.Chat.ID, message.MessageID),
		Text:      message.Text,
		Timestamp: time.Unix(message.Date, 0).UTC(),
	}
	if message.From != nil {
		payload.TalkerID = formatID(message.From.ID)
	}
	if message.Chat.IsGroup() {
		payload.RoomID = formatID(message.Chat.ID)
	}

	switch {
	case message.Location != nil:
		payload.Type, payload.SubType = domain.MessageTypeLocation, domain.SubTypeLocation
		payload.Text = fmt.Sprintf("%f,%f", message.Location.Latitude, message.Location.Longitude)
	case len(message.Photo) > 0:
		payload.Type = domain.MessageTypeImage
	case message.Document != nil:
		payload.Type, payload.AppType = domain.MessageTypeAttachment, domain.AppTypeAttachment
	case message.Audio != nil, message.Voice != nil:
		payload.Type = domain.MessageTypeAudio
	case message.Video != nil:
		payload.Type = domain.MessageTypeVideo
	case message.Sticker != nil:
		payload.Type = domain.MessageTypeEmoticon
	case message.Contact != nil:
		payload.Type = domain.MessageTypeContact
		payload.Text = message.Contact.FirstName
	case len(message.NewChatMembers) > 0:
		payload.Type, payload.SubType = domain.MessageTypeGroupNote, domain.SubTypeSystem
	case message.Text != "":
		payload.Type = domain.MessageTypeText
		if lo.ContainsBy(message.Entities, func(e Entity) bool { return e.Type == "url" }) {
			payload.AppType = domain.AppTypeUrl
		}
	}
	if payload.Text == "" {
		payload.Text = message.Caption
	}

	switch {
	case message.ForwardDate != 0:
		payload.SubType = domain.SubTypeForwarded
	case message.ReplyToMessage != nil && payload.SubType == domain.SubTypeNone:
		payload.SubType = domain.SubTypeQuote
	}
	return payload
}

func contactFromUser(user User) domain.ContactPayload {
	contact := domain.ContactPayload{
		ID:    formatID(user.ID),
		Name:  strings.TrimSpace(user.FirstName + " " + user.LastName),
		Alias: user.Username,
		Type:  domain.ContactTypeIndividual,
	}
	if user.IsBot {
		contact.Type = domain.ContactTypeBot
	}
	return contact
}

func entitySlice(text string, entity Entity) string {
	units := utf16.Encode([]rune(text))
	end := entity.Offset + entity.Length
	if entity.Offset < 0 || end > len(units) {
		return ""
	}
	return string(utf16.Decode(units[entity.Offset:end]))
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a telegram id", errors.ErrInvalidPayload, id)
	}
	return v, nil
}

func parseMessageID(id string) (chatID int64, messageID int64, err error) {
	chat, message, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s is not a telegram message id", errors.ErrInvalidPayload, id)
	}
	if chatID, err = parseID(chat); err != nil {
		return 0, 0, err
	}
	if messageID, err = parseID(message); err != nil {
		return 0, 0, err
	}
	return chatID, messageID, nil
}
