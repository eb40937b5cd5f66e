package domain

type ContactType int

const (
	ContactTypeUnknown ContactType = iota
	ContactTypeIndividual
	ContactTypeOfficial
	ContactTypeBot
)

type ContactPayload struct {
	ID    string
	Name  string
	Alias string
	Type  ContactType
}

// Contact is a chat account. One *Contact exists per id, see runtime.Registry.
type Contact struct {
	ID    string
	Name  string
	Alias string
	Type  ContactType
}

func NewContact(payload ContactPayload) *Contact {
	return &Contact{
		ID:    payload.ID,
		Name:  payload.Name,
		Alias: payload.Alias,
		Type:  payload.Type,
	}
}

func (c *Contact) Payload() ContactPayload {
	return ContactPayload{ID: c.ID, Name: c.Name, Alias: c.Alias, Type: c.Type}
}

func (c *Contact) ConversationID() string {
	return c.ID
}

func (c *Contact) Equal(other *Contact) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.ID == other.ID
}

// DisplayName is the alias when one is set, the name otherwise.
func (c *Contact) DisplayName() string {
	if c.Alias != "" {
		return c.Alias
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func (c *Contact) String() string {
	if c == nil {
		return "Contact<nil>"
	}
	return "Contact<" + c.DisplayName() + ">"
}

// Conversation is anything a message can be sent to.
type Conversation interface {
	ConversationID() string
}
