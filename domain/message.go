// Package domain contains core concepts of the chat system.
// This file defines message payloads and their classification tags.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"time"
)

// MessageType is the payload kind of a message.
type MessageType int

const (
	MessageTypeUnknown MessageType = iota
	MessageTypeAttachment
	MessageTypeAudio
	MessageTypeContact
	MessageTypeChatHistory
	MessageTypeEmoticon
	MessageTypeImage
	MessageTypeText
	MessageTypeLocation
	MessageTypeMiniProgram
	MessageTypeGroupNote
	MessageTypeTransfer
	MessageTypeRedEnvelope
	MessageTypeRecalled
	MessageTypeUrl
	MessageTypeVideo
	MessageTypePost
)

var messageTypeNames = map[MessageType]string{
	MessageTypeUnknown:     "Unknown",
	MessageTypeAttachment:  "Attachment",
	MessageTypeAudio:       "Audio",
	MessageTypeContact:     "Contact",
	MessageTypeChatHistory: "ChatHistory",
	MessageTypeEmoticon:    "Emoticon",
	MessageTypeImage:       "Image",
	MessageTypeText:        "Text",
	MessageTypeLocation:    "Location",
	MessageTypeMiniProgram: "MiniProgram",
	MessageTypeGroupNote:   "GroupNote",
	MessageTypeTransfer:    "Transfer",
	MessageTypeRedEnvelope: "RedEnvelope",
	MessageTypeRecalled:    "Recalled",
	MessageTypeUrl:         "Url",
	MessageTypeVideo:       "Video",
	MessageTypePost:        "Post",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(%d)", int(t))
}

// ParseMessageType is the inverse of MessageType.String.
func ParseMessageType(s string) (MessageType, bool) {
	for t, name := range messageTypeNames {
		if name == s {
			return t, true
		}
	}
	return MessageTypeUnknown, false
}

// MessageSubType refines a MessageType, e.g. a text message carrying a location.
type MessageSubType int

const (
	SubTypeNone MessageSubType = iota
	SubTypeLocation
	SubTypeQuote
	SubTypeSystem
	SubTypeForwarded
)

func (t MessageSubType) String() string {
	switch t {
	case SubTypeNone:
		return "None"
	case SubTypeLocation:
		return "Location"
	case SubTypeQuote:
		return "Quote"
	case SubTypeSystem:
		return "System"
	case SubTypeForwarded:
		return "Forwarded"
	}
	return fmt.Sprintf("MessageSubType(%d)", int(t))
}

// AppType classifies app-share messages. Values follow the platform app codes.
type AppType int

const (
	AppTypeNone                  AppType = 0
	AppTypeText                  AppType = 1
	AppTypeImage                 AppType = 2
	AppTypeAudio                 AppType = 3
	AppTypeVideo                 AppType = 4
	AppTypeUrl                   AppType = 5
	AppTypeAttachment            AppType = 6
	AppTypeOpen                  AppType = 7
	AppTypeEmoji                 AppType = 8
	AppTypeRealtimeShareLocation AppType = 17
	AppTypeTransfers             AppType = 2000
	AppTypeRedEnvelopes          AppType = 2001
)

func (t AppType) String() string {
	switch t {
	case AppTypeNone:
		return "None"
	case AppTypeText:
		return "Text"
	case AppTypeImage:
		return "Image"
	case AppTypeAudio:
		return "Audio"
	case AppTypeVideo:
		return "Video"
	case AppTypeUrl:
		return "Url"
	case AppTypeAttachment:
		return "Attachment"
	case AppTypeOpen:
		return "Open"
	case AppTypeEmoji:
		return "Emoji"
	case AppTypeRealtimeShareLocation:
		return "RealtimeShareLocation"
	case AppTypeTransfers:
		return "Transfers"
	case AppTypeRedEnvelopes:
		return "RedEnvelopes"
	}
	return fmt.Sprintf("AppType(%d)", int(t))
}

// MessagePayload is the raw, backend-provided view of a message.
// RoomID and ListenerID are both optional; when RoomID is set the message is room-scoped
// and ListenerID is ignored.
type MessagePayload struct {
	ID         string
	Type       MessageType
	SubType    MessageSubType
	AppType    AppType
	TalkerID   string
	ListenerID string
	RoomID     string
	Text       string
	MentionIDs []string
	Timestamp  time.Time
}

// ConversationID is the room id for room messages and the listener id otherwise.
func (p MessagePayload) ConversationID() string {
	if p.RoomID != "" {
		return p.RoomID
	}
	return p.ListenerID
}

// ThreadID names the conversation a message is stored under: the room id for room
// messages, the DirectThreadID of talker and listener otherwise. Both directions of
// a direct conversation share one thread.
func (p MessagePayload) ThreadID() string {
	if p.RoomID != "" {
		return p.RoomID
	}
	return DirectThreadID(p.TalkerID, p.ListenerID)
}

// DirectThreadID is the thread of the direct conversation between two contacts,
// independent of who is talking.
func DirectThreadID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "+" + b
}

// MessageQuery filters messages. Zero fields are ignored, so the zero query matches everything.
type MessageQuery struct {
	ID       string `validate:"omitempty,max=256"`
	TalkerID string `validate:"omitempty,max=256"`
	ToID     string `validate:"omitempty,max=256"`
	RoomID   string `validate:"omitempty,max=256"`
	Text     string `validate:"omitempty,max=4096"`
	Type     *MessageType
}

// Match reports whether the payload satisfies every non-zero field of the query.
func (q MessageQuery) Match(p MessagePayload) bool {
	if q.ID != "" && q.ID != p.ID {
		return false
	}
	if q.TalkerID != "" && q.TalkerID != p.TalkerID {
		return false
	}
	if q.ToID != "" && (p.RoomID != "" || q.ToID != p.ListenerID) {
		return false
	}
	if q.RoomID != "" && q.RoomID != p.RoomID {
		return false
	}
	if q.Text != "" && q.Text != p.Text {
		return false
	}
	if q.Type != nil && *q.Type != p.Type {
		return false
	}
	return true
}
