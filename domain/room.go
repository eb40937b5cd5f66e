package domain

import "slices"

type RoomPayload struct {
	ID        string
	Topic     string
	OwnerID   string
	MemberIDs []string
}

// Equal compares every field, member order included.
func (p RoomPayload) Equal(other RoomPayload) bool {
	return p.ID == other.ID && p.Topic == other.Topic && p.OwnerID == other.OwnerID &&
		slices.Equal(p.MemberIDs, other.MemberIDs)
}

// Room is a group conversation entity. One *Room exists per id, see runtime.Registry.
type Room struct {
	ID        string
	Topic     string
	OwnerID   string
	MemberIDs []string
}

func NewRoom(payload RoomPayload) *Room {
	return &Room{
		ID:        payload.ID,
		Topic:     payload.Topic,
		OwnerID:   payload.OwnerID,
		MemberIDs: slices.Clone(payload.MemberIDs),
	}
}

func (r *Room) Payload() RoomPayload {
	return RoomPayload{ID: r.ID, Topic: r.Topic, OwnerID: r.OwnerID, MemberIDs: slices.Clone(r.MemberIDs)}
}

func (r *Room) ConversationID() string {
	return r.ID
}

func (r *Room) Equal(other *Room) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.ID == other.ID
}

func (r *Room) HasMember(contactID string) bool {
	return slices.Contains(r.MemberIDs, contactID)
}

func (r *Room) String() string {
	if r == nil {
		return "Room<nil>"
	}
	if r.Topic != "" {
		return "Room<" + r.Topic + ">"
	}
	return "Room<" + r.ID + ">"
}
