package storage

import (
	"context"
	"fmt"
	"log/slog"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/repositories"
	"slices"
)

// DiskSink writes the payloads a puppet observes to the repositories.
type DiskSink struct {
	messages  repositories.IMessageRepository
	directory repositories.IDirectoryRepository
	log       *slog.Logger
}

func NewDiskSink(messages repositories.IMessageRepository, directory repositories.IDirectoryRepository, log *slog.Logger) DiskSink {
	return DiskSink{messages: messages, directory: directory, log: log}
}

// Consume stores a message, contact or room payload.
// Rooms are merged with the stored version so members seen earlier are kept.
func (d DiskSink) Consume(_ context.Context, payload any) error {
	switch p := payload.(type) {
	case domain.MessagePayload:
		return d.messages.StoreMessage(p)
	case domain.ContactPayload:
		return d.directory.StoreContact(p)
	case domain.RoomPayload:
		return d.directory.StoreRoom(d.mergeRoom(p))
	default:
		d.log.Debug(fmt.Sprintf("Not implemented payload : %T", p))
		return nil
	}
}

func (d DiskSink) mergeRoom(room domain.RoomPayload) domain.RoomPayload {
	stored, err := d.directory.GetRoom(room.ID)
	if err != nil {
		if !errors.Is(err, errors.ErrRoomNotFound) {
			d.log.Warn("Unable to read stored room", "room_id", room.ID, "error", err)
		}
		return room
	}
	members := slices.Clone(stored.MemberIDs)
	for _, id := range room.MemberIDs {
		if !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	room.MemberIDs = members
	if room.Topic == "" {
		room.Topic = stored.Topic
	}
	if room.OwnerID == "" {
		room.OwnerID = stored.OwnerID
	}
	return room
}
