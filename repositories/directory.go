package repositories

import (
	"fmt"
	"puppet-lab/codec"
	"puppet-lab/domain"
	"puppet-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// IDirectoryRepository stores the contacts and rooms a puppet has seen.
type IDirectoryRepository interface {
	StoreContact(contact domain.ContactPayload) error
	GetContact(id string) (domain.ContactPayload, error)
	StoreRoom(room domain.RoomPayload) error
	GetRoom(id string) (domain.RoomPayload, error)
}

type DirectoryRepository struct {
	db *badger.DB
}

func NewDirectoryRepository(db *badger.DB) DirectoryRepository {
	return DirectoryRepository{db: db}
}

func (d DirectoryRepository) StoreContact(contact domain.ContactPayload) error {
	s, err := codec.ContactToStruct(contact)
	if err != nil {
		return err
	}
	return d.set("contact:"+contact.ID, s)
}

func (d DirectoryRepository) GetContact(id string) (domain.ContactPayload, error) {
	s, err := d.get("contact:" + id)
	if err == badger.ErrKeyNotFound {
		return domain.ContactPayload{}, fmt.Errorf("%w: %s", errors.ErrContactNotFound, id)
	}
	if err != nil {
		return domain.ContactPayload{}, err
	}
	return codec.ContactFromStruct(s)
}

func (d DirectoryRepository) StoreRoom(room domain.RoomPayload) error {
	s, err := codec.RoomToStruct(room)
	if err != nil {
		return err
	}
	return d.set("room:"+room.ID, s)
}

func (d DirectoryRepository) GetRoom(id string) (domain.RoomPayload, error) {
	s, err := d.get("room:" + id)
	if err == badger.ErrKeyNotFound {
		return domain.RoomPayload{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
	}
	if err != nil {
		return domain.RoomPayload{}, err
	}
	return codec.RoomFromStruct(s)
}

func (d DirectoryRepository) set(key string, s *structpb.Struct) error {
	data, err := proto.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (d DirectoryRepository) get(key string) (*structpb.Struct, error) {
	var s structpb.Struct
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return proto.Unmarshal(val, &s)
		})
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
