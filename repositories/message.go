package repositories

import (
	"fmt"
	"log/slog"
	"puppet-lab/codec"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IMessageRepository interface {
	StoreMessage(message domain.MessagePayload) error
	GetMessage(id string) (domain.MessagePayload, error)
	GetMessages(threadID string, cursor *string) ([]domain.MessagePayload, *string, error)
	SearchMessages(query domain.MessageQuery) ([]domain.MessagePayload, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{thread_id}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the id as a collision disconnector if two messages
//     arrive at the same nanosecond.
//
// The thread is the room id, or domain.DirectThreadID of talker and listener so that
// both directions of a direct conversation land under one prefix.
//
// A secondary "msgid:{id}" entry points at the primary key so messages can be fetched by id.
// Storing the same id again replaces the previous version.
func (m MessageRepository) StoreMessage(message domain.MessagePayload) error {
	if message.ID == "" {
		return fmt.Errorf("%w: message without id", errors.ErrInvalidPayload)
	}
	key := messageKey(message)
	s, err := codec.MessageToStruct(message)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(s)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		indexKey := []byte("msgid:" + message.ID)
		if item, err := txn.Get(indexKey); err == nil {
			previous, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if string(previous) != key {
				if err = txn.Delete(previous); err != nil {
					return err
				}
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set([]byte(key), bytes); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte(key))
	})
}

// GetMessage resolves a message by id through the "msgid:" index.
func (m MessageRepository) GetMessage(id string) (domain.MessagePayload, error) {
	var s structpb.Struct
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("msgid:" + id))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err = txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return proto.Unmarshal(val, &s)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.MessagePayload{}, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	if err != nil {
		return domain.MessagePayload{}, err
	}
	return codec.MessageFromStruct(&s)
}

// GetMessages retrieves messages of a thread (a room id or a domain.DirectThreadID)
// using a prefix scan, newest first.
// Thanks to the padded timestamp in the key, messages are naturally sorted by time.
// It stops collecting messages once the configured limitMessages is reached and
// returns a cursor to pass back for the next (older) page.
func (m MessageRepository) GetMessages(threadID string, cursor *string) ([]domain.MessagePayload, *string, error) {
	var byteMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", threadID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, msg:{thread}:9999999999999999999
			// Then, we go back and find few messages
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[prefixLen:]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.KeyCopy(nil)[prefixLen:])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages, err := decodeMessages(byteMessages)
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

// SearchMessages scans the narrowest prefix the query allows and returns
// matching messages in chronological order. limitMessages does not apply.
func (m MessageRepository) SearchMessages(query domain.MessageQuery) ([]domain.MessagePayload, error) {
	if query.ID != "" {
		message, err := m.GetMessage(query.ID)
		if errors.Is(err, errors.ErrMessageNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if !query.Match(message) {
			return nil, nil
		}
		return []domain.MessagePayload{message}, nil
	}

	prefix := []byte("msg:")
	switch {
	case query.RoomID != "":
		prefix = []byte(fmt.Sprintf("msg:%s:", query.RoomID))
	case query.ToID != "" && query.TalkerID != "":
		prefix = []byte(fmt.Sprintf("msg:%s:", domain.DirectThreadID(query.TalkerID, query.ToID)))
	}

	var res []domain.MessagePayload
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var s structpb.Struct
			err := it.Item().Value(func(val []byte) error {
				return proto.Unmarshal(val, &s)
			})
			if err != nil {
				return err
			}
			message, err := codec.MessageFromStruct(&s)
			if err != nil {
				return err
			}
			if query.Match(message) {
				res = append(res, message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Keys are ordered per conversation, a global scan interleaves them by time here.
	slices.SortStableFunc(res, func(a, b domain.MessagePayload) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return res, nil
}

func messageKey(message domain.MessagePayload) string {
	var at int64
	if !message.Timestamp.IsZero() {
		at = max(message.Timestamp.UnixNano(), 0)
	}
	return fmt.Sprintf("msg:%s:%019d:%s", message.ThreadID(), at, message.ID)
}

func decodeMessages(byteMessages [][]byte) ([]domain.MessagePayload, error) {
	messages := make([]domain.MessagePayload, 0, len(byteMessages))
	for _, b := range byteMessages {
		var s structpb.Struct
		if err := proto.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		message, err := codec.MessageFromStruct(&s)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}
