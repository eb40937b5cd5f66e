package storage

import (
	"context"
	"log/slog"
	"puppet-lab/domain"
	"puppet-lab/repositories"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newSink(t *testing.T) (DiskSink, repositories.MessageRepository, repositories.DirectoryRepository) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	messages := repositories.NewMessageRepository(db, log, nil)
	directory := repositories.NewDirectoryRepository(db)
	return NewDiskSink(messages, directory, log), messages, directory
}

func TestDiskSink_Consume_Stores_Payloads(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	sink, messages, directory := newSink(t)

	req.NoError(sink.Consume(ctx, domain.ContactPayload{ID: "alice", Name: "Alice"}))
	req.NoError(sink.Consume(ctx, domain.MessagePayload{ID: "m1", TalkerID: "alice", ListenerID: "bot", Text: "ding", Timestamp: time.Now().UTC()}))
	// Unknown payloads are ignored
	req.NoError(sink.Consume(ctx, "ding"))

	contact, err := directory.GetContact("alice")
	req.NoError(err)
	req.Equal("Alice", contact.Name)
	message, err := messages.GetMessage("m1")
	req.NoError(err)
	req.Equal("ding", message.Text)
}

func TestDiskSink_Consume_Merges_Room_Members(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	sink, _, directory := newSink(t)

	// Given a room seen once with alice then with bob and no topic
	req.NoError(sink.Consume(ctx, domain.RoomPayload{ID: "-100", Topic: "ding dong", MemberIDs: []string{"alice"}}))
	req.NoError(sink.Consume(ctx, domain.RoomPayload{ID: "-100", MemberIDs: []string{"bob", "alice"}}))

	// Then both members and the topic are kept
	room, err := directory.GetRoom("-100")
	req.NoError(err)
	req.Equal([]string{"alice", "bob"}, room.MemberIDs)
	req.Equal("ding dong", room.Topic)
}
