package codec

import (
	"puppet-lab/domain"
	"puppet-lab/errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestMessage_Survives_Proto_Wire_With_Nanosecond_Timestamp(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 10, 14, 9, 30, 0, 123456789, time.UTC)
	payload := domain.MessagePayload{
		ID: "m1", Type: domain.MessageTypeText, SubType: domain.SubTypeQuote, AppType: domain.AppTypeUrl,
		TalkerID: "alice", RoomID: "room-1", Text: "@Bob ding", MentionIDs: []string{"bob"}, Timestamp: at,
	}

	s, err := MessageToStruct(payload)
	req.NoError(err)
	bytes, err := proto.Marshal(s)
	req.NoError(err)

	var decoded structpb.Struct
	req.NoError(proto.Unmarshal(bytes, &decoded))
	got, err := MessageFromStruct(&decoded)
	req.NoError(err)
	req.Equal(payload, got)
}

func TestMessageFromStruct_Rejects_Missing_ID(t *testing.T) {
	req := require.New(t)
	s, err := structpb.NewStruct(map[string]any{"text": "orphan"})
	req.NoError(err)

	_, err = MessageFromStruct(s)
	req.ErrorIs(err, errors.ErrInvalidPayload)

	_, err = ContactFromStruct(nil)
	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestMessage_Without_Mentions_Decodes_To_Nil(t *testing.T) {
	req := require.New(t)
	s, err := MessageToStruct(domain.MessagePayload{ID: "m1"})
	req.NoError(err)

	got, err := MessageFromStruct(s)
	req.NoError(err)
	req.Nil(got.MentionIDs)
	req.True(got.Timestamp.IsZero())
}

func TestSayable_FileBox_Keeps_Binary_Data(t *testing.T) {
	req := require.New(t)
	file := domain.FileBox{Name: "blob.bin", MimeType: "application/octet-stream", Data: []byte{0x00, 0xff, 0x10}}

	s, err := SayableToStruct(file)
	req.NoError(err)
	got, err := SayableFromStruct(s)
	req.NoError(err)
	req.Equal(file, got)
}

func TestSayableFromStruct_Unknown_Kind(t *testing.T) {
	req := require.New(t)
	s, err := structpb.NewStruct(map[string]any{"kind": "hologram"})
	req.NoError(err)

	_, err = SayableFromStruct(s)
	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestQuery_Type_Is_Optional(t *testing.T) {
	req := require.New(t)

	s, err := QueryToStruct(domain.MessageQuery{RoomID: "room-1"})
	req.NoError(err)
	req.Nil(QueryFromStruct(s).Type)

	// MessageTypeUnknown is zero and must still survive as an explicit filter
	s, err = QueryToStruct(domain.MessageQuery{Type: lo.ToPtr(domain.MessageTypeUnknown)})
	req.NoError(err)
	got := QueryFromStruct(s)
	req.NotNil(got.Type)
	req.Equal(domain.MessageTypeUnknown, *got.Type)
}
