package service

import (
	"context"
	"puppet-lab/codec"
	"puppet-lab/domain"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const Name = "service"

// PuppetClient is a puppet whose every call goes to a remote PuppetServer.
type PuppetClient struct {
	conn grpc.ClientConnInterface
}

func NewPuppetClient(conn grpc.ClientConnInterface) *PuppetClient {
	return &PuppetClient{conn: conn}
}

func (c *PuppetClient) Name() string { return Name }

// RemoteName asks the server which puppet it serves.
func (c *PuppetClient) RemoteName(ctx context.Context) (string, error) {
	out, err := c.invoke(ctx, "Name", &structpb.Struct{})
	if err != nil {
		return "", err
	}
	return stringField(out, "name"), nil
}

func (c *PuppetClient) MessagePayload(ctx context.Context, messageID string) (domain.MessagePayload, error) {
	out, err := c.invokeID(ctx, "MessagePayload", messageID)
	if err != nil {
		return domain.MessagePayload{}, err
	}
	return codec.MessageFromStruct(out)
}

func (c *PuppetClient) MessageSearch(ctx context.Context, query domain.MessageQuery) ([]string, error) {
	in, err := codec.QueryToStruct(query)
	if err != nil {
		return nil, err
	}
	out, err := c.invoke(ctx, "MessageSearch", in)
	if err != nil {
		return nil, err
	}
	return codec.IDsFromStruct(out), nil
}

func (c *PuppetClient) MessageSend(ctx context.Context, conversationID string, sayable domain.Sayable, mentionIDs []string) (string, error) {
	s, err := codec.SayableToStruct(sayable)
	if err != nil {
		return "", err
	}
	ids, err := codec.IDsToStruct(mentionIDs)
	if err != nil {
		return "", err
	}
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"conversation_id": structpb.NewStringValue(conversationID),
		"sayable":         structpb.NewStructValue(s),
		"mention_ids":     ids.GetFields()["ids"],
	}}
	out, err := c.invoke(ctx, "MessageSend", in)
	if err != nil {
		return "", err
	}
	return stringField(out, "id"), nil
}

func (c *PuppetClient) MessageForward(ctx context.Context, conversationID string, messageID string) (string, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"conversation_id": structpb.NewStringValue(conversationID),
		"message_id":      structpb.NewStringValue(messageID),
	}}
	out, err := c.invoke(ctx, "MessageForward", in)
	if err != nil {
		return "", err
	}
	return stringField(out, "id"), nil
}

func (c *PuppetClient) ContactPayload(ctx context.Context, contactID string) (domain.ContactPayload, error) {
	out, err := c.invokeID(ctx, "ContactPayload", contactID)
	if err != nil {
		return domain.ContactPayload{}, err
	}
	return codec.ContactFromStruct(out)
}

func (c *PuppetClient) RoomPayload(ctx context.Context, roomID string) (domain.RoomPayload, error) {
	out, err := c.invokeID(ctx, "RoomPayload", roomID)
	if err != nil {
		return domain.RoomPayload{}, err
	}
	return codec.RoomFromStruct(out)
}

func (c *PuppetClient) SelfID(ctx context.Context) (string, error) {
	out, err := c.invoke(ctx, "SelfID", &structpb.Struct{})
	if err != nil {
		return "", err
	}
	return stringField(out, "id"), nil
}

func (c *PuppetClient) invokeID(ctx context.Context, method, id string) (*structpb.Struct, error) {
	return c.invoke(ctx, method, &structpb.Struct{Fields: map[string]*structpb.Value{
		"id": structpb.NewStringValue(id),
	}})
}

func (c *PuppetClient) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, fromStatus(err)
	}
	return out, nil
}
