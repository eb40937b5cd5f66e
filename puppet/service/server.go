// Package service exposes any puppet over gRPC and provides the matching client puppet.
//
// Messages are google.protobuf.Struct values built by the codec package, so the service
// is declared by hand instead of being generated from a .proto file.
package service

import (
	"context"
	"log/slog"
	"puppet-lab/codec"
	"puppet-lab/contract"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "puppetlab.puppet.v1.PuppetService"

// PuppetServiceServer is the server side of the puppet service.
type PuppetServiceServer interface {
	Name(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MessagePayload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MessageSearch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MessageSend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MessageForward(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ContactPayload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RoomPayload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelfID(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PuppetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Name", Handler: handler("Name", PuppetServiceServer.Name)},
		{MethodName: "MessagePayload", Handler: handler("MessagePayload", PuppetServiceServer.MessagePayload)},
		{MethodName: "MessageSearch", Handler: handler("MessageSearch", PuppetServiceServer.MessageSearch)},
		{MethodName: "MessageSend", Handler: handler("MessageSend", PuppetServiceServer.MessageSend)},
		{MethodName: "MessageForward", Handler: handler("MessageForward", PuppetServiceServer.MessageForward)},
		{MethodName: "ContactPayload", Handler: handler("ContactPayload", PuppetServiceServer.ContactPayload)},
		{MethodName: "RoomPayload", Handler: handler("RoomPayload", PuppetServiceServer.RoomPayload)},
		{MethodName: "SelfID", Handler: handler("SelfID", PuppetServiceServer.SelfID)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "puppet.proto",
}

func RegisterPuppetServiceServer(registrar grpc.ServiceRegistrar, srv PuppetServiceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func handler(method string, call func(PuppetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PuppetServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(PuppetServiceServer), ctx, req.(*structpb.Struct))
		})
	}
}

// PuppetServer serves a puppet to remote facades.
type PuppetServer struct {
	puppet contract.IPuppet
	log    *slog.Logger
}

func NewPuppetServer(puppet contract.IPuppet, log *slog.Logger) *PuppetServer {
	return &PuppetServer{puppet: puppet, log: log}
}

func (s *PuppetServer) Name(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"name": s.puppet.Name()})
}

func (s *PuppetServer) MessagePayload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	payload, err := s.puppet.MessagePayload(ctx, stringField(in, "id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return codec.MessageToStruct(payload)
}

func (s *PuppetServer) MessageSearch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ids, err := s.puppet.MessageSearch(ctx, codec.QueryFromStruct(in))
	if err != nil {
		return nil, toStatus(err)
	}
	return codec.IDsToStruct(ids)
}

func (s *PuppetServer) MessageSend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sayable, err := codec.SayableFromStruct(in.GetFields()["sayable"].GetStructValue())
	if err != nil {
		return nil, toStatus(err)
	}
	mentionIDs := codec.IDsFromStruct(&structpb.Struct{Fields: map[string]*structpb.Value{"ids": in.GetFields()["mention_ids"]}})
	id, err := s.puppet.MessageSend(ctx, stringField(in, "conversation_id"), sayable, mentionIDs)
	if err != nil {
		s.log.Debug("Remote send failed", "conversation_id", stringField(in, "conversation_id"), "error", err)
		return nil, toStatus(err)
	}
	return idStruct(id)
}

func (s *PuppetServer) MessageForward(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.puppet.MessageForward(ctx, stringField(in, "conversation_id"), stringField(in, "message_id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return idStruct(id)
}

func (s *PuppetServer) ContactPayload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	payload, err := s.puppet.ContactPayload(ctx, stringField(in, "id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return codec.ContactToStruct(payload)
}

func (s *PuppetServer) RoomPayload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	payload, err := s.puppet.RoomPayload(ctx, stringField(in, "id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return codec.RoomToStruct(payload)
}

func (s *PuppetServer) SelfID(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.puppet.SelfID(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return idStruct(id)
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func idStruct(id string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": id})
}
