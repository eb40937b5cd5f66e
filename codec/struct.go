// Package codec converts domain payloads to and from protobuf Struct messages.
// The same encoding is used for badger values and for the gRPC puppet service.
package codec

import (
	"encoding/base64"
	"fmt"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"time"

	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"
)

func MessageToStruct(p domain.MessagePayload) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":          p.ID,
		"type":        int(p.Type),
		"sub_type":    int(p.SubType),
		"app_type":    int(p.AppType),
		"talker_id":   p.TalkerID,
		"listener_id": p.ListenerID,
		"room_id":     p.RoomID,
		"text":        p.Text,
		"mention_ids": toList(p.MentionIDs),
	}
	if !p.Timestamp.IsZero() {
		fields["timestamp"] = p.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return structpb.NewStruct(fields)
}

func MessageFromStruct(s *structpb.Struct) (domain.MessagePayload, error) {
	f := s.GetFields()
	p := domain.MessagePayload{
		ID:         f["id"].GetStringValue(),
		Type:       domain.MessageType(f["type"].GetNumberValue()),
		SubType:    domain.MessageSubType(f["sub_type"].GetNumberValue()),
		AppType:    domain.AppType(f["app_type"].GetNumberValue()),
		TalkerID:   f["talker_id"].GetStringValue(),
		ListenerID: f["listener_id"].GetStringValue(),
		RoomID:     f["room_id"].GetStringValue(),
		Text:       f["text"].GetStringValue(),
		MentionIDs: fromList(f["mention_ids"]),
	}
	if ts := f["timestamp"].GetStringValue(); ts != "" {
		at, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return domain.MessagePayload{}, fmt.Errorf("%w: timestamp: %v", errors.ErrInvalidPayload, err)
		}
		p.Timestamp = at
	}
	if p.ID == "" {
		return domain.MessagePayload{}, fmt.Errorf("%w: message without id", errors.ErrInvalidPayload)
	}
	return p, nil
}

func ContactToStruct(p domain.ContactPayload) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"alias": p.Alias,
		"type":  int(p.Type),
	})
}

func ContactFromStruct(s *structpb.Struct) (domain.ContactPayload, error) {
	f := s.GetFields()
	p := domain.ContactPayload{
		ID:    f["id"].GetStringValue(),
		Name:  f["name"].GetStringValue(),
		Alias: f["alias"].GetStringValue(),
		Type:  domain.ContactType(f["type"].GetNumberValue()),
	}
	if p.ID == "" {
		return domain.ContactPayload{}, fmt.Errorf("%w: contact without id", errors.ErrInvalidPayload)
	}
	return p, nil
}

func RoomToStruct(p domain.RoomPayload) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":         p.ID,
		"topic":      p.Topic,
		"owner_id":   p.OwnerID,
		"member_ids": toList(p.MemberIDs),
	})
}

func RoomFromStruct(s *structpb.Struct) (domain.RoomPayload, error) {
	f := s.GetFields()
	p := domain.RoomPayload{
		ID:        f["id"].GetStringValue(),
		Topic:     f["topic"].GetStringValue(),
		OwnerID:   f["owner_id"].GetStringValue(),
		MemberIDs: fromList(f["member_ids"]),
	}
	if p.ID == "" {
		return domain.RoomPayload{}, fmt.Errorf("%w: room without id", errors.ErrInvalidPayload)
	}
	return p, nil
}

func SayableToStruct(sayable domain.Sayable) (*structpb.Struct, error) {
	var fields map[string]any
	switch s := sayable.(type) {
	case domain.Text:
		fields = map[string]any{"text": string(s)}
	case domain.FileBox:
		fields = map[string]any{"name": s.Name, "mime_type": s.MimeType, "data": s.Data, "url": s.URL}
	case domain.UrlLink:
		fields = map[string]any{"url": s.URL, "title": s.Title, "description": s.Description, "thumbnail_url": s.ThumbnailURL}
	case domain.ContactCard:
		fields = map[string]any{"contact_id": s.ContactID}
	case domain.Location:
		fields = map[string]any{"name": s.Name, "address": s.Address, "latitude": s.Latitude, "longitude": s.Longitude}
	default:
		return nil, fmt.Errorf("%w: unknown sayable %T", errors.ErrInvalidPayload, sayable)
	}
	fields["kind"] = string(sayable.Kind())
	return structpb.NewStruct(fields)
}

func SayableFromStruct(s *structpb.Struct) (domain.Sayable, error) {
	f := s.GetFields()
	switch kind := domain.SayableKind(f["kind"].GetStringValue()); kind {
	case domain.SayableText:
		return domain.Text(f["text"].GetStringValue()), nil
	case domain.SayableFile:
		var data []byte
		if encoded := f["data"].GetStringValue(); encoded != "" {
			decoded, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("%w: file data: %v", errors.ErrInvalidPayload, err)
			}
			data = decoded
		}
		return domain.FileBox{
			Name:     f["name"].GetStringValue(),
			MimeType: f["mime_type"].GetStringValue(),
			Data:     data,
			URL:      f["url"].GetStringValue(),
		}, nil
	case domain.SayableUrl:
		return domain.UrlLink{
			URL:          f["url"].GetStringValue(),
			Title:        f["title"].GetStringValue(),
			Description:  f["description"].GetStringValue(),
			ThumbnailURL: f["thumbnail_url"].GetStringValue(),
		}, nil
	case domain.SayableContact:
		return domain.ContactCard{ContactID: f["contact_id"].GetStringValue()}, nil
	case domain.SayableLocation:
		return domain.Location{
			Name:      f["name"].GetStringValue(),
			Address:   f["address"].GetStringValue(),
			Latitude:  f["latitude"].GetNumberValue(),
			Longitude: f["longitude"].GetNumberValue(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown sayable kind %q", errors.ErrInvalidPayload, kind)
	}
}

func QueryToStruct(q domain.MessageQuery) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":        q.ID,
		"talker_id": q.TalkerID,
		"to_id":     q.ToID,
		"room_id":   q.RoomID,
		"text":      q.Text,
	}
	if q.Type != nil {
		fields["type"] = int(*q.Type)
	}
	return structpb.NewStruct(fields)
}

func QueryFromStruct(s *structpb.Struct) domain.MessageQuery {
	f := s.GetFields()
	q := domain.MessageQuery{
		ID:       f["id"].GetStringValue(),
		TalkerID: f["talker_id"].GetStringValue(),
		ToID:     f["to_id"].GetStringValue(),
		RoomID:   f["room_id"].GetStringValue(),
		Text:     f["text"].GetStringValue(),
	}
	if v, ok := f["type"]; ok {
		q.Type = lo.ToPtr(domain.MessageType(v.GetNumberValue()))
	}
	return q
}

// IDsToStruct wraps a list of ids, used for search results.
func IDsToStruct(ids []string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"ids": toList(ids)})
}

func IDsFromStruct(s *structpb.Struct) []string {
	return fromList(s.GetFields()["ids"])
}

func toList(values []string) []any {
	return lo.Map(values, func(v string, _ int) any { return v })
}

func fromList(v *structpb.Value) []string {
	values := v.GetListValue().GetValues()
	if len(values) == 0 {
		return nil
	}
	return lo.Map(values, func(item *structpb.Value, _ int) string { return item.GetStringValue() })
}
