package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"puppet-lab/facade"
	"puppet-lab/repositories"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const (
	getMe   = `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Ding","username":"dingbot"}}`
	updates = `{"ok":true,"result":[
		{"update_id":10,"message":{"message_id":7,"from":{"id":1,"first_name":"Alice","username":"alice"},"chat":{"id":-100,"type":"supergroup","title":"ding dong"},"date":1700000000,"text":"@dingbot ding @bob","entities":[{"type":"mention","offset":0,"length":8},{"type":"text_mention","offset":14,"length":4,"user":{"id":2,"first_name":"Bob"}}]}},
		{"update_id":11,"message":{"message_id":3,"from":{"id":1,"first_name":"Alice","username":"alice"},"chat":{"id":1,"type":"private"},"date":1700000060,"location":{"latitude":48.85,"longitude":2.35}}}
	]}`
)

// botAPI fakes the Bot API, recording the body of every call by method.
type botAPI struct {
	mu     sync.Mutex
	calls  map[string][]string
	nextID int64
}

func (b *botAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		method := strings.TrimPrefix(r.URL.Path, "/")
		b.mu.Lock()
		b.calls[method] = append(b.calls[method], string(body))
		b.nextID++
		id := b.nextID
		b.mu.Unlock()

		switch method {
		case "getMe":
			_, _ = io.WriteString(w, getMe)
		case "getUpdates":
			var params struct {
				Offset int64 `json:"offset"`
			}
			_ = json.Unmarshal(body, &params)
			if params.Offset > 11 {
				_, _ = io.WriteString(w, `{"ok":true,"result":[]}`)
				return
			}
			_, _ = io.WriteString(w, updates)
		case "sendMessage", "forwardMessage", "sendLocation", "sendPhoto", "sendDocument":
			var params struct {
				ChatID int64  `json:"chat_id"`
				Text   string `json:"text"`
			}
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				_ = json.Unmarshal(body, &params)
			} else {
				params.ChatID = -100
			}
			chatType := "private"
			if params.ChatID < 0 {
				chatType = "supergroup"
			}
			sent := map[string]any{
				"message_id": 1000 + id,
				"from":       map[string]any{"id": 42, "is_bot": true, "first_name": "Ding", "username": "dingbot"},
				"chat":       map[string]any{"id": params.ChatID, "type": chatType},
				"date":       1700000120,
				"text":       params.Text,
			}
			if method == "forwardMessage" {
				sent["forward_date"] = 1700000000
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": sent})
		case "broken":
			_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request"}`)
		default:
			t.Logf("unexpected method %s", method)
			http.NotFound(w, r)
		}
	})
}

func (b *botAPI) bodies(method string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls[method]...)
}

func newPuppet(t *testing.T) (*Puppet, *botAPI) {
	t.Helper()
	api := &botAPI{calls: make(map[string][]string)}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	p := NewPuppet(NewClient(srv.URL, 2*time.Second),
		repositories.NewMessageRepository(db, log, nil),
		repositories.NewDirectoryRepository(db),
		log, Config{SendRPS: 100, SendBurst: 10})
	return p, api
}

func TestPuppet_SelfID_Requires_Login(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	p, _ := newPuppet(t)

	_, err := p.SelfID(ctx)
	req.ErrorIs(err, errors.ErrNotLoggedIn)
	_, err = p.MessageSend(ctx, "1", domain.Text("ding"), nil)
	req.ErrorIs(err, errors.ErrNotLoggedIn)

	req.NoError(p.Login(ctx))
	id, err := p.SelfID(ctx)
	req.NoError(err)
	req.Equal("42", id)

	self, err := p.ContactPayload(ctx, "42")
	req.NoError(err)
	req.Equal(domain.ContactTypeBot, self.Type)
	req.Equal("dingbot", self.Alias)
}

func TestPuppet_Poll_Stores_Updates(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	p, api := newPuppet(t)

	// When polling, login happens first
	ids, err := p.Poll(ctx)
	req.NoError(err)
	req.Equal([]string{"-100:7", "1:3"}, ids)
	req.Len(api.bodies("getMe"), 1)

	// Then the room message carries room, mentions and timestamp
	inRoom, err := p.MessagePayload(ctx, "-100:7")
	req.NoError(err)
	req.Equal("-100", inRoom.RoomID)
	req.Equal("1", inRoom.TalkerID)
	req.Equal(domain.MessageTypeText, inRoom.Type)
	req.Equal([]string{"42", "2"}, inRoom.MentionIDs)
	req.Equal(time.Unix(1700000000, 0).UTC(), inRoom.Timestamp)

	room, err := p.RoomPayload(ctx, "-100")
	req.NoError(err)
	req.Equal("ding dong", room.Topic)
	req.ElementsMatch([]string{"1", "42"}, room.MemberIDs)

	// And the private message is addressed to the bot
	direct, err := p.MessagePayload(ctx, "1:3")
	req.NoError(err)
	req.Equal("42", direct.ListenerID)
	req.Empty(direct.RoomID)
	req.Equal(domain.MessageTypeLocation, direct.Type)

	// The offset moved past the last update
	ids, err = p.Poll(ctx)
	req.NoError(err)
	req.Empty(ids)
	req.Contains(api.bodies("getUpdates")[1], `"offset":12`)
}

func TestPuppet_MessageSend_Text_With_Mentions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	p, api := newPuppet(t)
	_, err := p.Poll(ctx)
	req.NoError(err)

	id, err := p.MessageSend(ctx, "-100", domain.Text("@alice dong"), []string{"1"})
	req.NoError(err)
	req.True(strings.HasPrefix(id, "-100:"))

	body := api.bodies("sendMessage")[0]
	req.Contains(body, `"chat_id":-100`)
	req.Contains(body, `"type":"text_mention"`)
	req.Contains(body, `"offset":0,"length":6`)

	// The sent message is stored and searchable
	ids, err := p.MessageSearch(ctx, domain.MessageQuery{RoomID: "-100", TalkerID: "42"})
	req.NoError(err)
	req.Equal([]string{id}, ids)
}

func TestPuppet_Mention_Entities_Do_Not_Land_Inside_Longer_Names(t *testing.T) {
	req := require.New(t)
	p, _ := newPuppet(t)
	req.NoError(p.directory.StoreContact(domain.ContactPayload{ID: "7", Name: "Alice"}))
	req.NoError(p.directory.StoreContact(domain.ContactPayload{ID: "8", Name: "Al"}))

	entities := p.mentionEntities("@Alice\u2005@Al\u2005dong", []string{"8", "7"})

	req.Len(entities, 2)
	req.Equal(int64(8), entities[0].User.ID)
	req.Equal(7, entities[0].Offset)
	req.Equal(3, entities[0].Length)
	req.Equal(int64(7), entities[1].User.ID)
	req.Equal(0, entities[1].Offset)
	req.Equal(6, entities[1].Length)
}

func TestPuppet_MessageSend_Structured_Payloads(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	p, api := newPuppet(t)
	req.NoError(p.Login(ctx))

	_, err := p.MessageSend(ctx, "1", domain.Location{Name: "Paris", Latitude: 48.85, Longitude: 2.35}, nil)
	req.NoError(err)
	req.Contains(api.bodies("sendLocation")[0], `"latitude":48.85`)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err = p.MessageSend(ctx, "-100", domain.FileBox{Name: "dot.png", Data: png}, nil)
	req.NoError(err)
	req.Len(api.bodies("sendPhoto"), 1)
	req.Contains(api.bodies("sendPhoto")[0], `filename="dot.png"`)

	_, err = p.MessageSend(ctx, "1", domain.FileBox{Name: "report.pdf", MimeType: "application/pdf", URL: "https://example.com/report.pdf"}, nil)
	req.NoError(err)
	req.Contains(api.bodies("sendDocument")[0], `"document":"https://example.com/report.pdf"`)

	_, err = p.MessageSend(ctx, "1", domain.ContactCard{ContactID: "2"}, nil)
	req.ErrorIs(err, errors.ErrUnsupportedPayload)

	_, err = p.MessageSend(ctx, "not-a-chat", domain.Text("ding"), nil)
	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestPuppet_MessageForward(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	p, api := newPuppet(t)
	_, err := p.Poll(ctx)
	req.NoError(err)

	id, err := p.MessageForward(ctx, "1", "-100:7")
	req.NoError(err)
	req.Contains(api.bodies("forwardMessage")[0], `"from_chat_id":-100`)

	forwarded, err := p.MessagePayload(ctx, id)
	req.NoError(err)
	req.Equal(domain.SubTypeForwarded, forwarded.SubType)
	req.Equal("1", forwarded.ListenerID)
}

func TestClient_Reports_Api_Errors(t *testing.T) {
	req := require.New(t)
	api := &botAPI{calls: make(map[string][]string)}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).call(context.Background(), "broken", map[string]any{}, nil)
	req.ErrorIs(err, errors.ErrTransport)
	req.Contains(err.Error(), "Bad Request")
}

func TestPuppet_Through_The_Facade(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	p, api := newPuppet(t)
	ids, err := p.Poll(ctx)
	req.NoError(err)
	accessory := facade.NewAccessory(p, nil)

	// Given the polled room message
	h, err := accessory.Message(ids[0]).Ready(ctx)
	req.NoError(err)
	req.True(h.MentionSelf())
	req.False(h.Self())
	req.Equal("Alice", h.From().Name)

	// When replying to its sender
	_, err = h.Say(ctx, domain.Text("dong"), h.From())
	req.NoError(err)

	// Then the bot mentions alice by username in the room
	body := api.bodies("sendMessage")[0]
	req.Contains(body, `"chat_id":-100`)
	req.Contains(body, "\"text\":\"@alice\u2005dong\"")
}
