package internal

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"puppet-lab/domain"
	"puppet-lab/observability"
	"puppet-lab/repositories"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestDefaultMapper(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want InspectRow
	}{
		{
			name: "message key with a telegram id",
			key:  "msg:-100:0000000000000000000:-100:7",
			want: InspectRow{Key: "msg:-100:0000000000000000000:-100:7", Kind: "MESSAGE", Conversation: "-100", Timestamp: "00:00:00", EntityID: "-100:7", Detail: "Size: 3 bytes"},
		},
		{
			name: "contact",
			key:  "contact:alice",
			want: InspectRow{Key: "contact:alice", Kind: "CONTACT", Timestamp: "--:--:--", EntityID: "alice", Detail: "Size: 3 bytes"},
		},
		{
			name: "unknown",
			key:  "other",
			want: InspectRow{Key: "other", Kind: "RAW", Timestamp: "--:--:--", EntityID: "--------", Detail: "Size: 3 bytes"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DefaultMapper(tt.key, 3))
		})
	}
}

func TestDebugHandler_Serves_Inspect_And_Metrics(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()
	repository := repositories.NewMessageRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug), nil)
	req.NoError(repository.StoreMessage(domain.MessagePayload{ID: "m1", TalkerID: "alice", RoomID: "room-1", Text: "ding", Timestamp: time.Now()}))

	registry := prometheus.NewRegistry()
	observability.NewMetrics(registry).Observe("mock", "ready", time.Now(), nil)
	srv := httptest.NewServer(NewDebugHandler(db, registry))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/inspect")
	req.NoError(err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	req.Contains(string(body), "room-1")
	req.Contains(string(body), "1 keys")

	resp, err = http.Get(srv.URL + "/metrics")
	req.NoError(err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	req.Contains(string(body), "puppet_facade_operations_total")
}
