package workers

import (
	"context"
	"fmt"
	"log/slog"
	"puppet-lab/domain"
	"puppet-lab/facade"
	"puppet-lab/mocks"
	"puppet-lab/puppet/mock"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestListenerWorker_Hands_Every_Message_To_The_Handler(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	p := mock.New()
	p.Login(domain.ContactPayload{ID: "bot"})
	p.AddContact(domain.ContactPayload{ID: "alice", Name: "Alice"})
	accessory := facade.NewAccessory(p, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var mu sync.Mutex
	var contents []string
	handled := make(chan struct{}, 3)
	handler := func(ctx context.Context, message *facade.Message) error {
		h, err := message.Ready(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		contents = append(contents, h.Content())
		mu.Unlock()
		handled <- struct{}{}
		if h.Content() == "two" {
			return fmt.Errorf("handler failure must not stop the worker")
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- NewListenerWorker(p, accessory, handler, log).Run(ctx) }()

	// Given three inbound messages
	for _, text := range []string{"one", "two", "three"} {
		_, err := p.Receive(ctx, domain.MessagePayload{TalkerID: "alice", ListenerID: "bot", Text: text})
		req.NoError(err)
	}
	for range 3 {
		select {
		case <-handled:
		case <-ctx.Done():
			req.Fail("messages were not all handled")
		}
	}

	// Then they were handled in order and the worker stops cleanly
	cancel()
	req.NoError(<-done)
	mu.Lock()
	defer mu.Unlock()
	req.Equal([]string{"one", "two", "three"}, contents)
}

func TestListenerWorker_Returns_Poll_Errors(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	source := mocks.NewMockIMessageSource(ctrl)
	source.EXPECT().Poll(gomock.Any()).Return(nil, fmt.Errorf("network down"))

	worker := NewListenerWorker(source, facade.NewAccessory(mock.New(), nil), func(context.Context, *facade.Message) error {
		return nil
	}, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.ErrorContains(worker.Run(context.Background()), "network down")
}
