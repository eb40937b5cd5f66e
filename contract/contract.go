//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"puppet-lab/domain"
	"reflect"
)

// IPuppet is the transport backend behind every facade.
// Implementations own the live session; the facade only issues requests through them.
type IPuppet interface {
	// Name identifies the backend in logs and metrics (e.g. "mock", "telegram").
	Name() string
	MessagePayload(ctx context.Context, messageID string) (domain.MessagePayload, error)
	// MessageSearch returns matching message ids in chronological order.
	MessageSearch(ctx context.Context, query domain.MessageQuery) ([]string, error)
	// MessageSend returns the id of the sent message, empty when the backend does not report one.
	MessageSend(ctx context.Context, conversationID string, sayable domain.Sayable, mentionIDs []string) (string, error)
	MessageForward(ctx context.Context, conversationID string, messageID string) (string, error)
	ContactPayload(ctx context.Context, contactID string) (domain.ContactPayload, error)
	RoomPayload(ctx context.Context, roomID string) (domain.RoomPayload, error)
	// SelfID returns the logged-in account id, errors.ErrNotLoggedIn before login.
	SelfID(ctx context.Context) (string, error)
}

// IMessageSource is implemented by puppets able to push inbound messages.
// Poll blocks until new messages arrive or ctx is done and returns their ids.
type IMessageSource interface {
	Poll(ctx context.Context) ([]string, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
