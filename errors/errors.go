package errors

import (
	stderrors "errors"
	"fmt"
)

// Top level kinds surfaced by the facade. Specific causes below are wrapped into one of them.
var (
	ErrHydration    = fmt.Errorf("message hydration failed")
	ErrSend         = fmt.Errorf("message send failed")
	ErrPrecondition = fmt.Errorf("precondition violation")
)

var (
	ErrMessageNotFound      = fmt.Errorf("message not found")
	ErrContactNotFound      = fmt.Errorf("contact not found")
	ErrRoomNotFound         = fmt.Errorf("room not found")
	ErrNotLoggedIn          = fmt.Errorf("puppet is not logged in")
	ErrNoDestination        = fmt.Errorf("message has neither a room nor a recipient")
	ErrNoTalker             = fmt.Errorf("message has no talker")
	ErrAmbiguousDestination = fmt.Errorf("message cannot target both a room and a recipient")
	ErrAlreadySet           = fmt.Errorf("field already set")
	ErrReplyWithoutRoom     = fmt.Errorf("can not reply to contacts without a room")
	ErrInvalidPayload       = fmt.Errorf("invalid payload")
	ErrUnsupportedPayload   = fmt.Errorf("payload not supported by puppet")
	ErrTransport            = fmt.Errorf("transport error")
	ErrWorkerPanic          = fmt.Errorf("worker panic")
)

// Is lets callers importing this package keep using errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
