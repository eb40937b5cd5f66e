package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"puppet-lab/errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Order matters, the first sentinel found in the chain decides the code.
var sentinels = []struct {
	err  error
	code codes.Code
}{
	{errors.ErrMessageNotFound, codes.NotFound},
	{errors.ErrContactNotFound, codes.NotFound},
	{errors.ErrRoomNotFound, codes.NotFound},
	{errors.ErrNotLoggedIn, codes.Unauthenticated},
	{errors.ErrInvalidPayload, codes.InvalidArgument},
	{errors.ErrUnsupportedPayload, codes.Unimplemented},
	{errors.ErrNoDestination, codes.FailedPrecondition},
	{errors.ErrTransport, codes.Unavailable},
}

// toStatus keeps the sentinel text in the status message so the client can restore it.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isSentinel(err) {
		return err
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return status.Error(s.code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", errors.ErrTransport, err)
	}
	switch st.Code() {
	case codes.OK:
		return nil
	case codes.Canceled:
		return fmt.Errorf("%w: %s", context.Canceled, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, st.Message())
	}
	for _, s := range sentinels {
		if s.code == st.Code() && strings.Contains(st.Message(), s.err.Error()) {
			return fmt.Errorf("%w: %s", s.err, st.Message())
		}
	}
	return fmt.Errorf("%w: %s: %s", errors.ErrTransport, st.Code(), st.Message())
}

func isSentinel(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return true
		}
	}
	return false
}
