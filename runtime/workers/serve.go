package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
)

// GrpcWorker serves a gRPC server on a listener until the context is done,
// then stops it gracefully.
type GrpcWorker struct {
	server   *grpc.Server
	listener net.Listener
	log      *slog.Logger
}

func NewGrpcWorker(server *grpc.Server, listener net.Listener, log *slog.Logger) GrpcWorker {
	return GrpcWorker{server: server, listener: listener, log: log}
}

func (w GrpcWorker) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting gRPC server", "address", w.listener.Addr().String(), "at", time.Now().UTC())
		for serviceName := range w.server.GetServiceInfo() {
			w.log.Debug("gRPC exposed services", "name", serviceName)
		}
		errChan <- w.server.Serve(w.listener)
	}()

	select {
	case <-ctx.Done():
		w.server.GracefulStop()
		<-errChan
		return nil
	case err := <-errChan:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("gRPC server error: %w", err)
	}
}

// HttpWorker serves an http.Server until the context is done.
type HttpWorker struct {
	server          *http.Server
	shutdownTimeout time.Duration
	log             *slog.Logger
}

func NewHttpWorker(server *http.Server, shutdownTimeout time.Duration, log *slog.Logger) HttpWorker {
	return HttpWorker{server: server, shutdownTimeout: shutdownTimeout, log: log}
}

func (w HttpWorker) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting HTTP server", "address", w.server.Addr)
		errChan <- w.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()
		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.log.Warn("HTTP server shutdown failed", "error", err)
		}
		<-errChan
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
