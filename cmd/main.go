package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"puppet-lab/bot"
	"puppet-lab/contract"
	"puppet-lab/domain"
	"puppet-lab/facade"
	"puppet-lab/internal"
	"puppet-lab/observability"
	"puppet-lab/puppet/mock"
	"puppet-lab/puppet/service"
	"puppet-lab/puppet/telegram"
	"puppet-lab/repositories"
	"puppet-lab/runtime"
	"puppet-lab/runtime/workers"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the puppet, serves it over gRPC, answers dings and blocks until a signal.
// Returning instead of exiting lets every defer run.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Puppet
	puppet, err := newPuppet(config, db, log)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	accessory := facade.NewAccessory(puppet, log,
		facade.WithRegistry(runtime.NewRegistry()),
		facade.WithMetrics(observability.NewMetrics(registry)),
	)

	// 4. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpc3.UnaryLoggingInterceptor(log),
	))
	service.RegisterPuppetServiceServer(s, service.NewPuppetServer(puppet, log))

	debugServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.DebugPort),
		Handler: internal.NewDebugHandler(db, registry),
	}

	// 5. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewGrpcWorker(s, listener, log),
		workers.NewHttpWorker(debugServer, config.ShutdownTimeout, log),
	)
	if source, ok := puppet.(contract.IMessageSource); ok {
		sup.Add(workers.NewListenerWorker(source, accessory, bot.NewDingDong(log).Handle, log))
	}

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Puppet started", "puppet", puppet.Name(), "address", address)
	sup.Run(ctx)
	log.Info("Program stopped cleanly")
	return nil
}

func newPuppet(config internal.Config, db *badger.DB, log *slog.Logger) (contract.IPuppet, error) {
	switch config.Puppet {
	case mock.Name:
		p := mock.New()
		p.Login(domain.ContactPayload{ID: config.MockSelfID, Name: config.MockSelfName, Type: domain.ContactTypeBot})
		return p, nil
	case telegram.Name:
		client := telegram.NewClient(config.TelegramBaseURL(), config.TelegramTimeout)
		return telegram.NewPuppet(client,
			repositories.NewMessageRepository(db, log, config.LimitMessages),
			repositories.NewDirectoryRepository(db),
			log,
			telegram.Config{
				PollTimeout: config.TelegramPollTimeout,
				SendRPS:     config.SendRPS,
				SendBurst:   config.SendBurst,
			}), nil
	default:
		return nil, fmt.Errorf("unknown puppet %q", config.Puppet)
	}
}
