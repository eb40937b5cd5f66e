package main

import (
	"fmt"
	"log"
	"net/http"
	"puppet-lab/internal"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while the running puppet holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 3. Start Debug Server Only, nothing is measured in viewer mode
	address := fmt.Sprintf("%s:%d", config.Host, config.DebugPort)
	fmt.Printf("Viewer started at http://%s/inspect\n", address)
	if err := http.ListenAndServe(address, internal.NewDebugHandler(db, prometheus.NewRegistry())); err != nil {
		log.Fatalf("Viewer stopped: %v", err)
	}
}
