// Command nftd hosts the asset-class/instance pallet: it loads
// configuration, opens the backing store, and wires together the Deposit
// Ledger, Storage Model, and Operation Engine described by spec.md. The
// actual Host (origin resolution, call dispatch, RPC surface) is out of
// scope (spec.md §1) — this binary exists to prove the wiring and to give
// operators a place to point a durable store at.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nhbchain/config"
	"nhbchain/core/events"
	"nhbchain/currency"
	"nhbchain/native/nft"
	"nhbchain/observability/logging"
	"nhbchain/state"
	"nhbchain/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	memStoreFlag := flag.Bool("mem-store", false, "Use an in-memory store instead of the on-disk LevelDB store (tests, local runs)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("NFTD_ENV"))
	logger := logging.Setup("nftd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	params, err := cfg.EngineParams()
	if err != nil {
		logger.Error("failed to parse engine parameters", "error", err)
		os.Exit(1)
	}

	var store storage.OrderedStore
	if *memStoreFlag {
		store = storage.NewMemStore()
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			logger.Error("failed to create data directory", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		levelStore, err := storage.NewLevelStore(cfg.DataDir)
		if err != nil {
			logger.Error("failed to open store", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		defer levelStore.Close()
		store = levelStore
	}

	ledger := currency.NewLedger(store, fmt.Sprintf("%s/currency/", cfg.InstanceTag))
	manager := state.NewManager(store, cfg.InstanceTag)
	emitter := loggingEmitter{logger: logger}
	engine := nft.NewEngine(manager, ledger, emitter, params)
	_ = engine

	logger.Info("nftd ready",
		"listen", cfg.ListenAddress,
		"instance_tag", cfg.InstanceTag,
		"data_dir", cfg.DataDir,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("nftd shutting down")
}

// loggingEmitter adapts the structured logger into an events.Emitter,
// mirroring native/creator's pattern of an emitter that simply logs every
// event until a richer downstream subscriber is wired in.
type loggingEmitter struct {
	logger *slog.Logger
}

func (e loggingEmitter) Emit(evt events.Event) {
	e.logger.Info("event", "type", evt.EventType())
}
