// Package node provides a reusable contract host that can be embedded in
// any binary.
package node

import (
	"fmt"
	"os"

	"github.com/kilnworks/kiln/config"
	"github.com/kilnworks/kiln/internal/contract"
	"github.com/kilnworks/kiln/internal/ledger"
	klog "github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/rpc"
	"github.com/kilnworks/kiln/internal/storage"
	"github.com/kilnworks/kiln/pkg/types"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized contract host: storage, the token ledger,
// the mint contract runtime, and the RPC surface in front of them.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	db      storage.DB
	ledger  *ledger.Store
	coll    *contract.Collection
	runtime *contract.Runtime

	rpcServer *rpc.Server
}

// New creates and initializes a Node. It performs all setup steps
// (logger, storage, collection deployment, RPC) but does not start
// serving. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Set address HRP ──────────────────────────────────────────
	if cfg.Network == config.Testnet {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	// ── 2. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = logsDir + "/kilnd.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	// ── 3. Collection parameters ────────────────────────────────────
	// Parameters come from the collection file if present, otherwise
	// the built-in Kiln Editions deployment. The contract refuses to
	// reopen under changed parameters.
	params, err := config.LoadCollection(cfg.CollectionFile())
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	logger.Info().
		Str("collection", params.Name).
		Str("symbol", params.Symbol).
		Str("network", string(cfg.Network)).
		Uint64("max_supply", params.MaxSupply).
		Uint64("mint_price", params.MintPrice).
		Msg("Starting Kiln contract host")

	// ── 4. Open storage ─────────────────────────────────────────────
	db, err := storage.NewBadger(cfg.StateDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.StateDir(), err)
	}
	logger.Info().Str("path", cfg.StateDir()).Msg("Database opened")

	// ── 5. Ledger + contract ────────────────────────────────────────
	led := ledger.NewStore(db)
	coll, err := contract.New(db, led, params)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open collection: %w", err)
	}
	runtime := contract.NewRuntime(coll)

	minted, err := led.TotalSupply()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read supply: %w", err)
	}
	height, err := coll.Height()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read height: %w", err)
	}
	logger.Info().
		Uint64("minted", minted).
		Uint64("max_supply", params.MaxSupply).
		Uint64("height", height).
		Msg("Collection state loaded")

	// ── 6. RPC server ───────────────────────────────────────────────
	rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
	rpcServer := rpc.New(rpcAddr, runtime, led, cfg.RPC)

	return &Node{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		ledger:    led,
		coll:      coll,
		runtime:   runtime,
		rpcServer: rpcServer,
	}, nil
}

// Start begins serving RPC requests.
func (n *Node) Start() error {
	if err := n.rpcServer.Start(); err != nil {
		return fmt.Errorf("start rpc: %w", err)
	}
	n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server listening")
	return nil
}

// Stop shuts down the RPC server and closes storage.
func (n *Node) Stop() {
	n.logger.Info().Msg("Shutting down")

	if err := n.rpcServer.Stop(); err != nil {
		n.logger.Error().Err(err).Msg("RPC shutdown error")
	}
	if err := n.db.Close(); err != nil {
		n.logger.Error().Err(err).Msg("Database close error")
	}
	n.logger.Info().Msg("Shutdown complete")
}

// RPCAddr returns the address the RPC server is bound to.
func (n *Node) RPCAddr() string {
	return n.rpcServer.Addr()
}

// Runtime returns the contract runtime (used by embedders and tests).
func (n *Node) Runtime() *contract.Runtime {
	return n.runtime
}

// Ledger returns the token ledger store.
func (n *Node) Ledger() *ledger.Store {
	return n.ledger
}
