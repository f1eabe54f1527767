package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/cohortsim/internal/constants"
	"github.com/nvandessel/cohortsim/internal/ratelimit"
	"github.com/nvandessel/cohortsim/internal/simulation"
	"github.com/nvandessel/cohortsim/internal/store"
)

// Server wraps the MCP SDK server and provides cohortsim tools.
type Server struct {
	server       *sdk.Server
	store        store.RunStore
	root         string
	dataDir      string
	defaults     simulation.Params
	workers      int
	logger       *slog.Logger
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "cohortsim")
	Version string // Server version
	Root    string // Project root directory

	// Scope selects the data directory for history and the audit log.
	// Empty means local.
	Scope constants.Scope

	// Store overrides the SQLite history store. The server closes it.
	Store store.RunStore

	// Defaults fills parameters a cohort_simulate call leaves unset.
	// Nil means simulation.DefaultParams().
	Defaults *simulation.Params

	Workers int
	Logger  *slog.Logger
}

// NewServer creates a new MCP server with cohortsim tools.
func NewServer(cfg *Config) (*Server, error) {
	scope := cfg.Scope
	if scope == "" {
		scope = constants.ScopeLocal
	}
	dataDir, err := store.DataPath(scope, cfg.Root)
	if err != nil {
		return nil, err
	}

	runStore := cfg.Store
	if runStore == nil {
		sqlStore, err := store.NewSQLiteRunStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		runStore = sqlStore
	}

	defaults := simulation.DefaultParams()
	if cfg.Defaults != nil {
		defaults = *cfg.Defaults
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:       mcpServer,
		store:        runStore,
		root:         cfg.Root,
		dataDir:      dataDir,
		defaults:     defaults,
		workers:      workers,
		logger:       logger,
		toolLimiters: ratelimit.NewToolLimiters(),
		auditLogger:  NewAuditLogger(dataDir),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		select {
		case <-sigChan:
			s.logger.Info("shutting down mcp server")
			cancel()
		case <-ctx.Done():
		}
	}()

	s.logger.Info("mcp server listening on stdio", "data_dir", s.dataDir)

	// Run server (blocks)
	err := s.server.Run(ctx, &sdk.StdioTransport{})

	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	auditErr := s.auditLogger.Close()
	if err := s.store.Close(); err != nil {
		return err
	}
	return auditErr
}
