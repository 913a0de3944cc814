package mcp

import (
	"context"
	"errors"
	"fmt"

	"clanpulse/internal/config"
	"clanpulse/internal/snapshot"
	"clanpulse/internal/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const (
	serverName    = "clanpulse"
	serverVersion = "0.1.0"
)

const serverInstructions = `Clan activity analytics over the latest roster snapshot.
Start with 'dashboard_report' for an overview, then drill down with 'rank_members',
'composite_leaderboard' or 'purge_candidates'. All tools read the active period
unless a 'period' argument is given; 'set_period' changes it for later calls.`

// Server exposes the analytics engine as MCP tools over a snapshot store.
type Server struct {
	store     *snapshot.Store
	cfg       *config.AppConfig
	mcpServer *mcp.Server
}

// NewServer creates an MCP server with every tool registered.
func NewServer(store *snapshot.Store, cfg *config.AppConfig) *Server {
	if cfg == nil {
		cfg = &config.AppConfig{DefaultPeriod: stats.Period7d}
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})

	s := &Server{store: store, cfg: cfg, mcpServer: mcpServer}
	s.registerTools()
	s.registerResources()
	return s
}

// Serve runs the server on stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	log.Info().Str("version", serverVersion).Msg("MCP server starting")
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	log.Info().Msg("MCP server stopped")
	return nil
}

// contextFor returns the active snapshot and a context reading period, or
// the store's period when period is empty. The store is left unchanged.
func (s *Server) contextFor(period string) (*snapshot.Snapshot, stats.ComputationContext, error) {
	snap, cctx, err := s.store.Current()
	if err != nil {
		return nil, stats.ComputationContext{}, fmt.Errorf("%w: call 'reload_snapshot' with the exported clan data file", err)
	}
	if period == "" {
		return snap, cctx, nil
	}
	p, err := stats.ParsePeriod(period)
	if err != nil {
		return nil, stats.ComputationContext{}, err
	}
	return snap, cctx.WithPeriod(p), nil
}

// limitOr resolves an optional limit argument. A negative limit means no
// limit at all.
func limitOr(limit *int, fallback int) int {
	if limit == nil {
		return fallback
	}
	if *limit < 0 {
		return stats.NoLimit
	}
	return *limit
}
