package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clanpulse/internal/report"
	"clanpulse/internal/snapshot"
	"clanpulse/internal/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ReportInput is the dashboard_report argument set.
type ReportInput struct {
	Period string `json:"period,omitempty" jsonschema:"reporting window; defaults to the active period"`
	Charts *bool  `json:"charts,omitempty" jsonschema:"include mermaid charts; defaults to ENABLE_MERMAID_CHARTS"`
	Save   bool   `json:"save,omitempty" jsonschema:"also write the markdown under the reports folder"`
}

// ReportResult is the dashboard_report response.
type ReportResult struct {
	ID       string       `json:"id"`
	Period   stats.Period `json:"period"`
	Markdown string       `json:"markdown"`
	Path     string       `json:"path,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (s *Server) handleDashboardReport(ctx context.Context, _ *mcp.CallToolRequest, in ReportInput) (*mcp.CallToolResult, ReportResult, error) {
	snap, cctx, err := s.contextFor(in.Period)
	if err != nil {
		return nil, ReportResult{}, err
	}

	r, err := report.Build(ctx, snap, cctx)
	if err != nil {
		return nil, ReportResult{}, err
	}

	charts := s.cfg.EnableMermaidCharts
	if in.Charts != nil {
		charts = *in.Charts
	}
	md := report.Markdown(r, report.Options{Charts: charts})

	res := ReportResult{ID: r.ID, Period: cctx.Period, Markdown: md, Warnings: r.Warnings}
	if in.Save {
		path, err := saveReport(s.cfg.ReportsDir, r, md)
		if err != nil {
			return nil, ReportResult{}, err
		}
		res.Path = path
	}

	// The markdown is also sent as text for clients without structured output.
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: md}},
	}, res, nil
}

// saveReport writes md to dir as <date>-<period>-<id prefix>.md.
func saveReport(dir string, r *report.Report, md string) (string, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports folder: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%.8s.md", r.BuiltAt.Format(time.DateOnly), r.Context.Period, r.ID)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", path).Msg("Report saved")
	return path, nil
}

// SetPeriodInput is the set_period argument set.
type SetPeriodInput struct {
	Period string `json:"period" jsonschema:"new active reporting window"`
}

// ContextResult describes the active computation context after a change.
type ContextResult struct {
	Period           stats.Period   `json:"period"`
	Boss30dAvailable bool           `json:"boss_30d_available"`
	Settings         stats.Settings `json:"settings"`
}

func contextResult(cctx stats.ComputationContext) ContextResult {
	return ContextResult{
		Period:           cctx.Period,
		Boss30dAvailable: cctx.Boss30dAvailable,
		Settings:         cctx.Settings,
	}
}

func (s *Server) handleSetPeriod(ctx context.Context, _ *mcp.CallToolRequest, in SetPeriodInput) (*mcp.CallToolResult, ContextResult, error) {
	cctx, err := s.store.SetPeriod(stats.Period(in.Period))
	if err != nil {
		return nil, ContextResult{}, err
	}
	return nil, contextResult(cctx), nil
}

// UpdateSettingsInput is the update_settings argument set.
type UpdateSettingsInput struct {
	Settings map[string]any `json:"settings" jsonschema:"config keys to override, e.g. {\"purge_threshold_days\": 45}"`
}

func (s *Server) handleUpdateSettings(ctx context.Context, _ *mcp.CallToolRequest, in UpdateSettingsInput) (*mcp.CallToolResult, ContextResult, error) {
	if len(in.Settings) == 0 {
		return nil, ContextResult{}, fmt.Errorf("no settings given")
	}
	cctx, err := s.store.Override(in.Settings)
	if err != nil {
		return nil, ContextResult{}, err
	}
	log.Info().Interface("settings", in.Settings).Msg("Settings overridden")
	return nil, contextResult(cctx), nil
}

// ReloadInput is the reload_snapshot argument set.
type ReloadInput struct {
	Path string `json:"path,omitempty" jsonschema:"snapshot file to load instead of the current one"`
}

// ReloadResult summarizes the snapshot now active.
type ReloadResult struct {
	Source      string       `json:"source"`
	GeneratedAt string       `json:"generated_at,omitempty"`
	Members     int          `json:"members"`
	HistoryDays int          `json:"history_days"`
	Degraded    int          `json:"degraded_fields"`
	Period      stats.Period `json:"period"`
	Warnings    []string     `json:"warnings,omitempty"`
}

func (s *Server) handleReloadSnapshot(ctx context.Context, _ *mcp.CallToolRequest, in ReloadInput) (*mcp.CallToolResult, ReloadResult, error) {
	var err error
	switch {
	case in.Path != "":
		err = s.store.Load(in.Path)
	default:
		if err = s.store.Reload(); errors.Is(err, snapshot.ErrNoSnapshot) {
			err = s.store.Load(s.cfg.SnapshotPath())
		}
	}
	if err != nil {
		return nil, ReloadResult{}, err
	}

	snap, cctx, err := s.store.Current()
	if err != nil {
		return nil, ReloadResult{}, err
	}
	res := ReloadResult{
		Source:      snap.Source,
		Members:     len(snap.Members),
		HistoryDays: len(snap.Trend()),
		Degraded:    snap.Degraded,
		Period:      cctx.Period,
		Warnings:    snap.Warnings,
	}
	if !snap.GeneratedAt.IsZero() {
		res.GeneratedAt = snap.GeneratedAt.Format(time.RFC3339)
	}
	return nil, res, nil
}
