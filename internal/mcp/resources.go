package mcp

import (
	"context"
	"fmt"

	"clanpulse/internal/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const dashboardURI = "clanpulse://dashboard"

func dashboardResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "dashboard",
		Title:       "Clan Dashboard",
		Description: "Markdown dashboard for the active snapshot and period",
		MIMEType:    "text/markdown",
		URI:         dashboardURI,
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(dashboardResource(), s.readDashboard)
}

func (s *Server) readDashboard(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap, cctx, err := s.contextFor("")
	if err != nil {
		return nil, err
	}
	r, err := report.Build(ctx, snap, cctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	uri := dashboardURI
	if req != nil && req.Params != nil && req.Params.URI != "" {
		uri = req.Params.URI
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     report.Markdown(r, report.Options{Charts: s.cfg.EnableMermaidCharts}),
			},
		},
	}, nil
}
