package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/metrics"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, engine *gamify.Engine, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitTribe", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitTribe gamification server. Query workout streaks, XP leaderboards, badges, team goals, and progressive-overload suggestions."),
	)

	h := &handlers{ds: ds, engine: engine, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetStreak, Handler: h.getStreak},
		server.ServerTool{Tool: toolGetXP, Handler: h.getXP},
		server.ServerTool{Tool: toolGetLeaderboard, Handler: h.getLeaderboard},
		server.ServerTool{Tool: toolGetBadges, Handler: h.getBadges},
		server.ServerTool{Tool: toolGetTeamStats, Handler: h.getTeamStats},
		server.ServerTool{Tool: toolGetSuggestion, Handler: h.getSuggestion},
		server.ServerTool{Tool: toolGetRecentLogs, Handler: h.getRecentLogs},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resBadgeCatalog, Handler: h.badgeCatalog},
		server.ServerResource{Resource: resActivityCatalog, Handler: h.activityCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	engine *gamify.Engine
	log    *slog.Logger
}

// --- Resource definitions ---

var resBadgeCatalog = mcp.NewResource(
	"fittribe://badge_catalog",
	"Badge Catalog",
	mcp.WithResourceDescription("All achievement badges with unlock descriptions and rarities"),
	mcp.WithMIMEType("application/json"),
)

var resActivityCatalog = mcp.NewResource(
	"fittribe://activity_catalog",
	"Activity Catalog",
	mcp.WithResourceDescription("Custom activities with MET values (fitness) and the wellbeing activity list"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) badgeCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, gamify.Catalog)
}

func (h *handlers) activityCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, map[string]any{
		"fitness":   metrics.METValues,
		"wellbeing": metrics.WellbeingActivities,
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
