package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
	"github.com/HarelItay/leaders-alumni-association/internal/prefs"
	"github.com/HarelItay/leaders-alumni-association/internal/search"
	"github.com/HarelItay/leaders-alumni-association/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store     *storage.Store
	Directory *directory.Directory
	Scorer    search.Scorer
	Prefs     *prefs.Manager
}

// NewMCPServer creates an MCP server with all alumnid tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"alumnid",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("alumnid — local alumni directory with relevance-ranked search over profiles."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("search_alumni",
			mcp.WithDescription("Search the alumni directory by free-text query and return relevance-ranked profiles."),
			mcp.WithString("query", mcp.Description("Search query, e.g. \"fintech founders in london\""), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpSearchAlumni(deps),
	)

	s.AddTool(
		mcp.NewTool("get_profile",
			mcp.WithDescription("Fetch one alumni profile by ID."),
			mcp.WithString("id", mcp.Description("Profile ID"), mcp.Required()),
		),
		mcpGetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("set_preference",
			mcp.WithDescription("Update a directory preference field."),
			mcp.WithString("key", mcp.Description("Preference key (e.g. view_mode, default_filters.industry)"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value to set"), mcp.Required()),
		),
		mcpSetPreference(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"directory://stats",
			"Directory Statistics",
			mcp.WithResourceDescription("Profile counts by industry and availability"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStats(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"prefs://current",
			"Current Preferences",
			mcp.WithResourceDescription("Current directory preferences as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourcePrefs(deps),
	)

	return s
}

func mcpSearchAlumni(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 50 {
			limit = 50
		}

		results, err := deps.Scorer.Search(ctx, query, deps.Directory.All())
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}
		if len(results) > limit {
			results = results[:limit]
		}

		if deps.Prefs == nil || deps.Prefs.SearchHistoryEnabled() {
			_ = deps.Store.SaveSearch(storage.SearchEntry{
				ID:          uuid.New().String(),
				Query:       query,
				ResultCount: len(results),
				Source:      "mcp",
				CreatedAt:   time.Now().UTC(),
			})
		}

		if len(results) == 0 {
			return mcpText("[]"), nil
		}

		type hit struct {
			ID        string  `json:"id"`
			Name      string  `json:"name"`
			Role      string  `json:"role,omitempty"`
			Company   string  `json:"company,omitempty"`
			Industry  string  `json:"industry,omitempty"`
			Relevance float64 `json:"relevance"`
		}

		hits := make([]hit, len(results))
		for i, res := range results {
			hits[i] = hit{
				ID:        res.Profile.ID,
				Name:      res.Profile.DisplayName(),
				Role:      res.Profile.Professional.CurrentRole,
				Company:   res.Profile.Professional.Company,
				Industry:  res.Profile.Professional.Industry,
				Relevance: res.Relevance,
			}
		}

		b, err := json.Marshal(hits)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpGetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		p, err := deps.Store.GetProfile(id)
		if err != nil {
			return mcpError(fmt.Sprintf("profile %s not found", id)), nil
		}

		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpSetPreference(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		if err := deps.Prefs.Set(key, value); err != nil {
			return mcpError(fmt.Sprintf("failed to set preference: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Set %s = %s", key, value)), nil
	}
}

func mcpResourceStats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		profiles := deps.Directory.All()

		byIndustry := make(map[string]int)
		byAvailability := make(map[string]int)
		for _, p := range profiles {
			if p.Professional.Industry != "" {
				byIndustry[p.Professional.Industry]++
			}
			if p.Networking.Availability != "" {
				byAvailability[string(p.Networking.Availability)]++
			}
		}

		b, err := json.Marshal(map[string]any{
			"total":           len(profiles),
			"by_industry":     byIndustry,
			"by_availability": byAvailability,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourcePrefs(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Prefs.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get preferences: %w", err)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal preferences: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
