package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/siba2623/portfolio-assistant/internal/kb"
	"github.com/siba2623/portfolio-assistant/internal/responder"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Responder *responder.Responder
	KB        *kb.KnowledgeBase
	Version   string
}

// NewMCPServer creates an MCP server exposing the portfolio responder
// as tools plus the knowledge base as a resource (stdio transport).
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"portfolio-assistant",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("portfolio-assistant — scripted answers about the portfolio owner's skills, projects, and contact details."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_portfolio",
			mcp.WithDescription("Ask a free-text question about the portfolio; returns the canned answer and suggested follow-ups."),
			mcp.WithString("question", mcp.Description("The question to ask"), mcp.Required()),
		),
		mcpAskPortfolio(deps),
	)

	s.AddTool(
		mcp.NewTool("list_projects",
			mcp.WithDescription("List the portfolio projects as JSON."),
		),
		mcpListProjects(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"portfolio://knowledge",
			"Portfolio Knowledge Base",
			mcp.WithResourceDescription("The full static knowledge base as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceKnowledge(deps),
	)

	return s
}

func mcpAskPortfolio(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}
		if strings.TrimSpace(question) == "" {
			return mcpError("question must not be blank"), nil
		}

		reply := deps.Responder.Respond(question)

		var b strings.Builder
		b.WriteString(reply.Text)
		if len(reply.QuickReplies) > 0 {
			b.WriteString("\n\nSuggested follow-ups:")
			for _, qr := range reply.QuickReplies {
				fmt.Fprintf(&b, " [%s]", qr.Label)
			}
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func mcpListProjects(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.KB.Projects)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal projects: %v", err)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

func mcpResourceKnowledge(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.KB)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal knowledge base: %w", err)
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

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
