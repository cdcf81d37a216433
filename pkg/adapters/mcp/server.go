// Package mcp exposes the trip rules wizard as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	triprules "github.com/aretw0/triprules"
	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/runner"
	"github.com/aretw0/triprules/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WizardResponse is returned by every tool.
type WizardResponse struct {
	State   domain.Snapshot   `json:"state" jsonschema_description:"The wizard state after the call"`
	Draft   *domain.TripRules `json:"draft,omitempty" jsonschema_description:"Rules to pre-fill while entering rules"`
	Errors  map[string]string `json:"errors,omitempty" jsonschema_description:"Validation errors by field"`
	Message string            `json:"message,omitempty"`
}

// Server wraps a wizard and exposes it as an MCP server.
type Server struct {
	wizard    runner.Wizard
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(w runner.Wizard, opts ...Option) *Server {
	s := &Server{
		wizard:    w,
		mcpServer: server.NewMCPServer("triprules-mcp", strings.TrimSpace(triprules.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer exposes the underlying server for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

type toolHandler func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WizardResponse, error)

func (s *Server) registerTools() {
	add := func(tool mcp.Tool, h func(context.Context, mcp.CallToolRequest, map[string]interface{}) (WizardResponse, error)) {
		s.mcpServer.AddTool(tool, mcp.NewStructuredToolHandler(h))
	}

	add(mcp.NewTool("wizard_state",
		mcp.WithDescription("Return the current wizard step, audience, rules and itinerary."),
		mcp.WithOutputSchema[WizardResponse](),
	), s.handleState)

	add(mcp.NewTool("select_audience",
		mcp.WithDescription("Choose who the trip is for. Allowed only at the audience_select step."),
		mcp.WithString("audience", mcp.Required(), mcp.Enum("team", "personal"), mcp.Description("team or personal")),
		mcp.WithOutputSchema[WizardResponse](),
	), s.handleSelectAudience)

	add(mcp.NewTool("submit_rules",
		mcp.WithDescription("Submit the trip rules. Invalid rules are reported in 'errors' and the step does not change."),
		mcp.WithString("rules", mcp.Required(), mcp.Description("JSON object with tripName, city, startDate, endDate, teamSize, budgetMin, budgetMax, pace, needsWifi, nearVenue, meetingStart, meetingEnd, notes")),
		mcp.WithOutputSchema[WizardResponse](),
	), s.handleSubmitRules)

	add(mcp.NewTool("edit_rules",
		mcp.WithDescription("Discard the confirmed rules and itinerary and return to rules entry."),
		mcp.WithOutputSchema[WizardResponse](),
	), s.simple("edit", s.wizard.Edit))

	add(mcp.NewTool("generate_itinerary",
		mcp.WithDescription("Generate the itinerary for the confirmed rules and move to export."),
		mcp.WithOutputSchema[WizardResponse](),
	), s.handleGenerate)

	add(mcp.NewTool("back",
		mcp.WithDescription("Go back one step from itinerary generation or export."),
		mcp.WithOutputSchema[WizardResponse](),
	), s.simple("back", s.wizard.Back))

	add(mcp.NewTool("reset",
		mcp.WithDescription("Remove every stored artifact and start over."),
		mcp.WithOutputSchema[WizardResponse](),
	), s.simple("reset", s.wizard.Reset))
}

func (s *Server) respond(msg string) WizardResponse {
	resp := WizardResponse{State: s.wizard.Snapshot(), Message: msg}
	if resp.State.Step == domain.StepRulesEntry {
		d := s.wizard.Draft()
		resp.Draft = &d
	}
	return resp
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WizardResponse, error) {
	return s.respond(""), nil
}

func (s *Server) handleSelectAudience(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WizardResponse, error) {
	raw, _ := args["audience"].(string)
	clean, err := runner.SanitizeLine(raw)
	if err != nil {
		return WizardResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	a, err := domain.ParseAudience(strings.ToLower(clean))
	if err != nil {
		return WizardResponse{}, err
	}
	if err := s.wizard.SelectAudience(ctx, a); err != nil {
		return WizardResponse{}, err
	}
	return s.respond("audience selected"), nil
}

func (s *Server) handleSubmitRules(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WizardResponse, error) {
	raw, _ := args["rules"].(string)
	clean, err := runner.SanitizeInput(raw)
	if err != nil {
		s.logger.Warn("MCP submit_rules: input rejected", "error", err, "size", len(raw))
		return WizardResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return WizardResponse{}, fmt.Errorf("rules must be a JSON object: %w", err)
	}
	meta, err := schema.FromMeta(fields)
	if err != nil {
		return WizardResponse{}, err
	}

	err = s.wizard.Continue(ctx, meta.Rules)
	if fe, ok := schema.AsFieldErrors(err); ok {
		resp := s.respond("rules are invalid")
		resp.Errors = fe
		return resp, nil
	}
	if err != nil {
		return WizardResponse{}, err
	}
	return s.respond("rules confirmed"), nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WizardResponse, error) {
	if s.wizard.Snapshot().Step == domain.StepRulesSummary {
		if err := s.wizard.Generate(ctx); err != nil {
			return WizardResponse{}, err
		}
	}
	if _, err := s.wizard.RequestItinerary(ctx); err != nil {
		s.logger.Warn("MCP generate_itinerary failed", "error", err)
		return WizardResponse{}, err
	}
	return s.respond("itinerary generated"), nil
}

func (s *Server) simple(name string, op func(context.Context) error) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WizardResponse, error) {
		if err := op(ctx); err != nil {
			return WizardResponse{}, err
		}
		s.logger.Debug("MCP tool", "tool", name)
		return s.respond(""), nil
	}
}
