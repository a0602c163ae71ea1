package facade

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "howler"
	serverVersion = "1.0.0"
)

// Server is the MCP server exposing the facade as tools.
type Server struct {
	mcpServer *server.MCPServer
	facade    *Facade
	defaults  SpeechDefaults
}

// SpeechDefaults fill send_howler arguments the caller leaves out.
type SpeechDefaults struct {
	Rate   int
	Volume float64
}

// NewServer creates a new Howler MCP server backed by the given facade.
func NewServer(f *Facade, defaults SpeechDefaults) *Server {
	s := &Server{
		facade:   f,
		defaults: defaults,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder due on a calendar date"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Due date as YYYY-MM-DD")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_reminders",
			mcp.WithDescription("List all reminders"),
		),
		s.handleGetReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("uncomplete_reminder",
			mcp.WithDescription("Reopen a completed reminder"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleUncompleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("clear_completed_reminders",
			mcp.WithDescription("Delete every completed reminder"),
		),
		s.handleClearCompleted,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("send_howler",
			mcp.WithDescription("Speak a message aloud now"),
			mcp.WithString("message", mcp.Required(), mcp.Description("Text to speak")),
			mcp.WithNumber("speed", mcp.Description("Speech rate in words per minute")),
			mcp.WithNumber("volume", mcp.Description("Volume from 0.0 to 1.0")),
			mcp.WithNumber("voice_index", mcp.Description("Index from get_available_voices")),
		),
		s.handleSendHowler,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_available_voices",
			mcp.WithDescription("List the installed speech voices"),
		),
		s.handleGetVoices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("check_reminders",
			mcp.WithDescription("Run one due-reminder check now and report what was announced"),
		),
		s.handleCheckReminders,
	)
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.facade.AddReminder(req.GetString("title", ""), req.GetString("date", ""))
	return resultToTool(res), nil
}

func (s *Server) handleGetReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders := s.facade.GetReminders()
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(reminders), nil
}

func (s *Server) handleCompleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}
	return resultToTool(s.facade.CompleteReminder(id)), nil
}

func (s *Server) handleUncompleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}
	return resultToTool(s.facade.UncompleteReminder(id)), nil
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}
	return resultToTool(s.facade.DeleteReminder(id)), nil
}

func (s *Server) handleClearCompleted(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return resultToTool(s.facade.ClearCompletedReminders()), nil
}

func (s *Server) handleSendHowler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	speed := int(req.GetFloat("speed", float64(s.defaults.Rate)))
	volume := req.GetFloat("volume", s.defaults.Volume)
	voiceIndex := int(req.GetFloat("voice_index", 0))

	return resultToTool(s.facade.SendHowler(ctx, message, speed, volume, voiceIndex)), nil
}

func (s *Server) handleGetVoices(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.facade.GetAvailableVoices(ctx)), nil
}

func (s *Server) handleCheckReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.facade.CheckReminders(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if report.Notified == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Checked %d reminders, nothing announced.", report.Checked)), nil
	}

	var announced []string
	for _, d := range report.Decisions {
		if d.Notified {
			announced = append(announced, d.Message)
		}
	}
	return jsonResult(announced), nil
}

func requireID(req mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 0 || idFloat != math.Trunc(idFloat) {
		return 0, mcp.NewToolResultError("id is required and must be a non-negative whole number")
	}
	return int64(idFloat), nil
}

func resultToTool(res Result) *mcp.CallToolResult {
	if !res.OK() {
		return mcp.NewToolResultError(res.Message)
	}
	return jsonResult(res)
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	output, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(output))
}
