// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Murmur tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fernvale/murmur/internal/locations"
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/models"
	"github.com/fernvale/murmur/internal/soundwalk"
)

// Server wraps the MCP server with Murmur tools.
type Server struct {
	mcp   *server.MCPServer
	store *memorystore.Store
}

// New creates a new MCP server with all Murmur tools registered.
func New(store *memorystore.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Murmur",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_memories",
		mcp.WithDescription("List all recorded memories with their locations and roles."),
	), s.listMemories)

	s.mcp.AddTool(mcp.NewTool("record_memory",
		mcp.WithDescription("Record a new audio memory at a named location. "+
			"recording_type MUST be one of soundmark, keynote, or pointer; read the "+
			"murmur://recording-roles resource or the get_recording_roles tool first. "+
			"destination is only meaningful for pointers."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Display title for the memory")),
		mcp.WithString("audio_data", mcp.Required(), mcp.Description("Audio clip as a base64 data URI (e.g. data:audio/webm;base64,...)")),
		mcp.WithString("recording_type", mcp.Required(), mcp.Description("One of: soundmark, keynote, pointer")),
		mcp.WithString("description", mcp.Description("Free-text description")),
		mcp.WithString("location", mcp.Description("Location name; check suggest_locations first to keep names consistent")),
		mcp.WithString("destination", mcp.Description("Destination location (pointer recordings only)")),
	), s.recordMemory)

	s.mcp.AddTool(mcp.NewTool("update_memory",
		mcp.WithDescription("Update a memory's title, description, location, destination, or recording type. "+
			"Omitted fields are left unchanged; the audio clip itself is immutable."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memory ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("recording_type", mcp.Description("New role: soundmark, keynote, or pointer")),
		mcp.WithString("location", mcp.Description("New location name")),
		mcp.WithString("destination", mcp.Description("New destination (pointers only)")),
	), s.updateMemory)

	s.mcp.AddTool(mcp.NewTool("delete_memory",
		mcp.WithDescription("Delete a memory and release its audio clip."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memory ID")),
	), s.deleteMemory)

	s.mcp.AddTool(mcp.NewTool("suggest_locations",
		mcp.WithDescription("Autocomplete existing location names by case-insensitive substring. "+
			"Use before recording to avoid forking the graph with near-duplicate names."),
		mcp.WithString("partial", mcp.Required(), mcp.Description("Partial location name")),
	), s.suggestLocations)

	s.mcp.AddTool(mcp.NewTool("soundwalk",
		mcp.WithDescription("What can be heard at a location and where its pointers lead."),
		mcp.WithString("location", mcp.Required(), mcp.Description("Location name (exact match)")),
	), s.soundwalkAt)

	s.mcp.AddTool(mcp.NewTool("get_recording_roles",
		mcp.WithDescription("Returns the definitions of the three recording roles. "+
			"Call this before recording to classify clips correctly."),
	), s.getRecordingRoles)

	// Resource: recording role definitions.
	s.mcp.AddResource(
		mcp.NewResource("murmur://recording-roles", "Recording Roles",
			mcp.WithResourceDescription("Definitions of the soundmark, keynote, and pointer recording roles."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRolesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memories, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(memories, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) recordMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	audioData, err := req.RequireString("audio_data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rtype, err := req.RequireString("recording_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := memorystore.CreateInput{
		Title:     title,
		AudioData: audioData,
		Type:      models.RecordingType(rtype),
	}
	if v, vErr := req.RequireString("description"); vErr == nil {
		in.Description = v
	}
	if v, vErr := req.RequireString("location"); vErr == nil {
		in.Location = v
	}
	if v, vErr := req.RequireString("destination"); vErr == nil {
		in.Destination = v
	}

	m, err := s.store.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("recorded: %s (%s)", m.ID, m.Title)), nil
}

func (s *Server) updateMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch models.MemoryPatch
	if v, vErr := req.RequireString("title"); vErr == nil {
		patch.Title = &v
	}
	if v, vErr := req.RequireString("description"); vErr == nil {
		patch.Description = &v
	}
	if v, vErr := req.RequireString("recording_type"); vErr == nil {
		t := models.RecordingType(v)
		patch.Type = &t
	}
	if v, vErr := req.RequireString("location"); vErr == nil {
		patch.Location = &v
	}
	if v, vErr := req.RequireString("destination"); vErr == nil {
		patch.Destination = &v
	}

	m, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(m, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) suggestLocations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	partial, err := req.RequireString("partial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	memories, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	suggestions := locations.Suggest(memories, partial)
	if len(suggestions) == 0 {
		return mcp.NewToolResultText("no matching locations"), nil
	}
	return mcp.NewToolResultText(strings.Join(suggestions, "\n")), nil
}

func (s *Server) soundwalkAt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := req.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	memories, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view := soundwalk.SelectLocation(memories, location)
	out, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecordingRoles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordingRolesContract), nil
}

func (s *Server) readRolesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "murmur://recording-roles",
			MIMEType: "text/markdown",
			Text:     RecordingRolesContract,
		},
	}, nil
}
