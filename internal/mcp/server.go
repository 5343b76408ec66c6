package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edxnotes/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools for course note operations
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"EdxNotes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - Notes of a course, oldest update first
	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List the notes of a course in ascending order of their last update. Use this to read a learner's notes in the order they were written."),
			mcp.WithString("course_id",
				mcp.Required(),
				mcp.Description("Course identifier (e.g., 'course-v1:edX+DemoX+Demo_Course')"),
			),
			mcp.WithString("user",
				mcp.Description("Optional: Only return notes of this user"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return (default: 200, max: 1000)"),
			),
			mcp.WithNumber("offset",
				mcp.Description("Number of notes to skip for pagination (default: 0)"),
			),
		),
		handleListNotes(svc),
	)

	// Tool: get_note - Get a specific note by ID
	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleGetNote(svc),
	)

	// Tool: create_note - Add a note to a course
	s.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Create a note in a course. The note is stamped with the current time."),
			mcp.WithString("course_id",
				mcp.Required(),
				mcp.Description("Course identifier"),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The quoted text of the note"),
			),
			mcp.WithString("comment",
				mcp.Description("Optional: Markdown comment attached to the note"),
			),
			mcp.WithString("usage_id",
				mcp.Description("Optional: Course unit the note belongs to"),
			),
			mcp.WithString("user",
				mcp.Description("Optional: Owner of the note"),
			),
		),
		handleCreateNote(svc),
	)

	// Tool: delete_note - Remove a note
	s.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleDeleteNote(svc),
	)

	return s
}

// NoteResult represents a note in tool responses
type NoteResult struct {
	ID       string    `json:"id"`
	CourseID string    `json:"courseId"`
	UsageID  string    `json:"usageId,omitempty"`
	User     string    `json:"user,omitempty"`
	Text     string    `json:"text"`
	Comment  string    `json:"comment,omitempty"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

func handleListNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		courseID, err := req.RequireString("course_id")
		if err != nil {
			return mcp.NewToolResultError("course_id is required"), nil
		}

		coll, err := svc.List(ctx, notes.ListQuery{
			CourseID: courseID,
			User:     req.GetString("user", ""),
			Limit:    req.GetInt("limit", 0),
			Offset:   req.GetInt("offset", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}

		results := make([]NoteResult, 0, coll.Len())
		for _, n := range coll.All() {
			results = append(results, noteToResult(n))
		}
		return jsonResult(results), nil
	}
}

func handleGetNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetByID(ctx, id)
		if errors.Is(err, notes.ErrInvalidID) {
			return mcp.NewToolResultError("invalid note ID"), nil
		}
		if errors.Is(err, notes.ErrNoteNotFound) {
			return mcp.NewToolResultError("note not found"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}

		return jsonResult(noteToResult(note)), nil
	}
}

func handleCreateNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		courseID, err := req.RequireString("course_id")
		if err != nil {
			return mcp.NewToolResultError("course_id is required"), nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		note, err := svc.Create(ctx, notes.CreateNoteInput{
			CourseID: courseID,
			UsageID:  req.GetString("usage_id", ""),
			User:     req.GetString("user", ""),
			Text:     text,
			Comment:  req.GetString("comment", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
		}

		return jsonResult(noteToResult(note)), nil
	}
}

func handleDeleteNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		err = svc.Delete(ctx, id)
		if errors.Is(err, notes.ErrNoteNotFound) {
			return mcp.NewToolResultError("note not found"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("deleted note %s", id)), nil
	}
}

// Helper functions

func noteToResult(n *notes.Note) NoteResult {
	return NoteResult{
		ID:       n.ID.Hex(),
		CourseID: n.CourseID,
		UsageID:  n.UsageID,
		User:     n.User,
		Text:     n.Text,
		Comment:  n.Comment,
		Created:  n.Created,
		Updated:  n.Updated,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}
