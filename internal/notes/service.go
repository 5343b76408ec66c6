package notes

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	store Store
	md    goldmark.Markdown
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		md:    goldmark.New(),
		now:   time.Now,
	}
}

// Create validates input and stores a new note stamped with the current time
func (s *Service) Create(ctx context.Context, input CreateNoteInput) (*Note, error) {
	courseID := strings.TrimSpace(input.CourseID)
	if courseID == "" {
		return nil, &ValidationError{Field: "course_id", Reason: "is required"}
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, &ValidationError{Field: "text", Reason: "is required"}
	}

	// Timestamps are kept at millisecond resolution, matching what Mongo stores.
	now := s.now().UTC().Truncate(time.Millisecond)
	note := &Note{
		CourseID: courseID,
		UsageID:  strings.TrimSpace(input.UsageID),
		User:     strings.TrimSpace(input.User),
		Text:     normalizeNewlines(input.Text),
		Comment:  normalizeNewlines(input.Comment),
		Created:  now,
		Updated:  now,
	}
	if err := validateNote(note); err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// GetByID retrieves a note by ID
func (s *Service) GetByID(ctx context.Context, id string) (*Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid)
}

// List loads the notes matching q as a sorted collection
func (s *Service) List(ctx context.Context, q ListQuery) (*Collection, error) {
	notes, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	coll, err := NewCollection(notes)
	if err != nil {
		return nil, fmt.Errorf("load notes for course %q: %w", q.CourseID, err)
	}
	return coll, nil
}

// Delete removes a note by ID
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, oid)
}

// Count returns the number of notes matching q, ignoring its paging
func (s *Service) Count(ctx context.Context, q ListQuery) (int64, error) {
	return s.store.Count(ctx, q)
}

// RenderMarkdown converts markdown content to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content // Return raw content on error
	}
	return buf.String()
}

// HTML parsing folds CR and CRLF into LF, so stored text uses LF only to
// render back unchanged.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string {
	return newlines.Replace(s)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	return oid, nil
}
