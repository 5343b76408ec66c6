package models

import "time"

// NoteView is the template context for a single note
type NoteView struct {
	ID          string
	Text        string
	CommentHTML string
	Updated     time.Time
}

// NotesPageView represents the notes page header and paging links
type NotesPageView struct {
	CourseID   string
	Count      int64  // notes in the course, not just this page
	Endpoint   string // notes storage API, empty when not configured
	RefreshURL string // fragment URL the list reloads from
	NextURL    string // next page, empty on the last page
}
