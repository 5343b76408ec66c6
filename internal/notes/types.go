package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a single learner note attached to a course unit
type Note struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID string             `bson:"course_id" json:"courseId"`
	UsageID  string             `bson:"usage_id,omitempty" json:"usageId,omitempty"`
	User     string             `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text"`
	Comment  string             `bson:"comment,omitempty" json:"comment,omitempty"` // markdown
	Created  time.Time          `bson:"created" json:"created"`
	Updated  time.Time          `bson:"updated" json:"updated"`
}

// HasID reports whether the note has been persisted and assigned an ID.
func (n *Note) HasID() bool {
	return !n.ID.IsZero()
}

// CreateNoteInput is the input for creating a note
type CreateNoteInput struct {
	CourseID string `json:"courseId"`
	UsageID  string `json:"usageId"`
	User     string `json:"user"`
	Text     string `json:"text"`
	Comment  string `json:"comment"`
}

// ListQuery represents list parameters
type ListQuery struct {
	CourseID string
	User     string
	Limit    int
	Offset   int
}
