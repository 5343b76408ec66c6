package notes

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultListLimit = 200
	maxListLimit     = 1000
)

// Store is the persistence contract the service depends on. Repo is the
// MongoDB implementation.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error)
	List(ctx context.Context, q ListQuery) ([]*Note, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, q ListQuery) (int64, error)
}

type Repo struct {
	coll *mongo.Collection
}

var _ Store = (*Repo)(nil)

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("notes")}
}

// EnsureIndexes creates the indexes used by course and user listings
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "updated", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "user", Value: 1},
				{Key: "updated", Value: 1},
			},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Insert stores a new note and assigns its ID
func (r *Repo) Insert(ctx context.Context, n *Note) error {
	n.ID = primitive.NewObjectID()

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		n.ID = primitive.NilObjectID
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindByID retrieves a note by its ID
func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	var note Note
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// List retrieves the notes of a course, oldest update first
func (r *Repo) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	filter := listFilter(q)

	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}

	opts := options.Find().
		SetLimit(int64(q.Limit)).
		SetSkip(int64(q.Offset)).
		SetSort(bson.D{
			{Key: "updated", Value: 1},
			{Key: "_id", Value: 1},
		})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []*Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// Delete removes a note by ID
func (r *Repo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Count returns the number of notes matching q's course and user filters
func (r *Repo) Count(ctx context.Context, q ListQuery) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, listFilter(q))
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

func listFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.CourseID != "" {
		filter["course_id"] = q.CourseID
	}
	if q.User != "" {
		filter["user"] = q.User
	}
	return filter
}
