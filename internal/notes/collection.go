package notes

import (
	"iter"
	"slices"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection holds notes in ascending Updated order. Notes with equal
// timestamps keep the order they were added in.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	notes []*Note
}

// NewCollection validates notes and returns them sorted by Updated.
// The input slice is not modified.
func NewCollection(notes []*Note) (*Collection, error) {
	for _, n := range notes {
		if err := validateNote(n); err != nil {
			return nil, err
		}
	}

	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b *Note) int {
		return a.Updated.Compare(b.Updated)
	})
	return &Collection{notes: sorted}, nil
}

// Len returns the number of notes.
func (c *Collection) Len() int {
	return len(c.notes)
}

// At returns the note at position i in sorted order.
func (c *Collection) At(i int) *Note {
	return c.notes[i]
}

// Notes returns a copy of the sorted notes.
func (c *Collection) Notes() []*Note {
	return slices.Clone(c.notes)
}

// All iterates the notes in sorted order.
func (c *Collection) All() iter.Seq2[int, *Note] {
	return func(yield func(int, *Note) bool) {
		for i, n := range c.notes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Add inserts n after every note updated at or before it.
func (c *Collection) Add(n *Note) error {
	if err := validateNote(n); err != nil {
		return err
	}
	i := sort.Search(len(c.notes), func(i int) bool {
		return c.notes[i].Updated.After(n.Updated)
	})
	c.notes = slices.Insert(c.notes, i, n)
	return nil
}

// Remove drops the note with the given ID. It reports whether a note was
// removed.
func (c *Collection) Remove(id primitive.ObjectID) bool {
	if id.IsZero() {
		return false
	}
	i := slices.IndexFunc(c.notes, func(n *Note) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	c.notes = slices.Delete(c.notes, i, i+1)
	return true
}
