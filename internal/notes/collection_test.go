package notes_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"edxnotes/internal/notes"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func at(ms int) time.Time {
	return time.Date(2014, time.November, 10, 10, 10, 10, ms*int(time.Millisecond), time.UTC)
}

func listedNotes() []*notes.Note {
	return []*notes.Note{
		{Updated: at(12), Text: "Third listed"},
		{Updated: at(10), Text: "First listed"},
		{Updated: at(11), Text: "Second listed"},
	}
}

func texts(c *notes.Collection) []string {
	out := make([]string, 0, c.Len())
	for _, n := range c.All() {
		out = append(out, n.Text)
	}
	return out
}

func TestNote_NoIDByDefault(t *testing.T) {
	n := &notes.Note{}
	require.False(t, n.HasID())
	require.True(t, n.ID.IsZero())
}

func TestCollection_OrdersByUpdatedAscending(t *testing.T) {
	c, err := notes.NewCollection(listedNotes())
	require.NoError(t, err)

	require.Equal(t, "First listed", c.At(0).Text)
	require.Equal(t, "Second listed", c.At(1).Text)
	require.Equal(t, "Third listed", c.At(2).Text)
}

func TestCollection_RandomInputIsSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	input := make([]*notes.Note, 0, 50)
	for _, ms := range rng.Perm(50) {
		input = append(input, &notes.Note{Updated: at(ms), Text: "n"})
	}

	c, err := notes.NewCollection(input)
	require.NoError(t, err)
	require.Equal(t, 50, c.Len())
	for i := 0; i < c.Len(); i++ {
		require.Equal(t, at(i), c.At(i).Updated)
	}
}

func TestCollection_TiesKeepInsertionOrder(t *testing.T) {
	c, err := notes.NewCollection([]*notes.Note{
		{Updated: at(5), Text: "b"},
		{Updated: at(1), Text: "a"},
		{Updated: at(5), Text: "c"},
		{Updated: at(5), Text: "d"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, texts(c))

	require.NoError(t, c.Add(&notes.Note{Updated: at(5), Text: "e"}))
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, texts(c))
}

func TestCollection_DoesNotModifyInput(t *testing.T) {
	input := listedNotes()
	_, err := notes.NewCollection(input)
	require.NoError(t, err)
	require.Equal(t, "Third listed", input[0].Text)
}

func TestCollection_Empty(t *testing.T) {
	c, err := notes.NewCollection(nil)
	require.NoError(t, err)
	require.Zero(t, c.Len())
	require.Empty(t, c.Notes())
}

func TestCollection_AddKeepsOrder(t *testing.T) {
	c, err := notes.NewCollection(listedNotes())
	require.NoError(t, err)

	require.NoError(t, c.Add(&notes.Note{Updated: at(9), Text: "Earliest"}))
	require.NoError(t, c.Add(&notes.Note{Updated: at(20), Text: "Latest"}))
	require.NoError(t, c.Add(&notes.Note{Updated: at(11), Text: "Tied second"}))

	require.Equal(t, []string{
		"Earliest", "First listed", "Second listed", "Tied second", "Third listed", "Latest",
	}, texts(c))
}

func TestCollection_Remove(t *testing.T) {
	id := primitive.NewObjectID()
	input := listedNotes()
	input[2].ID = id

	c, err := notes.NewCollection(input)
	require.NoError(t, err)

	require.False(t, c.Remove(primitive.NilObjectID))
	require.False(t, c.Remove(primitive.NewObjectID()))
	require.True(t, c.Remove(id))
	require.Equal(t, []string{"First listed", "Third listed"}, texts(c))
}

func TestCollection_RejectsMalformedNotes(t *testing.T) {
	cases := map[string]*notes.Note{
		"nil":          nil,
		"zero updated": {Text: "x"},
		"empty text":   {Updated: at(1)},
		"NUL in text":  {Updated: at(1), Text: "a\x00b"},
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := notes.NewCollection([]*notes.Note{{Updated: at(0), Text: "ok"}, n})
			require.ErrorIs(t, err, notes.ErrInvalidNote)

			var verr *notes.ValidationError
			require.True(t, errors.As(err, &verr))
			require.NotEmpty(t, verr.Field)
		})
	}
}

func TestCollection_AddRejectsMalformedNote(t *testing.T) {
	c, err := notes.NewCollection(listedNotes())
	require.NoError(t, err)

	require.ErrorIs(t, c.Add(&notes.Note{Text: "no time"}), notes.ErrInvalidNote)
	require.Equal(t, 3, c.Len())
}
