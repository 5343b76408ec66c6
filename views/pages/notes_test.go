package pages_test

import (
	"bytes"
	"context"
	"testing"

	"edxnotes/views/models"
	"edxnotes/views/pages"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
)

func renderPage(t *testing.T, view models.NotesPageView) string {
	t.Helper()
	var buf bytes.Buffer
	list := templ.Raw(`<section class="edxnotes-page-items"></section>`)
	require.NoError(t, pages.NotesPage(view, list).Render(context.Background(), &buf))
	return buf.String()
}

func TestNotesPage_Minimal(t *testing.T) {
	out := renderPage(t, models.NotesPageView{
		CourseID:   "demo",
		Count:      1,
		RefreshURL: "/fragments/notes?course_id=demo",
	})

	require.Contains(t, out, `<p class="edxnotes-count">1 note</p>`)
	require.Contains(t, out, `hx-get="/fragments/notes?course_id=demo"`)
	require.Contains(t, out, `<section class="edxnotes-page-items"></section></div>`)
	require.NotContains(t, out, "data-endpoint")
	require.NotContains(t, out, "edxnotes-more")
}

func TestNotesPage_EndpointAndMoreLink(t *testing.T) {
	out := renderPage(t, models.NotesPageView{
		CourseID:   "demo",
		Count:      40,
		Endpoint:   "http://notes.local/api/v1",
		RefreshURL: "/fragments/notes?course_id=demo&limit=20",
		NextURL:    "/courses/demo/notes?limit=20&offset=20",
	})

	require.Contains(t, out, `40 notes`)
	require.Contains(t, out, `data-endpoint="http://notes.local/api/v1"`)
	require.Contains(t, out, `hx-get="/fragments/notes?course_id=demo&amp;limit=20"`)
	require.Contains(t, out, `<a class="edxnotes-more" href="/courses/demo/notes?limit=20&amp;offset=20">Show more</a>`)
}

func TestNotesPage_UnsafeNextURLIsSanitized(t *testing.T) {
	out := renderPage(t, models.NotesPageView{CourseID: "demo", NextURL: "javascript:alert(1)"})
	require.NotContains(t, out, "javascript:")
}
