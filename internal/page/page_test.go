package page_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"edxnotes/internal/notes"
	"edxnotes/internal/page"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func at(ms int) time.Time {
	return time.Date(2014, time.November, 10, 10, 10, 10, ms*int(time.Millisecond), time.UTC)
}

func newCollection(t *testing.T) *notes.Collection {
	t.Helper()
	c, err := notes.NewCollection([]*notes.Note{
		{Updated: at(12), Text: "Third listed"},
		{Updated: at(10), Text: "First listed"},
		{Updated: at(11), Text: "Second listed"},
	})
	require.NoError(t, err)
	return c
}

func quoteTexts(root *html.Node) []string {
	var out []string
	for _, q := range page.Quotes(root) {
		out = append(out, page.TextContent(q))
	}
	return out
}

func TestListView_OrdersNotesAscending(t *testing.T) {
	root := page.NewRoot()
	_, err := page.NewListView(root, newCollection(t), page.ItemTemplate(nil)).Render(context.Background())
	require.NoError(t, err)

	require.Len(t, page.QueryAll(root, "article", page.ItemClass), 3)
	require.Equal(t, []string{"First listed", "Second listed", "Third listed"}, quoteTexts(root))
}

func TestListView_RenderIsIdempotent(t *testing.T) {
	root := page.NewRoot()
	view := page.NewListView(root, newCollection(t), page.ItemTemplate(nil))

	_, err := view.Render(context.Background())
	require.NoError(t, err)
	_, err = view.Render(context.Background())
	require.NoError(t, err)

	require.Len(t, page.QueryAll(root, "article", page.ItemClass), 3)
	require.Len(t, view.Items(), 3)
	require.Equal(t, []string{"First listed", "Second listed", "Third listed"}, quoteTexts(root))
}

func TestListView_RerenderReflectsCollectionChanges(t *testing.T) {
	coll := newCollection(t)
	root := page.NewRoot()
	view := page.NewListView(root, coll, page.ItemTemplate(nil))

	_, err := view.Render(context.Background())
	require.NoError(t, err)

	require.NoError(t, coll.Add(&notes.Note{Updated: at(5), Text: "Zeroth listed"}))
	_, err = view.Render(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"Zeroth listed", "First listed", "Second listed", "Third listed"}, quoteTexts(root))
}

func TestListView_KeepsForeignChildren(t *testing.T) {
	root := page.NewRoot()
	header := &html.Node{Type: html.ElementNode, Data: "header"}
	root.AppendChild(header)

	view := page.NewListView(root, newCollection(t), page.ItemTemplate(nil))
	_, err := view.Render(context.Background())
	require.NoError(t, err)
	_, err = view.Render(context.Background())
	require.NoError(t, err)

	require.Same(t, header, root.FirstChild)
	require.Len(t, page.QueryAll(root, "article", page.ItemClass), 3)
}

func TestListView_FailedRenderKeepsPreviousItems(t *testing.T) {
	coll := newCollection(t)
	root := page.NewRoot()

	fail := false
	tmpl := func(n *notes.Note) templ.Component {
		if fail && n.Text == "Second listed" {
			return templ.ComponentFunc(func(context.Context, io.Writer) error {
				return errors.New("boom")
			})
		}
		return page.ItemTemplate(nil)(n)
	}

	view := page.NewListView(root, coll, tmpl)
	_, err := view.Render(context.Background())
	require.NoError(t, err)

	fail = true
	require.NoError(t, coll.Add(&notes.Note{Updated: at(20), Text: "Fourth listed"}))
	_, err = view.Render(context.Background())
	require.Error(t, err)

	require.Equal(t, []string{"First listed", "Second listed", "Third listed"}, quoteTexts(root))
	require.Len(t, view.Items(), 3)
}

func TestListView_Destroy(t *testing.T) {
	root := page.NewRoot()
	view := page.NewListView(root, newCollection(t), page.ItemTemplate(nil))
	_, err := view.Render(context.Background())
	require.NoError(t, err)
	items := view.Items()

	view.Destroy()

	require.Nil(t, root.FirstChild)
	for _, item := range items {
		require.Nil(t, item.Element())
	}
	_, err = view.Render(context.Background())
	require.ErrorIs(t, err, page.ErrDestroyed)
}

func TestListView_Component(t *testing.T) {
	view, err := page.NewListView(page.NewRoot(), newCollection(t), page.ItemTemplate(nil)).Render(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, view.Component().Render(context.Background(), &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, `<section class="edxnotes-page-items">`))
	first := strings.Index(out, "First listed")
	second := strings.Index(out, "Second listed")
	third := strings.Index(out, "Third listed")
	require.True(t, first >= 0 && first < second && second < third)
}

func TestItemView_Render(t *testing.T) {
	note := &notes.Note{Updated: at(10), Text: "<b>kept</b> & escaped"}
	item, err := page.NewItemView(note, page.ItemTemplate(nil)).Render(context.Background())
	require.NoError(t, err)

	el := item.Element()
	require.Equal(t, "article", el.Data)
	require.True(t, page.HasClass(el, page.ItemClass))

	quotes := page.QueryAll(el, "div", page.QuoteClass)
	require.Len(t, quotes, 1)
	require.Equal(t, "<b>kept</b> & escaped", page.TextContent(quotes[0]))
	require.Len(t, page.QueryAll(el, "b", ""), 0)

	stamps := page.QueryAll(el, "time", "note-updated")
	require.Len(t, stamps, 1)
	require.Equal(t, "2014-11-10T10:10:10.010Z", stamps[0].Attr[1].Val)
}

func TestItemView_RenderIsIdempotent(t *testing.T) {
	note := &notes.Note{Updated: at(10), Text: "first"}
	item := page.NewItemView(note, page.ItemTemplate(nil))

	_, err := item.Render(context.Background())
	require.NoError(t, err)
	note.Text = "second"
	_, err = item.Render(context.Background())
	require.NoError(t, err)

	quotes := page.QueryAll(item.Element(), "div", page.QuoteClass)
	require.Len(t, quotes, 1)
	require.Equal(t, "second", page.TextContent(quotes[0]))
}

func TestItemView_Comment(t *testing.T) {
	note := &notes.Note{Updated: at(10), Text: "quote", Comment: "**why**"}
	markdown := func(s string) string { return "<p><strong>why</strong></p>" }

	item, err := page.NewItemView(note, page.ItemTemplate(markdown)).Render(context.Background())
	require.NoError(t, err)

	comments := page.QueryAll(item.Element(), "div", "note-comment")
	require.Len(t, comments, 1)
	require.Len(t, page.QueryAll(comments[0], "strong", ""), 1)
	require.Equal(t, "why", page.TextContent(comments[0]))
}

func TestItemView_DestroyDetaches(t *testing.T) {
	root := page.NewRoot()
	item, err := page.NewItemView(&notes.Note{Updated: at(1), Text: "x"}, page.ItemTemplate(nil)).Render(context.Background())
	require.NoError(t, err)
	root.AppendChild(item.Element())

	item.Destroy()

	require.Nil(t, root.FirstChild)
	require.Nil(t, item.Element())
	_, err = item.Render(context.Background())
	require.ErrorIs(t, err, page.ErrDestroyed)
}

func TestItemView_MultiLineTextRoundTrips(t *testing.T) {
	for _, text := range []string{"line1\nline2", "  padded  ", "a\n\n  b\n"} {
		item, err := page.NewItemView(&notes.Note{Updated: at(1), Text: text}, page.ItemTemplate(nil)).Render(context.Background())
		require.NoError(t, err)

		quotes := page.QueryAll(item.Element(), "div", page.QuoteClass)
		require.Len(t, quotes, 1)
		require.Equal(t, text, page.TextContent(quotes[0]))
	}
}
