// Package page renders note collections into HTML node trees.
//
// Views build detached elements and only touch the tree they were given
// when a render fully succeeds. They are not safe for concurrent use.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"edxnotes/internal/notes"
	"edxnotes/views/components"
	"edxnotes/views/models"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	ItemClass  = "edxnotes-page-item"
	QuoteClass = "note-quote"
)

var ErrDestroyed = errors.New("view destroyed")

// Renderable is implemented by views that render into a node tree and can
// be torn down. Render returns the view itself so calls can be chained.
type Renderable[V any] interface {
	Render(ctx context.Context) (V, error)
	Destroy()
}

var (
	_ Renderable[*ItemView] = (*ItemView)(nil)
	_ Renderable[*ListView] = (*ListView)(nil)
)

// Template turns a note into the markup placed inside its article.
type Template func(n *notes.Note) templ.Component

// ItemTemplate returns the default note template. markdown renders the
// note comment to HTML; a nil markdown func drops comments.
func ItemTemplate(markdown func(string) string) Template {
	return func(n *notes.Note) templ.Component {
		view := models.NoteView{
			Text:    n.Text,
			Updated: n.Updated,
		}
		if n.HasID() {
			view.ID = n.ID.Hex()
		}
		if n.Comment != "" && markdown != nil {
			view.CommentHTML = markdown(n.Comment)
		}
		return components.NoteItem(view)
	}
}

// ItemView renders one note into an <article class="edxnotes-page-item">.
type ItemView struct {
	el   *html.Node
	note *notes.Note
	tmpl Template
}

func NewItemView(note *notes.Note, tmpl Template) *ItemView {
	return &ItemView{
		el:   newElement(atom.Article, ItemClass),
		note: note,
		tmpl: tmpl,
	}
}

// Element returns the article node, or nil once the view is destroyed.
func (v *ItemView) Element() *html.Node {
	return v.el
}

// Render replaces the article contents with freshly rendered markup.
// On error the previous contents are kept.
func (v *ItemView) Render(ctx context.Context) (*ItemView, error) {
	if v.el == nil {
		return nil, ErrDestroyed
	}

	var buf bytes.Buffer
	if err := v.tmpl(v.note).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render note template: %w", err)
	}
	nodes, err := html.ParseFragment(&buf, v.el)
	if err != nil {
		return nil, fmt.Errorf("parse note markup: %w", err)
	}

	removeChildren(v.el)
	for _, n := range nodes {
		v.el.AppendChild(n)
	}
	return v, nil
}

// Destroy detaches the article from its parent and drops all references.
func (v *ItemView) Destroy() {
	if v.el != nil && v.el.Parent != nil {
		v.el.Parent.RemoveChild(v.el)
	}
	v.el = nil
	v.note = nil
	v.tmpl = nil
}

func newElement(a atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}
