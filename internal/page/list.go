package page

import (
	"context"
	"fmt"
	"io"

	"edxnotes/internal/notes"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const ListClass = "edxnotes-page-items"

// ListView renders every note of a collection into root, one ItemView per
// note, in collection order.
type ListView struct {
	root  *html.Node
	coll  *notes.Collection
	tmpl  Template
	items []*ItemView
}

func NewListView(root *html.Node, coll *notes.Collection, tmpl Template) *ListView {
	return &ListView{root: root, coll: coll, tmpl: tmpl}
}

// NewRoot returns a detached <section> suitable as a list root.
func NewRoot() *html.Node {
	return newElement(atom.Section, ListClass)
}

// Root returns the node items are appended to.
func (v *ListView) Root() *html.Node {
	return v.root
}

// Items returns the currently rendered item views.
func (v *ListView) Items() []*ItemView {
	return v.items
}

// Render rebuilds the list from the collection's current order. Items are
// rendered detached first; if any of them fails the previously rendered
// items stay in place and the error is returned.
func (v *ListView) Render(ctx context.Context) (*ListView, error) {
	if v.root == nil {
		return nil, ErrDestroyed
	}

	items := make([]*ItemView, 0, v.coll.Len())
	for i, n := range v.coll.All() {
		item, err := NewItemView(n, v.tmpl).Render(ctx)
		if err != nil {
			for _, it := range items {
				it.Destroy()
			}
			return nil, fmt.Errorf("render item %d: %w", i, err)
		}
		items = append(items, item)
	}

	v.destroyItems()
	for _, item := range items {
		v.root.AppendChild(item.Element())
	}
	v.items = items
	return v, nil
}

// Destroy removes every rendered item from the root. The root itself is
// left in place since the list view does not own it.
func (v *ListView) Destroy() {
	v.destroyItems()
	v.root = nil
	v.coll = nil
}

func (v *ListView) destroyItems() {
	for _, item := range v.items {
		item.Destroy()
	}
	v.items = nil
}

// Component writes the root and its rendered items as HTML.
func (v *ListView) Component() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if v.root == nil {
			return ErrDestroyed
		}
		return html.Render(w, v.root)
	})
}
