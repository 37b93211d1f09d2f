// Package pages implements the dashboard pages and the router that selects
// one of them by label.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketdash/internal/present"
)

// ErrUnknownPage is returned for labels no page answers to.
var ErrUnknownPage = errors.New("unknown page")

// Page is one dashboard screen. Render runs a full fetch, transform and present
// cycle from req; provider failures come back as notices on the view, and
// the error is reserved for invalid input. Refresh drops the page's cached data.
type Page interface {
	Label() string
	Render(ctx context.Context, req Request) (present.View, error)
	Refresh()
}

// Slug turns a label into its URL form ("ETFs Value" -> "etfs-value").
func Slug(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), "-"))
}

// Router maps labels to pages, keeping registration order.
type Router struct {
	pages []Page
}

// NewRouter registers pages in menu order.
func NewRouter(pages ...Page) *Router {
	return &Router{pages: pages}
}

// Labels returns the menu.
func (r *Router) Labels() []string {
	out := make([]string, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.Label()
	}
	return out
}

// Lookup finds a page by label or slug, ignoring case.
func (r *Router) Lookup(label string) (Page, bool) {
	label = strings.TrimSpace(label)
	for _, p := range r.pages {
		if strings.EqualFold(p.Label(), label) || Slug(p.Label()) == Slug(label) {
			return p, true
		}
	}
	return nil, false
}

// Render renders the page selected by label.
func (r *Router) Render(ctx context.Context, label string, req Request) (present.View, error) {
	p, ok := r.Lookup(label)
	if !ok {
		return present.View{}, fmt.Errorf("%w: %q", ErrUnknownPage, label)
	}
	return p.Render(ctx, req)
}

// Refresh invalidates the page's cached data, then renders it again.
func (r *Router) Refresh(ctx context.Context, label string, req Request) (present.View, error) {
	p, ok := r.Lookup(label)
	if !ok {
		return present.View{}, fmt.Errorf("%w: %q", ErrUnknownPage, label)
	}
	p.Refresh()
	return p.Render(ctx, req)
}

// finish sets the view state from its grid and notices.
func finish(v present.View, noData string) present.View {
	switch {
	case v.Grid != nil && len(v.Grid.Rows) > 0:
		v.State = present.StateSuccess
		v.Notices.Success("Data loaded successfully!")
	default:
		v.Grid = nil
		v.State = present.StateEmpty
		v.Notices.Warn(noData)
	}
	return v
}
