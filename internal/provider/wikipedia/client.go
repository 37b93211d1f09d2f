// Package wikipedia reads index constituent lists from Wikipedia article tables.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"marketdash/internal/provider"
)

const (
	// SP500URL lists the S&P 500 members in a table with id "constituents".
	SP500URL     = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	SP500TableID = "constituents"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=wikipedia_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client scrapes one constituents table.
type Client struct {
	url        string
	tableID    string
	httpClient HTTPClient
}

// Option is a configuration option for the Wikipedia client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithPage sets the article URL and the id attribute of its table.
func WithPage(url, tableID string) Option {
	return func(c *Client) {
		c.url = url
		c.tableID = tableID
	}
}

// New creates a client for the S&P 500 list unless WithPage says otherwise.
func New(options ...Option) (*Client, error) {
	c := &Client{url: SP500URL, tableID: SP500TableID, httpClient: http.DefaultClient}
	for _, option := range options {
		option(c)
	}
	if c.url == "" || c.tableID == "" {
		return nil, fmt.Errorf("page url and table id are required")
	}
	return c, nil
}

// Constituents downloads the article and returns one Constituent per table row.
func (c *Client) Constituents(ctx context.Context) ([]provider.Constituent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
	return ParseConstituents(res.Body, c.tableID)
}

// ParseConstituents extracts the table with the given id from an HTML document.
// Columns are matched by header text, so their order does not matter; the
// Symbol column is required.
func ParseConstituents(r io.Reader, tableID string) ([]provider.Constituent, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	table := findByID(doc, atom.Table, tableID)
	if table == nil {
		return nil, fmt.Errorf("table %q not found", tableID)
	}

	var header []string
	var out []provider.Constituent
	for _, tr := range findAll(table, atom.Tr) {
		var cells []string
		isHeader := false
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if td.Type != html.ElementNode {
				continue
			}
			switch td.DataAtom {
			case atom.Th:
				isHeader = true
				cells = append(cells, text(td))
			case atom.Td:
				cells = append(cells, text(td))
			}
		}
		if isHeader && header == nil {
			header = cells
			if index(header, "Symbol") < 0 {
				return nil, fmt.Errorf("table %q has no Symbol column", tableID)
			}
			continue
		}
		if header == nil || len(cells) == 0 {
			continue
		}
		get := func(name string) string {
			if i := index(header, name); i >= 0 && i < len(cells) {
				return cells[i]
			}
			return ""
		}
		symbol := get("Symbol")
		if symbol == "" {
			continue
		}
		con := provider.Constituent{
			Symbol:       symbol,
			Security:     get("Security"),
			Sector:       get("GICS Sector"),
			SubIndustry:  get("GICS Sub-Industry"),
			Headquarters: get("Headquarters Location"),
			CIK:          get("CIK"),
			Founded:      get("Founded"),
		}
		if d, err := time.Parse(time.DateOnly, get("Date added")); err == nil {
			con.DateAdded = d
		}
		out = append(out, con)
	}
	if header == nil {
		return nil, fmt.Errorf("table %q has no header row", tableID)
	}
	return out, nil
}

func index(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func findByID(n *html.Node, a atom.Atom, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, a, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// text returns the visible text of n with whitespace collapsed; footnote
// markers (<sup>) are skipped.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case n.Type == html.ElementNode && n.DataAtom == atom.Sup:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
