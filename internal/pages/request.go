package pages

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"marketdash/internal/config"
	"marketdash/internal/present"
)

// ErrInvalidInput wraps every request parameter problem.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request carries the user's selections for one render.
type Request struct {
	Params url.Values
}

// NewRequest builds a request from key/value pairs.
func NewRequest(kv ...string) Request {
	p := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Add(kv[i], kv[i+1])
	}
	return Request{Params: p}
}

// Get returns the first value of key, trimmed.
func (r Request) Get(key string) string {
	return strings.TrimSpace(r.Params.Get(key))
}

// Has reports whether key was sent at all, even empty.
func (r Request) Has(key string) bool {
	_, ok := r.Params[key]
	return ok
}

// List collects key from repeated parameters and comma separated values.
func (r Request) List(key string) []string {
	var out []string
	for _, v := range r.Params[key] {
		out = append(out, config.SplitCSV(v)...)
	}
	return out
}

// Int parses key, returning def when it is absent.
func (r Request) Int(key string, def int) (int, error) {
	v := r.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidInput, key)
	}
	return n, nil
}

// Bool parses key, returning false when it is absent.
func (r Request) Bool(key string) (bool, error) {
	v := r.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidInput, key)
	}
	return b, nil
}

// ordering is the sort selection shared by every page.
type ordering struct {
	Sort  string
	Order string `validate:"omitempty,oneof=asc desc"`
}

func (r Request) ordering() ordering {
	return ordering{Sort: r.Get("sort"), Order: strings.ToLower(r.Get("order"))}
}

// check validates o against the page's columns before anything is fetched.
func (o ordering) check(columns []string) error {
	if err := check(o); err != nil {
		return err
	}
	if o.Sort != "" && !slices.ContainsFunc(columns, func(c string) bool { return strings.EqualFold(c, o.Sort) }) {
		return fmt.Errorf("%w: %q: %w", ErrInvalidInput, o.Sort, present.ErrUnknownColumn)
	}
	return nil
}

func (o ordering) apply(g present.Grid) present.Grid {
	if o.Sort == "" {
		return g
	}
	sorted, err := g.SortBy(o.Sort, o.Order == "desc")
	if err != nil {
		return g
	}
	return sorted
}

// check runs the struct's validate tags.
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: %q is not allowed (%s=%s)", strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
