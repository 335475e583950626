package dashboard

import (
	"strings"

	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
)

// Page is one of the fixed dashboard pages.
type Page int

const (
	Presentations Page = iota
	Dashboard
	GanttChart
	Milestones
)

var (
	ErrUnknownPage = errors.New("unknown page")

	pageTitles = map[Page]string{
		Presentations: "Presentations",
		Dashboard:     "Dashboard",
		GanttChart:    "Gantt Chart",
		Milestones:    "Milestones",
	}

	pageSlugs = map[Page]string{
		Presentations: "presentations",
		Dashboard:     "dashboard",
		GanttChart:    "gantt",
		Milestones:    "milestones",
	}
)

// Pages returns the navigation order.
func Pages() []Page {
	return []Page{Presentations, Dashboard, GanttChart, Milestones}
}

func (p Page) String() string {
	if t, ok := pageTitles[p]; ok {
		return t
	}
	return "Unknown"
}

// Slug is the URL segment of the page.
func (p Page) Slug() string {
	return pageSlugs[p]
}

// Valid reports whether p is one of the four pages.
func (p Page) Valid() bool {
	_, ok := pageTitles[p]
	return ok
}

// ParsePage accepts a page title or slug, case-insensitive.
func ParsePage(s string) (Page, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Pages() {
		if v == strings.ToLower(pageTitles[p]) || v == pageSlugs[p] {
			return p, nil
		}
	}
	return Presentations, errors.Wrapf(ErrUnknownPage, "%q", s)
}

// State is the navigation state of one viewer. It travels with each request
// instead of living in a process-wide variable.
// NoCategories marks a filter with every category deselected, which differs
// from an empty Categories list meaning no filter at all.
type State struct {
	Page         Page
	Categories   []score.Category
	NoCategories bool
}

// DefaultState opens on the presentations page with no category filter.
func DefaultState() State {
	return State{Page: Presentations}
}

// Navigate applies a navigation click. Clicking an unknown page keeps the
// current one. The category filter belongs to the dashboard page and is kept
// across navigation.
func Navigate(s State, clicked Page) State {
	if !clicked.Valid() {
		return s
	}
	next := s
	next.Page = clicked
	return next
}

// WithCategories returns s with the dashboard category filter replaced.
func WithCategories(s State, cats ...score.Category) State {
	next := s
	next.Categories = append([]score.Category(nil), cats...)
	next.NoCategories = false
	return next
}

// ClearCategories returns s with every category deselected.
func ClearCategories(s State) State {
	next := s
	next.Categories = nil
	next.NoCategories = true
	return next
}

func (p Page) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Wrapf(ErrUnknownPage, "%d", int(p))
	}
	return []byte(p.Slug()), nil
}

func (p *Page) UnmarshalText(b []byte) error {
	v, err := ParsePage(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
