package cli

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mchmarny/ucdash/pkg/dashboard"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/mchmarny/ucdash/pkg/resource"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
)

const (
	categoryParam = "c"
	// categoryNone is sent by the filter form so an all-unchecked form is
	// not read as no filter.
	categoryNone = "none"
)

var templateFuncs = template.FuncMap{
	"has": func(list []score.Category, c score.Category) bool {
		for _, v := range list {
			if v == c {
				return true
			}
		}
		return false
	},
	"money": func(v float64) string {
		return fmt.Sprintf("$%.2fB", v)
	},
}

type pageData struct {
	View    *dashboard.View
	Query   template.URL
	Version string
}

func faviconHandler(w http.ResponseWriter, r *http.Request) {
	file, err := embedFS.ReadFile("assets/img/favicon.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err = w.Write(file); err != nil {
		slog.Error("failed to write favicon", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

func homeRedirectHandler(w http.ResponseWriter, r *http.Request) {
	target := "/page/" + dashboard.DefaultState().Page.Slug()
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// parseState turns the page segment and the c query values into a navigation state.
func parseState(page string, q url.Values) (dashboard.State, error) {
	p, err := dashboard.ParsePage(page)
	if err != nil {
		return dashboard.State{}, err
	}

	raw := make([]string, 0, len(q[categoryParam]))
	none := false
	for _, v := range q[categoryParam] {
		if strings.EqualFold(strings.TrimSpace(v), categoryNone) {
			none = true
			continue
		}
		raw = append(raw, v)
	}

	cats, err := score.ParseCategories(raw)
	if err != nil {
		return dashboard.State{}, err
	}

	s := dashboard.Navigate(dashboard.DefaultState(), p)
	if none && len(cats) == 0 {
		return dashboard.ClearCategories(s), nil
	}
	return dashboard.WithCategories(s, cats...), nil
}

func categoryQuery(s dashboard.State) string {
	q := url.Values{}
	if s.NoCategories {
		q.Set(categoryParam, categoryNone)
		return q.Encode()
	}
	for _, c := range s.Categories {
		q.Add(categoryParam, c.String())
	}
	return q.Encode()
}

func pageViewHandler(tmpl *template.Template, src data.Source, opt dashboard.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := parseState(chi.URLParam(r, "page"), r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		v, err := dashboard.Build(r.Context(), src, state, opt)
		if err != nil {
			slog.Error("failed to build view", "page", state.Page.Slug(), "error", err)
			http.Error(w, "failed to build view", http.StatusInternalServerError)
			return
		}

		d := &pageData{
			View:    v,
			Query:   template.URL(categoryQuery(state)),
			Version: version,
		}

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, state.Page.Slug(), d); err != nil {
			slog.Error("template render failed", "page", state.Page.Slug(), "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write page", "error", err)
		}
	}
}

func milestonesFileHandler(dir string) http.HandlerFunc {
	return localFileHandler(dir, "", resource.MilestoneCandidates...)
}

func roadmapFileHandler(dir string) http.HandlerFunc {
	return localFileHandler(dir, resource.RoadmapDeckFile, resource.RoadmapDeckFile)
}

// localFileHandler serves the first candidate found in dir. A non-empty
// attachment name makes browsers download the file instead of showing it.
func localFileHandler(dir, attachment string, candidates ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := resource.FindLocal(dir, candidates...)
		if err != nil {
			if errors.Is(err, resource.ErrMissingLocalResource) {
				writeError(w, http.StatusNotFound, resource.Hint(err))
				return
			}
			slog.Error("failed to find local file", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to find local file")
			return
		}
		if attachment != "" {
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment))
		}
		http.ServeFile(w, r, p)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownPage):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
