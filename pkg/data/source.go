package data

import (
	"context"
	"strings"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
)

const (
	SourceEmbedded = "embedded"

	sqlitePrefix = "sqlite:"
)

// Source loads the raw use case table and the allocation plan.
type Source interface {
	LoadUseCases(ctx context.Context) ([]score.UseCase, error)
	LoadPlan(ctx context.Context) (*alloc.Plan, error)
}

// Document is the serialized form shared by the YAML and URL sources.
type Document struct {
	Plan     *alloc.Plan     `json:"plan" yaml:"plan"`
	UseCases []score.UseCase `json:"use_cases" yaml:"use_cases"`
}

// ReferenceDocument returns the compiled-in data as a Document.
func ReferenceDocument() *Document {
	return &Document{
		Plan:     ReferencePlan(),
		UseCases: Reference(),
	}
}

// Embedded serves the compiled-in reference data.
type Embedded struct{}

func (Embedded) LoadUseCases(_ context.Context) ([]score.UseCase, error) {
	return Reference(), nil
}

func (Embedded) LoadPlan(_ context.Context) (*alloc.Plan, error) {
	return ReferencePlan(), nil
}

// Options tune how Open builds a source.
type Options struct {
	// Token is sent as a bearer token by URL sources.
	Token string
	// Validate wraps the source so ratings, names and the plan are checked on load.
	Validate bool
}

// Open resolves a source spec:
//
//	"" or "embedded"          compiled-in reference data
//	*.yaml, *.yml             YAML document
//	http://..., https://...   JSON document
//	postgres://...            Postgres database
//	sqlite:<path>, *.db       SQLite database
func Open(ctx context.Context, spec string, opt Options) (Source, error) {
	var src Source
	s := strings.TrimSpace(spec)
	lower := strings.ToLower(s)

	switch {
	case s == "" || lower == SourceEmbedded:
		src = Embedded{}
	case strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml"):
		src = &YAMLFile{Path: s}
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		src = NewURL(ctx, s, opt.Token)
	case isPostgres(lower) || strings.HasPrefix(lower, sqlitePrefix) || strings.HasSuffix(lower, ".db"):
		if err := Init(s); err != nil {
			return nil, errors.Wrapf(err, "error initializing database source: %s", redact(s))
		}
		db, err := GetDB(s)
		if err != nil {
			return nil, err
		}
		src = &DBSource{DB: db}
	default:
		return nil, errors.Errorf("unsupported source: %s", redact(s))
	}

	if opt.Validate {
		src = &Validating{Source: src}
	}
	return src, nil
}

// Close releases resources held by src, if any.
func Close(src Source) error {
	switch v := src.(type) {
	case *DBSource:
		return v.Close()
	case *Validating:
		return Close(v.Source)
	default:
		return nil
	}
}

// Validating checks everything it loads.
type Validating struct {
	Source
}

func (v *Validating) LoadUseCases(ctx context.Context) ([]score.UseCase, error) {
	list, err := v.Source.LoadUseCases(ctx)
	if err != nil {
		return nil, err
	}
	if err := score.Validate(list); err != nil {
		return nil, errors.Wrap(err, "invalid use case data")
	}
	return list, nil
}

func (v *Validating) LoadPlan(ctx context.Context) (*alloc.Plan, error) {
	p, err := v.Source.LoadPlan(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid allocation plan")
	}
	return p, nil
}

// redact hides the password of a connection URL before it hits logs.
func redact(s string) string {
	at := strings.LastIndex(s, "@")
	scheme := strings.Index(s, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return s
	}
	creds := s[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return s[:scheme+3] + creds[:i] + ":***" + s[at:]
	}
	return s
}
