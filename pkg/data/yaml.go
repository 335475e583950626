package data

import (
	"bytes"
	"context"
	"os"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const fileMode = 0600

// YAMLFile reads a Document from disk on every load, so edits show up on
// the next render.
type YAMLFile struct {
	Path string
}

func (y *YAMLFile) LoadUseCases(_ context.Context) ([]score.UseCase, error) {
	d, err := ReadYAML(y.Path)
	if err != nil {
		return nil, err
	}
	return d.UseCases, nil
}

func (y *YAMLFile) LoadPlan(_ context.Context) (*alloc.Plan, error) {
	d, err := ReadYAML(y.Path)
	if err != nil {
		return nil, err
	}
	if d.Plan == nil {
		return nil, errors.Errorf("plan missing in %s", y.Path)
	}
	return d.Plan, nil
}

// ReadYAML decodes a Document. Unknown fields are rejected.
func ReadYAML(path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("path required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading source file: %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "error decoding source file: %s", path)
	}
	return &d, nil
}

// WriteYAML encodes d into path.
func WriteYAML(path string, d *Document) error {
	if path == "" {
		return errors.New("path required")
	}
	if d == nil {
		return errors.New("document required")
	}
	b, err := yaml.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "failed to marshal document")
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write file: %s", path)
	}
	return nil
}
