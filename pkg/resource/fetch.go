package resource

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mchmarny/ucdash/pkg/net"
	"github.com/pkg/errors"
)

const dirMode = 0700

// Fetch downloads url into dir/name, creating dir when needed, and returns
// the written path. A nil client uses the default anonymous client.
func Fetch(ctx context.Context, client *http.Client, url, dir, name string) (string, error) {
	if url == "" {
		return "", errors.New("url required")
	}
	if name == "" {
		return "", errors.New("file name required")
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", errors.Wrapf(err, "failed to create dir: %s", dir)
	}

	p := filepath.Join(dir, filepath.Base(name))
	slog.Debug("downloading resource", "url", url, "path", p)
	if err := net.Download(ctx, client, url, p); err != nil {
		return "", errors.Wrapf(err, "error downloading %s", url)
	}
	return p, nil
}
