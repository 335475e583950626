package net

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// Download saves the content at url into filepath. The file is only created
// once the server answered 200.
func Download(ctx context.Context, client *http.Client, url string, filepath string) (retErr error) {
	resp, err := getResp(ctx, client, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(filepath)
	if err != nil {
		return errors.Wrapf(err, "error creating file: %s", filepath)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && retErr == nil {
			retErr = errors.Wrap(cerr, "closing file")
		}
	}()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return errors.Wrap(err, "error saving downloaded content to file")
	}

	return nil
}
