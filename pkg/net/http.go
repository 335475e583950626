package net

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// ErrorURLNotFound is returned when the remote resource answers 404.
var ErrorURLNotFound = errors.New("URL not found")

func getResp(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	if client == nil {
		c, err := GetHTTPClient()
		if err != nil {
			return nil, errors.Wrap(err, "error creating HTTP client")
		}
		client = c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating HTTP Get request")
	}

	req.Header.Set("User-Agent", clientAgent)

	resp, err := client.Do(req) //nolint:gosec // URL comes from local config
	if err != nil {
		return nil, errors.Wrapf(err, "error executing HTTP Get request: %s", url)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrorURLNotFound
	}

	if resp.StatusCode != http.StatusOK {
		PrintHTTPResponse(resp)
		resp.Body.Close()
		return nil, errors.Errorf("unexpected response (status: %d - %s): %s", resp.StatusCode, resp.Status, url)
	}

	return resp, nil
}

// GetJSON retrieves the HTTP content and decodes it into the passed target.
// A nil client uses GetHTTPClient.
func GetJSON[T any](ctx context.Context, client *http.Client, url string, target *T) error {
	resp, err := getResp(ctx, client, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrap(err, "error decoding content")
	}
	return nil
}
