package platforms

import (
	"context"
	"encoding/json"

	"trendradar/internal/ratelimit"
	pkgerrors "trendradar/pkg/errors"
)

// FetchJSON performs a rate-limited GET and decodes the body as JSON.
func FetchJSON(ctx context.Context, client *ratelimit.Client, host, url string, out interface{}) error {
	body, err := client.Get(ctx, host, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.TypeParse, "decode JSON response")
	}
	return nil
}

// FetchHTML performs a rate-limited GET and returns the raw HTML body.
func FetchHTML(ctx context.Context, client *ratelimit.Client, host, url string) (string, error) {
	body, err := client.Get(ctx, host, url, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
