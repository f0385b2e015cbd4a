package pluct

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/reoring/pluct/source"
)

// Get fetches the schema at url with DefaultClient. When auth is non-nil the
// request carries its Authorization header.
func Get(ctx context.Context, url string, auth *Auth) (*Schema, error) {
	var opts []RequestOption
	if auth != nil {
		opts = append(opts, WithAuth(*auth))
	}
	return DefaultClient.Get(ctx, url, opts...)
}

// Get issues a GET to url, decodes the body and wraps it in a Schema whose
// URL is url. url is not validated.
//
// Transport and decode errors are returned as produced by net/http and the
// decoding driver. There are no retries and the status code is not checked;
// a non-JSON error page surfaces as a decode error. Projection problems are
// returned as Issues alongside a non-nil Schema, as with New; check AsIssues
// before discarding the result.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Schema, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	ro.apply(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", url).Msg("schema fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	drv := c.driver
	if drv == nil {
		drv = source.ForContentType(resp.Header.Get("Content-Type"))
	}

	var body io.Reader = resp.Body
	if c.onDupKey != Ignore && drv.Name() == source.JSON().Name() {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if err := c.checkDuplicateKeys(url, data); err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	raw, err := drv.Decode(body)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", url).Int("status", resp.StatusCode).Str("driver", drv.Name()).Msg("schema decode failed")
		return nil, err
	}

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Str("driver", drv.Name()).
		Dur("duration", time.Since(start)).
		Msg("fetched schema")

	return New(url, raw)
}

// checkDuplicateKeys applies the client's duplicate-key policy to a JSON body.
// Malformed input is left for the decoder to report.
func (c *Client) checkDuplicateKeys(url string, data []byte) error {
	dups, err := source.DetectDuplicateKeys(data, maxDuplicateIssues+1)
	if err != nil || len(dups) == 0 {
		return nil
	}
	truncated := len(dups) > maxDuplicateIssues
	if truncated {
		dups = dups[:maxDuplicateIssues]
	}
	if c.onDupKey == Warn {
		for _, d := range dups {
			c.logger.Warn().Str("url", url).Str("path", d.Path).Msg("duplicate key in schema document")
		}
		return nil
	}
	iss := make(Issues, 0, len(dups)+1)
	for _, d := range dups {
		iss = append(iss, Issue{Path: d.Path, Code: CodeDuplicateKey, Message: "key '" + d.Key + "' duplicated"})
	}
	if truncated {
		iss = append(iss, Issue{Path: "/", Code: CodeTruncated, Message: "max issues reached"})
	}
	return iss
}
