package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edumirror/mirror-api/pkg/config"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

// Client talks to the upstream LMS REST API. It is the network side of every
// data source and the only component that performs remote I/O. Failures are
// surfaced as TRANSPORT_FAILURE errors; no retries happen at this level.
type Client struct {
	baseURL string
	token   string
	perPage int
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs an API client from configuration.
func NewClient(cfg config.LMSConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		perPage: perPage,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// get performs a GET against either a path relative to the base URL or an
// absolute URL (continuation links come back absolute). It decodes the body
// into out and returns the rel="next" link, empty when there is none.
func (c *Client) get(ctx context.Context, target string, query url.Values, out interface{}) (string, error) {
	full := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		full = c.baseURL + target
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "request "+target)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", appErrors.Clone(appErrors.ErrNotFound, "resource not found: "+target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", appErrors.Wrap(
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "request "+target)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "decode "+target)
		}
	}

	return nextLink(resp.Header.Get("Link")), nil
}

func (c *Client) pageQuery() url.Values {
	return url.Values{"per_page": []string{strconv.Itoa(c.perPage)}}
}

// nextLink extracts the rel="next" URL from a Link header. A missing or
// malformed header means there are no more pages, never an error.
func nextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		target := strings.TrimSpace(section[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
