// Package api is the REST transport to the settings store: batch
// submission and state reads.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"config-cli/address"
	"config-cli/internal/httpx"
	"config-cli/models"
)

// DefaultURL is the REST API address used when none is configured.
const DefaultURL = "http://localhost:8080"

// ErrTransport wraps every network or remote failure.
var ErrTransport = errors.New("transport error")

// maxPages bounds how many paging links ListState follows.
const maxPages = 1000

// Client talks to a store's REST API.
type Client struct {
	http *httpx.Client
}

// New constructs a Client for baseURL.
func New(baseURL string, opts ...httpx.Option) (*Client, error) {
	cl, err := httpx.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: cl}, nil
}

type leafResponse struct {
	Data string `json:"data"`
	Head string `json:"head"`
}

type listResponse struct {
	Data   []models.StateEntry `json:"data"`
	Head   string              `json:"head"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// SubmitBatches posts a serialized batch list.
func (c *Client) SubmitBatches(ctx context.Context, list *models.BatchList) error {
	resp, err := c.http.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "/batches",
		Header: http.Header{"Content-Type": {"application/octet-stream"}},
		Body:   list.Marshal(),
	})
	if err != nil {
		return fmt.Errorf("%w: submit batches: %w", ErrTransport, err)
	}
	resp.Body.Close()
	return nil
}

// GetLeaf fetches the state stored at addr. A missing leaf returns nil
// without error.
func (c *Client) GetLeaf(ctx context.Context, addr string) (*models.StateEntry, error) {
	if !address.IsValid(addr) {
		return nil, fmt.Errorf("%w: invalid address %q", ErrTransport, addr)
	}

	resp, err := c.http.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   "/state/" + addr,
	})
	if err != nil {
		var httpErr *httpx.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get state %s: %w", ErrTransport, addr, err)
	}

	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read state %s: %w", ErrTransport, addr, err)
	}
	var leaf leafResponse
	if err := json.Unmarshal(body, &leaf); err != nil {
		return nil, fmt.Errorf("%w: decode state %s response: %w", ErrTransport, addr, err)
	}
	if leaf.Data == "" {
		return nil, nil
	}
	return &models.StateEntry{Address: addr, Data: leaf.Data}, nil
}

// ListState returns every leaf under subtree, following paging links.
func (c *Client) ListState(ctx context.Context, subtree string) (*models.StateList, error) {
	out := &models.StateList{Entries: make([]models.StateEntry, 0)}
	query := url.Values{"address": {subtree}}

	for page := 0; page < maxPages; page++ {
		resp, err := c.http.Do(ctx, &httpx.Request{
			Method: http.MethodGet,
			Path:   "/state",
			Query:  query,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list state %s: %w", ErrTransport, subtree, err)
		}
		body, err := httpx.ReadAllAndClose(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read state listing: %w", ErrTransport, err)
		}

		var list listResponse
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("%w: decode state listing: %w", ErrTransport, err)
		}
		if page == 0 {
			out.Head = list.Head
		}
		out.Entries = append(out.Entries, list.Data...)

		if list.Paging.Next == "" {
			return out, nil
		}
		next, err := url.Parse(list.Paging.Next)
		if err != nil {
			return nil, fmt.Errorf("%w: bad paging link %q: %w", ErrTransport, list.Paging.Next, err)
		}
		query = next.Query()
		// Pin later pages to the head of the first one.
		if out.Head != "" && query.Get("head") == "" {
			query.Set("head", out.Head)
		}
	}
	return nil, fmt.Errorf("%w: state listing exceeded %d pages", ErrTransport, maxPages)
}
