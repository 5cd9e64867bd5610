// Package notion is the remote content store client: authentication, paged
// database queries and recursive block listing.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
	pageSize       = 100
)

// Config holds the client settings.
type Config struct {
	Token     string
	BaseURL   string
	Version   string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// Client talks to the content store API. It implements core.PageLister and
// core.BlockSource.
type Client struct {
	http   *resty.Client
	logger logging.Logger
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type pageList struct {
	Results    []core.Page `json:"results"`
	HasMore    bool        `json:"has_more"`
	NextCursor string      `json:"next_cursor"`
}

type blockList struct {
	Results    []core.Block `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New creates a Client. Zero values fall back to the public API defaults.
func New(cfg Config, logger logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.Timeout).
		SetHeader("Notion-Version", cfg.Version).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() == http.StatusTooManyRequests
		})

	return &Client{http: client, logger: logging.OrNoOp(logger)}
}

// Authenticate verifies the token once before the first sync.
func (c *Client) Authenticate(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Get("/users/me")
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	return checkStatus(resp, "authenticate")
}

// ListPages returns every page of a database, following next_cursor.
func (c *Client) ListPages(ctx context.Context, databaseID string) ([]core.Page, error) {
	if databaseID == "" {
		return nil, core.ErrMissingDatabaseID
	}

	var pages []core.Page
	cursor := ""
	for {
		var list pageList
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(queryRequest{PageSize: pageSize, StartCursor: cursor}).
			SetResult(&list).
			SetError(&apiError{}).
			Post("/databases/" + databaseID + "/query")
		if err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
		}
		if err := checkStatus(resp, "query database "+databaseID); err != nil {
			return nil, err
		}

		pages = append(pages, list.Results...)
		c.logger.Debug("listed pages", "database", databaseID, "batch", len(list.Results), "total", len(pages))
		if !list.HasMore || list.NextCursor == "" {
			return pages, nil
		}
		cursor = list.NextCursor
	}
}

// PageBlocks returns the block tree of a page. Nested blocks are fetched
// recursively, except for child pages and databases.
func (c *Client) PageBlocks(ctx context.Context, pageID string) ([]core.Block, error) {
	blocks, err := c.children(ctx, pageID)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		b := &blocks[i]
		if !b.HasChildren || b.Type == core.BlockChildPage || b.Type == core.BlockChildDatabase {
			continue
		}
		if b.Children, err = c.PageBlocks(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

func (c *Client) children(ctx context.Context, blockID string) ([]core.Block, error) {
	var blocks []core.Block
	cursor := ""
	for {
		var list blockList
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("page_size", strconv.Itoa(pageSize)).
			SetResult(&list).
			SetError(&apiError{})
		if cursor != "" {
			req.SetQueryParam("start_cursor", cursor)
		}

		resp, err := req.Get("/blocks/" + blockID + "/children")
		if err != nil {
			return nil, fmt.Errorf("failed to list blocks of %s: %w", blockID, err)
		}
		if err := checkStatus(resp, "list blocks of "+blockID); err != nil {
			return nil, err
		}

		blocks = append(blocks, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			return blocks, nil
		}
		cursor = list.NextCursor
	}
}

func checkStatus(resp *resty.Response, op string) error {
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}

	detail := resp.String()
	if e, ok := resp.Error().(*apiError); ok && e.Message != "" {
		detail = e.Code + ": " + e.Message
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%s: status %d: %w", op, status, core.ErrMissingCredentials)
	}
	return fmt.Errorf("%s: API returned status %d: %s", op, status, detail)
}
