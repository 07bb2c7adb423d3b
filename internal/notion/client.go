// Implements the rate-limited Notion API client.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Notion API base URL.
	BaseURL = "https://api.notion.com/v1"
	// APIVersion is the pinned Notion API version.
	APIVersion = "2022-06-28"
)

// Client is a rate-limited Notion API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Notion API client.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Notion allows an average of 3 requests per second.
		limiter: rate.NewLimiter(rate.Limit(3), 1),
	}
}

// SetBaseURL overrides the API base URL. Used by tests and dev proxies.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// do performs one HTTP request against the API.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr Error
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		return nil, &apiErr
	}

	return respBody, nil
}

// GetBlockChildren retrieves one page of children of a block.
func (c *Client) GetBlockChildren(ctx context.Context, blockID, cursor string) (*BlocksResponse, error) {
	path := "/blocks/" + blockID + "/children?page_size=100"
	if cursor != "" {
		path += "&start_cursor=" + cursor
	}

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp BlocksResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse blocks response: %w", err)
	}
	return &resp, nil
}

// GetBlockChildrenAll retrieves all children of a block, handling pagination.
func (c *Client) GetBlockChildrenAll(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	var cursor string

	for {
		resp, err := c.GetBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	return blocks, nil
}

// queryRequest is the request body for the database query endpoint.
type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// QueryDatabaseAll queries all rows of a database, handling pagination.
func (c *Client) QueryDatabaseAll(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	var cursor string

	for {
		req := &queryRequest{StartCursor: cursor, PageSize: 100}
		data, err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", req)
		if err != nil {
			return nil, err
		}

		var resp QueryResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse query response: %w", err)
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	return pages, nil
}

// GetPage retrieves a page by ID.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	data, err := c.do(ctx, http.MethodGet, "/pages/"+id, nil)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page response: %w", err)
	}
	return &page, nil
}

// appendRequest is the request body for appending child blocks.
type appendRequest struct {
	Children []Block `json:"children"`
}

// AppendToggle appends a toggle block with the given title to a container
// and returns the created block.
func (c *Client) AppendToggle(ctx context.Context, containerID, title string) (*Block, error) {
	req := &appendRequest{
		Children: []Block{{
			Object: "block",
			Type:   "toggle",
			Toggle: &TextBlock{
				RichText: []RichText{{Text: &TextContent{Content: title}}},
			},
		}},
	}

	data, err := c.do(ctx, http.MethodPatch, "/blocks/"+containerID+"/children", req)
	if err != nil {
		return nil, err
	}

	var resp BlocksResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse append response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("append returned no blocks")
	}
	return &resp.Results[0], nil
}

// PlainText concatenates the plain text runs of a rich text sequence.
func PlainText(rt []RichText) string {
	var sb strings.Builder
	for i := range rt {
		sb.WriteString(rt[i].PlainText)
	}
	return sb.String()
}
