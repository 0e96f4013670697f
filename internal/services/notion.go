// Notion API implementation of [Destination]
//
// Request and response shapes follow https://developers.notion.com/reference
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultNotionBaseURL  = "https://api.notion.com/v1"
	defaultNotionVersion  = "2022-06-28"
	notionMaxPageSize     = 100
	notionWorkspaceURLFmt = "https://www.notion.so/%s"
)

// NotionError is an error object returned by the Notion API.
type NotionError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *NotionError) Error() string {
	return fmt.Sprintf("notion API error (status %d, %s): %s", e.Status, e.Code, e.Message)
}

// Unwrap lets callers match any Notion error object with [shared.ErrAPIRequest].
func (e *NotionError) Unwrap() error {
	return shared.ErrAPIRequest
}

// notionObject is decoded first so error objects can be told apart from results.
type notionObject struct {
	Object string `json:"object"`
	NotionError
}

type notionPage struct {
	Object     string                    `json:"object"`
	ID         string                    `json:"id"`
	URL        string                    `json:"url"`
	Properties map[string]notionProperty `json:"properties"`
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    *[]notionPage `json:"results"`
	NextCursor *string       `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// QueryResult is one page of a database query.
type QueryResult struct {
	Rows       []models.Row
	NextCursor string
	HasMore    bool
}

// NotionOpts configures a [NotionService].
type NotionOpts struct {
	APIKey     string
	DatabaseID string
	Version    string
	BaseURL    string
	PageSize   int
	HTTPClient *http.Client
}

// NotionService implements [Destination] for a single Notion database.
type NotionService struct {
	databaseID string
	version    string
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// NewNotionService creates a Notion client authenticated with an integration token.
//
// The token is attached as a bearer token by an [oauth2.Transport] wrapped around opts.HTTPClient.
func NewNotionService(opts NotionOpts) *NotionService {
	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.APIKey, TokenType: "Bearer"})

	n := &NotionService{
		databaseID: opts.DatabaseID,
		version:    opts.Version,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		pageSize:   opts.PageSize,
		httpClient: oauth2.NewClient(ctx, src),
	}

	if n.version == "" {
		n.version = defaultNotionVersion
	}
	if n.baseURL == "" {
		n.baseURL = defaultNotionBaseURL
	}
	if n.pageSize <= 0 || n.pageSize > notionMaxPageSize {
		n.pageSize = notionMaxPageSize
	}

	return n
}

// Name returns the service name.
func (n *NotionService) Name() string {
	return "Notion"
}

// DatabaseURL returns the browser URL of the database.
func (n *NotionService) DatabaseURL() string {
	return fmt.Sprintf(notionWorkspaceURLFmt, strings.ReplaceAll(n.databaseID, "-", ""))
}

// doRequest performs an authenticated request against the Notion API.
//
// Error objects are returned as [*NotionError]. Other non-2xx responses wrap [shared.ErrAPIRequest] and
// undecodable 2xx responses wrap [shared.ErrMalformedResponse].
func (n *NotionService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, n.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Notion-Version", n.version)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var obj notionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		if !ok {
			return fmt.Errorf("%w: notion API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
		}
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
	}

	if obj.Object == "error" {
		nerr := obj.NotionError
		if nerr.Status == 0 {
			nerr.Status = resp.StatusCode
		}
		return &nerr
	}

	if !ok {
		return fmt.Errorf("%w: notion API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
		}
	}

	return nil
}

// QueryPage fetches a single page of rows, starting at cursor (empty for the first page).
func (n *NotionService) QueryPage(ctx context.Context, cursor string) (*QueryResult, error) {
	endpoint := fmt.Sprintf("/databases/%s/query", n.databaseID)
	body := queryRequest{PageSize: n.pageSize, StartCursor: cursor}

	var resp queryResponse
	if err := n.doRequest(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, err
	}

	if resp.Results == nil {
		return nil, fmt.Errorf("%w: query response has no results", shared.ErrMalformedResponse)
	}

	result := &QueryResult{Rows: make([]models.Row, len(*resp.Results)), HasMore: resp.HasMore}
	for i, page := range *resp.Results {
		result.Rows[i] = page.toRow()
	}
	if resp.NextCursor != nil {
		result.NextCursor = *resp.NextCursor
	}

	return result, nil
}

// QueryRows fetches every row of the database, following continuation cursors until none is returned.
func (n *NotionService) QueryRows(ctx context.Context) ([]models.Row, error) {
	var rows []models.Row
	seen := make(map[string]bool)
	cursor := ""

	for {
		page, err := n.QueryPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		rows = append(rows, page.Rows...)

		if page.NextCursor == "" {
			break
		}
		if seen[page.NextCursor] {
			return nil, fmt.Errorf("%w: cursor %q returned twice", shared.ErrMalformedResponse, page.NextCursor)
		}

		seen[page.NextCursor] = true
		cursor = page.NextCursor
	}

	if rows == nil {
		rows = []models.Row{}
	}
	return rows, nil
}

// CreateRow appends a page for track to the database and returns the created row.
func (n *NotionService) CreateRow(ctx context.Context, track models.Track) (*models.Row, error) {
	payload := BuildPagePayload(n.databaseID, track)

	var page notionPage
	if err := n.doRequest(ctx, http.MethodPost, "/pages", payload, &page); err != nil {
		return nil, err
	}

	row := page.toRow()
	return &row, nil
}

// toRow mirrors a page's properties into a [models.Row].
func (p notionPage) toRow() models.Row {
	row := models.Row{
		PageID:   p.ID,
		URL:      p.URL,
		VideoID:  plainText(p.Properties[PropVideoID].RichText),
		Title:    plainText(p.Properties[PropTitle].Title),
		Artist:   plainText(p.Properties[PropArtist].RichText),
		Album:    plainText(p.Properties[PropAlbum].RichText),
		Duration: plainText(p.Properties[PropDuration].RichText),
	}

	if num := p.Properties[PropDurationSeconds].Number; num != nil {
		row.DurationSeconds = int(*num)
	}
	if u := p.Properties[PropVideo].URL; u != nil {
		row.Link = *u
	}
	if files := p.Properties[PropCover].Files; files != nil && len(*files) > 0 {
		f := (*files)[0]
		switch {
		case f.External != nil:
			row.Cover = f.External.URL
		case f.File != nil:
			row.Cover = f.File.URL
		}
	}

	return row
}

// plainText concatenates rich text items, preferring plain_text over text.content.
func plainText(items []notionRichText) string {
	var b strings.Builder
	for _, item := range items {
		switch {
		case item.PlainText != "":
			b.WriteString(item.PlainText)
		case item.Text != nil:
			b.WriteString(item.Text.Content)
		}
	}
	return b.String()
}
