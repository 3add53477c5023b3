package courtlistener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"benchwatch/pkg/platform/sentinel"
)

const defaultPageSize = 20

// HTTPClient talks to the CourtListener-style REST API. The opaque Cursor it
// hands out is the absolute next-page URL; callers never inspect it.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient builds an upstream client. An empty token sends anonymous
// requests, which upstream rate-limits aggressively.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// ListChanged fetches one page of people ordered most-recently-modified-first.
func (c *HTTPClient) ListChanged(ctx context.Context, cursor Cursor, opts ListOptions) (*ListPage, error) {
	target := string(cursor)
	if target == "" {
		q := url.Values{}
		q.Set("order_by", "-date_modified")
		pageSize := opts.PageSize
		if pageSize <= 0 {
			pageSize = defaultPageSize
		}
		q.Set("page_size", strconv.Itoa(pageSize))
		if opts.Jurisdiction != "" {
			q.Set("positions__court__jurisdiction", opts.Jurisdiction)
		}
		target = c.baseURL + "/people/?" + q.Encode()
	}

	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Next    *string           `json:"next"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode people listing: %w", err)
	}

	page := &ListPage{Records: make([]JudgeRecord, 0, len(wire.Results))}
	for _, raw := range wire.Results {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		page.Records = append(page.Records, rec)
	}
	if wire.Next != nil && *wire.Next != "" {
		page.Next = Cursor(*wire.Next)
	}
	return page, nil
}

// GetJudge fetches one person by upstream id.
func (c *HTTPClient) GetJudge(ctx context.Context, externalID string) (*JudgeRecord, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/people/%s/", c.baseURL, externalID))
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord(body)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("upstream %s: %w", target, sentinel.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("upstream rate limited: %w", sentinel.ErrUnavailable)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("upstream status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return body, nil
}

func decodeRecord(raw json.RawMessage) (JudgeRecord, error) {
	var wire struct {
		ID json.Number `json:"id"`
		JudgeRecord
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return JudgeRecord{}, fmt.Errorf("decode person record: %w", err)
	}
	rec := wire.JudgeRecord
	rec.ID = wire.ID.String()
	rec.Raw = append(json.RawMessage(nil), raw...)
	return rec, nil
}
