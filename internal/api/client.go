package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls the daemon's HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient builds a client for the daemon listening at bind, a host:port
// pair or full URL.
func NewClient(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, fmt.Errorf("api: bind address is empty")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	baseURL, err := url.Parse(bind)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// Status fetches daemon runtime state.
func (c *Client) Status(ctx context.Context) (DaemonStatus, error) {
	var status DaemonStatus
	err := c.getJSON(ctx, "/api/status", nil, &status)
	return status, err
}

// Subtitle resolves subtitle content for a title and language.
func (c *Client) Subtitle(ctx context.Context, title, language string) (SubtitleResult, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("language", language)

	resp, err := c.get(ctx, "/api/subtitle", params)
	if err != nil {
		return SubtitleResult{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return SubtitleResult{}, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return SubtitleResult{}, fmt.Errorf("api: read subtitle body: %w", err)
	}
	return SubtitleResult{
		Content:  data,
		Source:   resp.Header.Get("X-Subtitle-Source"),
		CacheHit: resp.Header.Get("X-Subtitle-Cache") == "hit",
		Provider: resp.Header.Get("X-Subtitle-Provider"),
	}, nil
}

// Popular fetches the most requested movies.
func (c *Client) Popular(ctx context.Context, limit int) (PopularResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var popular PopularResponse
	err := c.getJSON(ctx, "/api/popular", params, &popular)
	return popular, err
}

// Search queries the media catalog. A non-empty session resumes paging.
func (c *Client) Search(ctx context.Context, query, language, session string, limit int) (SearchResponse, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if language != "" {
		params.Set("language", language)
	}
	if session != "" {
		params.Set("session", session)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var result SearchResponse
	err := c.getJSON(ctx, "/api/search", params, &result)
	return result, err
}

// Suggestions fetches cache-warming candidates.
func (c *Client) Suggestions(ctx context.Context, limit int) (SuggestionsResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var suggestions SuggestionsResponse
	err := c.getJSON(ctx, "/api/suggestions", params, &suggestions)
	return suggestions, err
}

// AddMedia registers a media file in the catalog.
func (c *Client) AddMedia(ctx context.Context, req AddMediaRequest) (AddMediaResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return AddMediaResponse{}, fmt.Errorf("api: encode media request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL.JoinPath("/api/media").String(), bytes.NewReader(payload))
	if err != nil {
		return AddMediaResponse{}, fmt.Errorf("api: build media request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return AddMediaResponse{}, fmt.Errorf("api: add media request failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return AddMediaResponse{}, err
	}
	var result AddMediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return AddMediaResponse{}, fmt.Errorf("api: decode media response: %w", err)
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request %s failed: %w", path, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("api: %s: %s", resp.Status, envelope.Error)
	}
	return fmt.Errorf("api: %s: %s", resp.Status, strings.TrimSpace(string(body)))
}
