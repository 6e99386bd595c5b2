package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/justyntemme/comics-t/pkg/models"
)

// Headers sent with every request
const (
	HeaderRequestedWith = "X-Requested-With"
	HeaderCSRFToken     = "X-CSRF-TOKEN"
	requestedWithXHR    = "XMLHttpRequest"
)

// Client is the HTTP client for the comics API
type Client struct {
	baseURL    string
	token      string
	csrfToken  string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// SetToken updates the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// SetCSRFToken sets the token sent on mutating requests
func (c *Client) SetCSRFToken(token string) {
	c.csrfToken = token
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request makes an HTTP request to the API
func (c *Client) request(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestedWith, requestedWithXHR)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead && c.csrfToken != "" {
		req.Header.Set(HeaderCSRFToken, c.csrfToken)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// do sends a request and wraps transport failures as *NetworkError
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}) (*http.Response, error) {
	resp, err := c.request(ctx, method, path, body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

// parseResponse reads and unmarshals the response body
func parseResponse[T any](op string, resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, &NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, statusError(op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	return result, nil
}

// drainResponse checks the status of a response whose body is not needed
func drainResponse(op string, resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return statusError(op, resp.StatusCode, body)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(op string, status int, body []byte) error {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &NetworkError{Op: op, Status: status, Message: string(bytes.TrimSpace(body))}
	}
	return &NetworkError{Op: op, Status: status, Message: errResp.Error}
}

func comicPath(slug string) string {
	return "/api/comics/" + url.PathEscape(slug)
}

// Comic methods

// GetComic returns a comic's metadata
func (c *Client) GetComic(ctx context.Context, slug string) (*models.Comic, error) {
	resp, err := c.do(ctx, "get comic", http.MethodGet, comicPath(slug), nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[*models.Comic]("get comic", resp)
}

// GetPageImage returns the raw image for a 1-indexed page and its content type
func (c *Client) GetPageImage(ctx context.Context, slug string, page int) ([]byte, string, error) {
	const op = "get page image"
	resp, err := c.do(ctx, op, http.MethodGet, comicPath(slug)+"/pages/"+strconv.Itoa(page), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", statusError(op, resp.StatusCode, data)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Bookmark methods

// ListBookmarks returns all bookmarks for a comic
func (c *Client) ListBookmarks(ctx context.Context, slug string) ([]models.Bookmark, error) {
	resp, err := c.do(ctx, "list bookmarks", http.MethodGet, comicPath(slug)+"/bookmarks", nil)
	if err != nil {
		return nil, err
	}
	result, err := parseResponse[models.BookmarksResponse]("list bookmarks", resp)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// CreateBookmark bookmarks a page
func (c *Client) CreateBookmark(ctx context.Context, slug string, page int, note string) (*models.Bookmark, error) {
	resp, err := c.do(ctx, "create bookmark", http.MethodPost, comicPath(slug)+"/bookmarks", map[string]interface{}{
		"page_number": page,
		"note":        note,
	})
	if err != nil {
		return nil, err
	}
	return parseResponse[*models.Bookmark]("create bookmark", resp)
}

// UpdateBookmark replaces a bookmark's note
func (c *Client) UpdateBookmark(ctx context.Context, slug, id, note string) (*models.Bookmark, error) {
	resp, err := c.do(ctx, "update bookmark", http.MethodPatch, comicPath(slug)+"/bookmarks/"+url.PathEscape(id), map[string]string{
		"note": note,
	})
	if err != nil {
		return nil, err
	}
	return parseResponse[*models.Bookmark]("update bookmark", resp)
}

// DeleteBookmark removes a bookmark
func (c *Client) DeleteBookmark(ctx context.Context, slug, id string) error {
	resp, err := c.do(ctx, "delete bookmark", http.MethodDelete, comicPath(slug)+"/bookmarks/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return drainResponse("delete bookmark", resp)
}

// Progress methods

// GetProgress returns the saved reading progress for a comic
func (c *Client) GetProgress(ctx context.Context, slug string) (*models.ProgressRecord, error) {
	resp, err := c.do(ctx, "get progress", http.MethodGet, comicPath(slug)+"/progress", nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[*models.ProgressRecord]("get progress", resp)
}

// UpdateProgress saves the current page
func (c *Client) UpdateProgress(ctx context.Context, slug string, currentPage, totalPages int) (*models.ProgressRecord, error) {
	resp, err := c.do(ctx, "update progress", http.MethodPatch, comicPath(slug)+"/progress", map[string]int{
		"current_page": currentPage,
		"total_pages":  totalPages,
	})
	if err != nil {
		return nil, err
	}
	return parseResponse[*models.ProgressRecord]("update progress", resp)
}

// Session methods

// ListSessions returns reading session history, optionally for one comic
func (c *Client) ListSessions(ctx context.Context, slug string) ([]models.ReadingSession, error) {
	path := "/api/reading-sessions"
	if slug != "" {
		path += "?" + url.Values{"comic": {slug}}.Encode()
	}

	resp, err := c.do(ctx, "list sessions", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	result, err := parseResponse[models.SessionsResponse]("list sessions", resp)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// RecordSession uploads a finished reading session
func (c *Client) RecordSession(ctx context.Context, session models.ReadingSession) error {
	resp, err := c.do(ctx, "record session", http.MethodPost, comicPath(session.ComicSlug)+"/sessions", session)
	if err != nil {
		return err
	}
	return drainResponse("record session", resp)
}

// Health check

// Health checks if the server is available
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, "health", http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return drainResponse("health", resp)
}
