// Package twitter is a minimal client for the X API v2: the three calls the
// bot needs (user lookup, user timeline, create post) and nothing else.
package twitter

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

const (
	defaultBaseURL = "https://api.x.com"

	// The v2 timeline endpoint rejects max_results outside 5..100.
	minPageSize = 5
	maxPageSize = 100
)

type Client struct {
	http        *http.Client
	baseURL     string
	bearerToken string
	accessToken string
}

// New builds a client. bearerToken authenticates reads (lookup, timeline);
// accessToken authenticates the create-post call. An empty accessToken falls
// back to the bearer token.
func New(httpClient *http.Client, baseURL, bearerToken, accessToken string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:        httpClient,
		baseURL:     baseURL,
		bearerToken: strings.TrimSpace(bearerToken),
		accessToken: strings.TrimSpace(accessToken),
	}
}

func (c *Client) LookupUser(ctx context.Context, handle string) (User, error) {
	if c == nil || c.http == nil {
		return User{}, fmt.Errorf("twitter client is not initialized")
	}
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return User{}, fmt.Errorf("handle is required")
	}

	var out struct {
		Data User `json:"data"`
	}
	path := "/2/users/by/username/" + url.PathEscape(handle)
	if err := c.doJSON(ctx, http.MethodGet, path, c.bearerToken, nil, &out); err != nil {
		return User{}, fmt.Errorf("lookup user %s: %w", handle, err)
	}
	if strings.TrimSpace(out.Data.ID) == "" {
		return User{}, fmt.Errorf("lookup user %s: empty user id", handle)
	}
	return out.Data, nil
}

// UserPosts fetches up to maxResults posts for userID, newest first. A
// non-empty sinceID is passed as a lower-bound filter.
func (c *Client) UserPosts(ctx context.Context, userID, sinceID string, maxResults int) ([]Post, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("twitter client is not initialized")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if maxResults < minPageSize {
		maxResults = minPageSize
	}
	if maxResults > maxPageSize {
		maxResults = maxPageSize
	}

	q := url.Values{}
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("tweet.fields", "created_at,in_reply_to_user_id")
	if sinceID = strings.TrimSpace(sinceID); sinceID != "" {
		q.Set("since_id", sinceID)
	}

	var out struct {
		Data []Post `json:"data"`
		Meta struct {
			ResultCount int `json:"result_count"`
		} `json:"meta"`
	}
	path := "/2/users/" + url.PathEscape(userID) + "/tweets?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, c.bearerToken, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch posts for %s: %w", userID, err)
	}
	return out.Data, nil
}

func (c *Client) CreatePost(ctx context.Context, text string) (Post, error) {
	if c == nil || c.http == nil {
		return Post{}, fmt.Errorf("twitter client is not initialized")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Post{}, fmt.Errorf("text is required")
	}

	token := c.accessToken
	if token == "" {
		token = c.bearerToken
	}
	payload := map[string]string{"text": text}
	var out struct {
		Data Post `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/2/tweets", token, payload, &out); err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return out.Data, nil
}

type apiError struct {
	Title   string `json:"title,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Detail, e.Message, e.Title} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("twitter token is required")
	}

	const maxAttempts = 3
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var body io.Reader
		if payload != nil {
			raw, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("marshal twitter payload: %w", err)
			}
			body = bytes.NewReader(raw)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		status := 0
		headers := http.Header{}
		if err != nil {
			lastErr = err
		} else {
			status = resp.StatusCode
			headers = resp.Header
			respRaw, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
			} else if status >= 200 && status < 300 {
				if out == nil {
					return nil
				}
				if err := json.Unmarshal(respRaw, out); err != nil {
					return fmt.Errorf("decode twitter response: %w", err)
				}
				return nil
			} else {
				lastErr = fmt.Errorf("twitter %s %s http %d%s", method, path, status, apiErrorSuffix(respRaw))
			}
		}

		if attempt >= maxAttempts {
			break
		}
		if status == 0 {
			status = http.StatusBadGateway
		}
		wait, retryable := retryDelay(status, headers, attempt)
		if !retryable {
			break
		}
		if err := sleepWithContext(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

func apiErrorSuffix(raw []byte) string {
	var envelope struct {
		apiError
		Errors []apiError `json:"errors,omitempty"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if s := envelope.text(); s != "" {
		return ": " + s
	}
	for _, e := range envelope.Errors {
		if s := e.text(); s != "" {
			return ": " + s
		}
	}
	return ""
}

func retryDelay(status int, headers http.Header, attempt int) (time.Duration, bool) {
	switch {
	case status == http.StatusTooManyRequests:
		retryAfter := strings.TrimSpace(headers.Get("Retry-After"))
		if retryAfter == "" {
			return 1 * time.Second, true
		}
		secs, err := strconv.Atoi(retryAfter)
		if err != nil || secs <= 0 {
			return 1 * time.Second, true
		}
		return time.Duration(secs) * time.Second, true
	case status >= 500 && status <= 599:
		switch attempt {
		case 1:
			return 300 * time.Millisecond, true
		case 2:
			return 1 * time.Second, true
		default:
			return 2 * time.Second, true
		}
	default:
		return 0, false
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
