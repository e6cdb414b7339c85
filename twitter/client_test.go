package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/by/username/azoni" {
			t.Errorf("path mismatch: got %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer read-token" {
			t.Errorf("authorization mismatch: got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "12345", "username": "azoni"},
		})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "read-token", "")
	user, err := c.LookupUser(context.Background(), "@azoni")
	if err != nil {
		t.Fatalf("LookupUser() error = %v", err)
	}
	if user.ID != "12345" {
		t.Fatalf("user id mismatch: got %q want %q", user.ID, "12345")
	}
}

func TestUserPostsQueryParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/12345/tweets" {
			t.Errorf("path mismatch: got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("max_results"); got != "5" {
			t.Errorf("max_results mismatch: got %q want %q", got, "5")
		}
		if got := q.Get("since_id"); got != "900" {
			t.Errorf("since_id mismatch: got %q want %q", got, "900")
		}
		if got := q.Get("tweet.fields"); got != "created_at,in_reply_to_user_id" {
			t.Errorf("tweet.fields mismatch: got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"id": "903", "text": "three"},
				{"id": "902", "text": "two", "in_reply_to_user_id": "777"},
				{"id": "901", "text": "one"},
			},
			"meta": map[string]int{"result_count": 3},
		})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "read-token", "")
	posts, err := c.UserPosts(context.Background(), "12345", "900", 3)
	if err != nil {
		t.Fatalf("UserPosts() error = %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("posts len mismatch: got %d want 3", len(posts))
	}
	if posts[0].ID != "903" {
		t.Fatalf("first post mismatch: got %q want %q", posts[0].ID, "903")
	}
	if !posts[1].IsReply() {
		t.Fatalf("IsReply() = false for post with in_reply_to_user_id")
	}
	if posts[2].IsReply() {
		t.Fatalf("IsReply() = true for original post")
	}
}

func TestUserPostsOmitsSinceIDWhenEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, present := r.URL.Query()["since_id"]; present {
			t.Errorf("since_id present, want omitted")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{}})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "read-token", "")
	if _, err := c.UserPosts(context.Background(), "12345", "", 5); err != nil {
		t.Fatalf("UserPosts() error = %v", err)
	}
}

func TestCreatePostUsesAccessToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/2/tweets" {
			t.Errorf("request mismatch: got %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer write-token" {
			t.Errorf("authorization mismatch: got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["text"] != "hello world" {
			t.Errorf("text mismatch: got %q", body["text"])
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "555", "text": body["text"]},
		})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "read-token", "write-token")
	post, err := c.CreatePost(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if post.ID != "555" {
		t.Fatalf("post id mismatch: got %q want %q", post.ID, "555")
	}
}

func TestDoJSONRetriesOnRateLimit(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"title": "Too Many Requests"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "12345", "username": "azoni"},
		})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "read-token", "")
	user, err := c.LookupUser(context.Background(), "azoni")
	if err != nil {
		t.Fatalf("LookupUser() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls mismatch: got %d want 2", calls)
	}
	if user.ID != "12345" {
		t.Fatalf("user id mismatch: got %q", user.ID)
	}
}

func TestDoJSONDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "Not Found", "detail": "no such user"})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "read-token", "")
	_, err := c.LookupUser(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("LookupUser() expected error")
	}
	if calls != 1 {
		t.Fatalf("calls mismatch: got %d want 1", calls)
	}
}

func TestPostURL(t *testing.T) {
	t.Parallel()

	got := PostURL("@azoni", "903")
	want := "https://x.com/azoni/status/903"
	if got != want {
		t.Fatalf("PostURL() = %q, want %q", got, want)
	}
}
