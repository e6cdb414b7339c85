package twitter

import "strings"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	CreatedAt       string `json:"created_at,omitempty"`
	InReplyToUserID string `json:"in_reply_to_user_id,omitempty"`
}

// IsReply reports whether the post targets another user. The v2 API omits
// in_reply_to_user_id entirely for original posts.
func (p Post) IsReply() bool {
	return strings.TrimSpace(p.InReplyToUserID) != ""
}

// PostURL is the canonical public link for a post by the given handle.
func PostURL(handle, postID string) string {
	return "https://x.com/" + strings.TrimPrefix(strings.TrimSpace(handle), "@") + "/status/" + strings.TrimSpace(postID)
}
