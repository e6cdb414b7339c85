package bot

import (
	"context"
	"strings"

	"github.com/azoni/azoni-node/llm"
	"github.com/azoni/azoni-node/twitter"
)

// Poll runs one cycle over all configured handles: fetch posts newer than the
// watermark, drop replies, generate commentary for each original post in
// oldest-first order, and publish a reply. Per-handle failures are logged and
// isolated; the watermark map is persisted once after all handles.
func (b *Bot) Poll(ctx context.Context) error {
	for _, handle := range b.cfg.Handles {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.pollHandle(ctx, handle); err != nil {
			if ctx.Err() != nil {
				return err
			}
			b.logger.Warn("poll_handle_failed", "handle", handle, "error", err.Error())
		}
	}
	b.state.Save(b.paths, b.logger)
	return nil
}

func (b *Bot) pollHandle(ctx context.Context, handle string) error {
	userID := strings.TrimSpace(b.state.AccountIDs[handle])
	if userID == "" {
		b.logger.Warn("poll_skip_handle", "handle", handle, "reason", "unknown_account_id", "hint", "run `azoni-node init` first")
		return nil
	}

	posts, err := b.platform.UserPosts(ctx, userID, b.state.LastSeen[handle], b.cfg.PageSize)
	if err != nil {
		return err
	}

	originals := make([]twitter.Post, 0, len(posts))
	for _, post := range posts {
		if post.IsReply() {
			continue
		}
		originals = append(originals, post)
	}
	if len(originals) == 0 {
		b.logger.Debug("poll_no_new_posts", "handle", handle)
		return nil
	}

	// The watermark moves to the newest qualifying post before processing so
	// a mid-batch failure never replays the whole batch forever.
	for _, post := range originals {
		b.state.Advance(handle, post.ID)
	}

	// Fetched newest-first; process oldest-first.
	for i := len(originals) - 1; i >= 0; i-- {
		post := originals[i]
		commentary, err := b.commentary(ctx, post)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			b.logger.Warn("commentary_failed", "handle", handle, "post_id", post.ID, "error", err.Error())
			continue
		}
		if commentary == "" {
			b.logger.Warn("commentary_empty", "handle", handle, "post_id", post.ID)
			continue
		}

		reply := replyText(handle, post.ID, commentary)
		published, err := b.platform.CreatePost(ctx, reply)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			b.logger.Warn("publish_failed", "handle", handle, "post_id", post.ID, "error", err.Error())
			continue
		}
		b.logger.Info("reply_published", "handle", handle, "post_id", post.ID, "reply_id", published.ID)

		if err := b.sleep(ctx, b.cfg.PublishDelay); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) commentary(ctx context.Context, post twitter.Post) (string, error) {
	req := llm.Request{
		Model: b.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: b.cfg.SystemPrompt},
			{Role: "user", Content: commentaryPrompt(post.Text)},
		},
		Parameters: map[string]any{
			"temperature": b.cfg.Temperature,
			"max_tokens":  120,
		},
	}
	res, err := b.llm.Chat(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}

func commentaryPrompt(postText string) string {
	return "Write a short reply to this post:\n\n" + strings.TrimSpace(postText)
}

func replyText(handle, postID, commentary string) string {
	return commentary + "\n\n" + twitter.PostURL(handle, postID) + " @" + handle
}
