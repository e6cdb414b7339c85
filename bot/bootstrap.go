package bot

import "context"

// Bootstrap resolves each configured handle to an account ID and seeds the
// watermark from the account's most recent post. A failure on one handle
// never aborts the others; both mappings are persisted once at the end even
// when some handles were skipped.
func (b *Bot) Bootstrap(ctx context.Context) error {
	for _, handle := range b.cfg.Handles {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.bootstrapHandle(ctx, handle)
	}
	b.state.Save(b.paths, b.logger)
	return nil
}

func (b *Bot) bootstrapHandle(ctx context.Context, handle string) {
	user, err := b.platform.LookupUser(ctx, handle)
	if err != nil {
		b.logger.Warn("bootstrap_lookup_failed", "handle", handle, "error", err.Error())
		return
	}
	b.state.AccountIDs[handle] = user.ID

	// Brief pause between the lookup and the timeline fetch to stay under
	// the rate limit.
	if err := b.sleep(ctx, b.cfg.LookupDelay); err != nil {
		return
	}

	posts, err := b.platform.UserPosts(ctx, user.ID, "", b.cfg.PageSize)
	if err != nil {
		b.logger.Warn("bootstrap_fetch_failed", "handle", handle, "error", err.Error())
		return
	}
	if len(posts) == 0 {
		b.logger.Warn("bootstrap_no_posts", "handle", handle)
		return
	}
	b.state.Advance(handle, posts[0].ID)
	b.logger.Info("bootstrap_seeded", "handle", handle, "account_id", user.ID, "last_seen", posts[0].ID)
}
