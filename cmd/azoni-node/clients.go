package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/azoni/azoni-node/bot"
	"github.com/azoni/azoni-node/internal/statepaths"
	"github.com/azoni/azoni-node/llm"
	uniaiProvider "github.com/azoni/azoni-node/providers/uniai"
	"github.com/azoni/azoni-node/twitter"
	"github.com/spf13/viper"
)

func botFromViper(logger *slog.Logger) (*bot.Bot, error) {
	bearerToken := strings.TrimSpace(viper.GetString("twitter.bearer_token"))
	if bearerToken == "" {
		return nil, fmt.Errorf("missing twitter.bearer_token (set via config or %s_TWITTER_BEARER_TOKEN)", envPrefix)
	}
	platform := twitter.New(
		nil,
		viper.GetString("twitter.endpoint"),
		bearerToken,
		viper.GetString("twitter.access_token"),
	)

	client, err := llmClientFromViper()
	if err != nil {
		return nil, err
	}

	paths := bot.StatePaths{
		LastSeen:   statepaths.LastSeenPath(),
		AccountIDs: statepaths.AccountIDsPath(),
	}
	state := bot.LoadState(paths, logger)

	return bot.New(bot.Options{
		Platform: platform,
		LLM:      client,
		State:    state,
		Paths:    paths,
		Logger:   logger,
		Config: bot.Config{
			Handles:      viper.GetStringSlice("accounts"),
			PageSize:     viper.GetInt("twitter.page_size"),
			Model:        viper.GetString("llm.model"),
			SystemPrompt: viper.GetString("llm.system_prompt"),
			Temperature:  viper.GetFloat64("llm.temperature"),
			PublishDelay: viper.GetDuration("poll.publish_delay"),
			LookupDelay:  viper.GetDuration("bootstrap.lookup_delay"),
		},
	})
}

func llmClientFromViper() (llm.Client, error) {
	provider := strings.ToLower(strings.TrimSpace(viper.GetString("llm.provider")))
	switch provider {
	case "openai", "openai_custom", "deepseek", "xai", "gemini", "anthropic":
		c := uniaiProvider.New(uniaiProvider.Config{
			Provider:       provider,
			Endpoint:       strings.TrimSpace(viper.GetString("llm.endpoint")),
			APIKey:         strings.TrimSpace(viper.GetString("llm.api_key")),
			Model:          strings.TrimSpace(viper.GetString("llm.model")),
			RequestTimeout: viper.GetDuration("llm.request_timeout"),
			Debug:          viper.GetBool("trace"),
		})
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
