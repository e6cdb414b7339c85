package main

import (
	"time"

	"github.com/spf13/viper"
)

const defaultSystemPrompt = "You are a thoughtful social media commentator. " +
	"Given a post, write one short, specific reply under 200 characters. " +
	"React to the content of the post. No hashtags, no quotation marks."

func initViperDefaults() {
	// LLM
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.endpoint", "https://api.openai.com")
	viper.SetDefault("llm.model", "gpt-5.2")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.request_timeout", 90*time.Second)
	viper.SetDefault("llm.system_prompt", defaultSystemPrompt)
	viper.SetDefault("llm.temperature", 0.8)

	// Platform
	viper.SetDefault("twitter.endpoint", "https://api.x.com")
	viper.SetDefault("twitter.bearer_token", "")
	viper.SetDefault("twitter.access_token", "")
	viper.SetDefault("twitter.page_size", 5)

	// Accounts to track
	viper.SetDefault("accounts", []string{})

	// Pacing
	viper.SetDefault("poll.interval", time.Minute)
	viper.SetDefault("poll.publish_delay", 5*time.Second)
	viper.SetDefault("bootstrap.lookup_delay", 2*time.Second)

	// Global
	viper.SetDefault("file_state_dir", "~/.azoni")
}
