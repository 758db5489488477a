// Package config resolves the Lambda's settings from environment variables,
// with defaults matching the deployed pipeline.
package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds every tunable of the summarize pipeline. All values have
// working defaults except SearchHost, which must be supplied by the
// deployment environment.
type Settings struct {
	// Content handling
	TruncationBound     int
	ContentSnippetChars int

	// Summarization
	ModelID          string
	AnthropicVersion string
	MaxSummaryTokens int

	// Retry on throttling
	MaxRetryAttempts int
	BaseRetryDelay   time.Duration

	// Search index
	SearchHost string
	IndexName  string

	// Delivery policy: when true, every outcome (including failures) is
	// acknowledged so the trigger source never redelivers. When false,
	// failures are returned to the runtime and S3 may redeliver the event.
	AckFailures bool
}

func Load() Settings {
	return Settings{
		TruncationBound:     envInt("TRUNCATION_BOUND", 15000),
		ContentSnippetChars: envInt("CONTENT_SNIPPET_CHARS", 1000),

		ModelID:          envOr("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),
		AnthropicVersion: envOr("ANTHROPIC_VERSION", "bedrock-2023-05-31"),
		MaxSummaryTokens: envInt("MAX_SUMMARY_TOKENS", 1000),

		MaxRetryAttempts: envInt("MAX_RETRY_ATTEMPTS", 5),
		BaseRetryDelay:   envDuration("BASE_RETRY_DELAY", 2*time.Second),

		SearchHost: os.Getenv("OPENSEARCH_HOST"),
		IndexName:  envOr("INDEX_NAME", "summaries"),

		AckFailures: envBool("ACK_FAILURES", true),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
