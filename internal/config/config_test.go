package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.TruncationBound != 15000 {
		t.Errorf("TruncationBound = %d, want 15000", cfg.TruncationBound)
	}
	if cfg.ContentSnippetChars != 1000 {
		t.Errorf("ContentSnippetChars = %d, want 1000", cfg.ContentSnippetChars)
	}
	if cfg.MaxRetryAttempts != 5 {
		t.Errorf("MaxRetryAttempts = %d, want 5", cfg.MaxRetryAttempts)
	}
	if cfg.BaseRetryDelay != 2*time.Second {
		t.Errorf("BaseRetryDelay = %v, want 2s", cfg.BaseRetryDelay)
	}
	if cfg.IndexName != "summaries" {
		t.Errorf("IndexName = %q, want summaries", cfg.IndexName)
	}
	if cfg.ModelID != "anthropic.claude-3-sonnet-20240229-v1:0" {
		t.Errorf("unexpected ModelID %q", cfg.ModelID)
	}
	if cfg.AnthropicVersion != "bedrock-2023-05-31" {
		t.Errorf("unexpected AnthropicVersion %q", cfg.AnthropicVersion)
	}
	if !cfg.AckFailures {
		t.Error("AckFailures should default to true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRUNCATION_BOUND", "500")
	t.Setenv("MAX_RETRY_ATTEMPTS", "3")
	t.Setenv("BASE_RETRY_DELAY", "250ms")
	t.Setenv("OPENSEARCH_HOST", "search.example.com")
	t.Setenv("ACK_FAILURES", "false")

	cfg := Load()
	if cfg.TruncationBound != 500 {
		t.Errorf("TruncationBound = %d, want 500", cfg.TruncationBound)
	}
	if cfg.MaxRetryAttempts != 3 {
		t.Errorf("MaxRetryAttempts = %d, want 3", cfg.MaxRetryAttempts)
	}
	if cfg.BaseRetryDelay != 250*time.Millisecond {
		t.Errorf("BaseRetryDelay = %v, want 250ms", cfg.BaseRetryDelay)
	}
	if cfg.SearchHost != "search.example.com" {
		t.Errorf("SearchHost = %q", cfg.SearchHost)
	}
	if cfg.AckFailures {
		t.Error("AckFailures should be overridable to false")
	}
}

func TestLoad_MalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("TRUNCATION_BOUND", "not-a-number")
	t.Setenv("ACK_FAILURES", "maybe")

	cfg := Load()
	if cfg.TruncationBound != 15000 {
		t.Errorf("TruncationBound = %d, want default 15000", cfg.TruncationBound)
	}
	if !cfg.AckFailures {
		t.Error("AckFailures should fall back to true")
	}
}
