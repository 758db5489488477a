// Package summarize requests document summaries from an Anthropic model on
// Amazon Bedrock. Throttled invocations are retried with backoff; every
// other failure propagates to the caller untouched.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"github.com/fpang/doc-summary-indexer/internal/retry"
)

const promptTemplate = "Please provide a concise summary of the following document:\n\n"

// ErrMalformedResponse indicates the model call succeeded but the response
// carried no text content block.
var ErrMalformedResponse = errors.New("model response missing text content")

// ModelInvoker is the subset of *bedrockruntime.Client the summarizer needs.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client issues one summarization request per document.
type Client struct {
	invoker          ModelInvoker
	modelID          string
	anthropicVersion string
	maxTokens        int
	policy           retry.Policy
}

func NewClient(invoker ModelInvoker, modelID, anthropicVersion string, maxTokens int, policy retry.Policy) *Client {
	return &Client{
		invoker:          invoker,
		modelID:          modelID,
		anthropicVersion: anthropicVersion,
		maxTokens:        maxTokens,
		policy:           policy,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Summarize sends prepared document text to the model and returns the text
// of the first content block. The InvokeModel call runs under the retry
// policy with IsThrottle as the classifier.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: c.anthropicVersion,
		MaxTokens:        c.maxTokens,
		Messages: []message{
			{Role: "user", Content: promptTemplate + text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	out, err := retry.Do(ctx, c.policy, IsThrottle, func(ctx context.Context) (*bedrockruntime.InvokeModelOutput, error) {
		return c.invoker.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(c.modelID),
			ContentType: aws.String("application/json"),
			Body:        body,
		})
	})
	if err != nil {
		return "", fmt.Errorf("InvokeModel: %w", err)
	}

	var resp claudeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", ErrMalformedResponse
	}

	summary := resp.Content[0].Text
	log.Debug().Str("modelId", c.modelID).Int("summaryChars", len(summary)).Msg("Summary generated")
	return summary, nil
}

// IsThrottle reports whether err is a Bedrock rate-limit rejection. Auth,
// validation, and transport failures are all non-retryable.
func IsThrottle(err error) bool {
	var throttled *types.ThrottlingException
	if errors.As(err, &throttled) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException", "Throttling":
			return true
		}
	}
	return false
}
