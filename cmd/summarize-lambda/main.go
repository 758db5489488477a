// Package main provides the Lambda entry point for document summarization
// and indexing.
//
// This Lambda is triggered by S3 ObjectCreated events. For each uploaded
// object it:
//
//  1. Reads the object body and decodes it as UTF-8 text
//  2. Truncates oversized content to a safe bound
//  3. Requests a summary from Claude on Bedrock, retrying on throttling
//  4. Indexes filename, content excerpt, and summary into OpenSearch
//
// Every outcome is acknowledged as handled so S3 never redelivers the
// event; set ACK_FAILURES=false to surface failures for redelivery instead.
package main

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/fpang/doc-summary-indexer/internal/config"
	"github.com/fpang/doc-summary-indexer/internal/lambdaboot"
	"github.com/fpang/doc-summary-indexer/internal/logging"
	"github.com/fpang/doc-summary-indexer/internal/pipeline"
	"github.com/fpang/doc-summary-indexer/internal/retry"
	"github.com/fpang/doc-summary-indexer/internal/s3util"
	"github.com/fpang/doc-summary-indexer/internal/search"
	"github.com/fpang/doc-summary-indexer/internal/summarize"
)

var coldStart = true

// Initialized once at cold start and reused across invocations; every
// client involved is stateless and safe for concurrent reuse.
var (
	settings config.Settings
	pipe     *pipeline.Pipeline
)

// s3Fetcher adapts the shared S3 helper to the pipeline's fetch contract.
type s3Fetcher struct {
	client *s3.Client
}

func (f *s3Fetcher) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	return s3util.FetchBytes(ctx, f.client, bucket, key)
}

func init() {
	initStart := time.Now()
	logging.Init()
	settings = config.Load()
	if settings.SearchHost == "" {
		settings.SearchHost = lambdaboot.RequireEnv("OPENSEARCH_HOST")
	}

	cfg := lambdaboot.InitAWS()
	s3Client := lambdaboot.InitS3(cfg)
	bedrockClient := lambdaboot.InitBedrock(cfg)

	searchClient, err := search.NewServerlessClient(cfg, settings.SearchHost)
	if err != nil {
		log.Fatal().Err(err).Str("host", settings.SearchHost).Msg("Failed to create OpenSearch client")
	}

	summarizer := summarize.NewClient(
		bedrockClient,
		settings.ModelID,
		settings.AnthropicVersion,
		settings.MaxSummaryTokens,
		retry.Policy{MaxAttempts: settings.MaxRetryAttempts, BaseDelay: settings.BaseRetryDelay},
	)
	writer := search.NewWriter(searchClient, settings.IndexName)

	pipe = pipeline.New(
		&s3Fetcher{client: s3Client},
		summarizer,
		writer,
		settings.TruncationBound,
		settings.ContentSnippetChars,
	)

	lambdaboot.StartupLog("summarize-lambda", initStart).
		Config("modelId", settings.ModelID).
		Config("searchHost", settings.SearchHost).
		Config("indexName", settings.IndexName).
		Config("truncationBound", strconv.Itoa(settings.TruncationBound)).
		Config("maxRetryAttempts", strconv.Itoa(settings.MaxRetryAttempts)).
		Config("baseRetryDelay", settings.BaseRetryDelay.String()).
		Feature("ackFailures", settings.AckFailures).
		Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, s3Event events.S3Event) (pipeline.Ack, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "summarize-lambda").Msg("Cold start — first invocation")
	}
	log.Debug().Interface("event", s3Event).Msg("Received event")

	// S3 notifications normally carry one record, but the contract allows
	// batches; process each through the pipeline and acknowledge once,
	// keeping the first failing outcome for the acknowledgment detail.
	outcome := pipeline.Outcome{Detail: "Success"}
	for _, record := range s3Event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			log.Error().Err(err).Str("rawKey", record.S3.Object.Key).Msg("Failed to decode object key")
			if outcome.Err == nil {
				outcome = pipeline.Outcome{
					Detail: "Error processing file: undecodable object key",
					Err:    err,
				}
			}
			continue
		}

		log.Info().Str("bucket", bucket).Str("key", key).Msg("Processing file")
		if result := pipe.Process(ctx, bucket, key); outcome.Err == nil {
			outcome = result
		}
	}

	return pipeline.Acknowledge(outcome, settings.AckFailures)
}
