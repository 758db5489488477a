// Package pipeline drives one S3 object through fetch, prepare, summarize,
// and index stages, and maps every terminal outcome onto a single
// acknowledgment shape.
package pipeline

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/fpang/doc-summary-indexer/internal/content"
	"github.com/fpang/doc-summary-indexer/internal/metrics"
	"github.com/fpang/doc-summary-indexer/internal/search"
)

const metricsNamespace = "DocSummaryIndexer"

// ObjectFetcher reads the raw bytes of the triggering object.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// Summarizer produces a summary for prepared document text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// IndexWriter ensures the target index exists and appends documents to it.
type IndexWriter interface {
	EnsureIndex(ctx context.Context) error
	Write(ctx context.Context, doc search.Document) error
}

// Stage names, used in logs and metrics only.
const (
	stageFetching    = "fetching"
	stagePreparing   = "preparing"
	stageSummarizing = "summarizing"
	stageIndexing    = "indexing"
)

// Outcome is the informational result of processing one object. Err is kept
// for logging and the delivery policy; Detail is what the acknowledgment
// carries regardless of success or failure.
type Outcome struct {
	Detail string
	Err    error
}

// Ack is the fixed-shape acknowledgment returned to the trigger source.
// DeliveryStatus is always "handled"; the distinguishing detail lives only
// in the informational Detail field.
type Ack struct {
	DeliveryStatus string `json:"deliveryStatus"`
	Detail         string `json:"detail"`
}

// Acknowledge converts an outcome into the delivery-control decision. With
// ackFailures set, every outcome — success, empty input, or failure — is
// acknowledged identically so the trigger source never redelivers (a
// redelivery would just reproduce the failure against an already-strained
// model). With ackFailures unset, failures are surfaced for redelivery.
func Acknowledge(o Outcome, ackFailures bool) (Ack, error) {
	if o.Err != nil && !ackFailures {
		return Ack{}, o.Err
	}
	return Ack{DeliveryStatus: "handled", Detail: o.Detail}, nil
}

// Pipeline sequences the stages for one triggering event. It holds no
// per-invocation state; the same Pipeline serves every invocation of the
// process.
type Pipeline struct {
	fetcher    ObjectFetcher
	summarizer Summarizer
	writer     IndexWriter

	truncationBound int
	snippetChars    int
}

func New(fetcher ObjectFetcher, summarizer Summarizer, writer IndexWriter, truncationBound, snippetChars int) *Pipeline {
	return &Pipeline{
		fetcher:         fetcher,
		summarizer:      summarizer,
		writer:          writer,
		truncationBound: truncationBound,
		snippetChars:    snippetChars,
	}
}

// Process runs the full stage sequence for one object. Empty prepared
// content short-circuits straight to done: an empty file is a valid input
// with nothing to summarize, not an error.
func (p *Pipeline) Process(ctx context.Context, bucket, key string) Outcome {
	start := time.Now()

	raw, err := p.fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return p.fail(stageFetching, key, err)
	}

	if !utf8.Valid(raw) {
		return p.fail(stagePreparing, key, fmt.Errorf("object is not valid UTF-8 text"))
	}
	prepared := content.Prepare(string(raw), p.truncationBound)
	if prepared == "" {
		log.Info().Str("key", key).Msg("File is empty")
		return Outcome{Detail: "File is empty"}
	}

	summary, err := p.summarizer.Summarize(ctx, prepared)
	if err != nil {
		return p.fail(stageSummarizing, key, err)
	}

	if err := p.writer.EnsureIndex(ctx); err != nil {
		return p.fail(stageIndexing, key, err)
	}
	doc := search.Document{
		Filename:  key,
		Content:   content.Snippet(prepared, p.snippetChars),
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}
	if err := p.writer.Write(ctx, doc); err != nil {
		return p.fail(stageIndexing, key, err)
	}

	processingMs := time.Since(start).Milliseconds()
	log.Info().
		Str("key", key).
		Int("contentChars", len(prepared)).
		Int64("processingMs", processingMs).
		Msg("Document summarized and indexed")

	metrics.New(metricsNamespace).
		Dimension("Operation", "summarize").
		Metric("PipelineMs", float64(processingMs), metrics.UnitMilliseconds).
		Count("DocumentsIndexed").
		Property("filename", key).
		Flush()

	return Outcome{Detail: "Success"}
}

func (p *Pipeline) fail(stage, key string, err error) Outcome {
	log.Error().Err(err).Str("stage", stage).Str("key", key).Msg("Pipeline stage failed")

	metrics.New(metricsNamespace).
		Dimension("Operation", "summarize").
		Dimension("Stage", stage).
		Count("PipelineFailures").
		Property("filename", key).
		Flush()

	return Outcome{
		Detail: fmt.Sprintf("Error processing file: %v", err),
		Err:    err,
	}
}
