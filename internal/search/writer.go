// Package search persists summary documents to an OpenSearch index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	requestsigner "github.com/opensearch-project/opensearch-go/v2/signer/awsv2"
	"github.com/rs/zerolog/log"
)

var (
	// ErrIndexUnavailable covers connectivity and auth failures talking to
	// the search service.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrIndexWriteFailed covers writes the service accepted on the wire
	// but rejected.
	ErrIndexWriteFailed = errors.New("search index rejected write")
)

// Document is the unit persisted per processed object. Each invocation
// appends a new document; there is no dedup key, so reprocessing the same
// object adds another entry.
type Document struct {
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// Writer ensures the target index exists and appends documents to it.
type Writer struct {
	client *opensearch.Client
	index  string
}

func NewWriter(client *opensearch.Client, index string) *Writer {
	return &Writer{client: client, index: index}
}

// Index returns the index name this writer targets.
func (w *Writer) Index() string {
	return w.index
}

// NewServerlessClient builds an OpenSearch client for a Serverless
// collection endpoint, signing every request with SigV4 for service "aoss".
func NewServerlessClient(cfg aws.Config, host string) (*opensearch.Client, error) {
	signer, err := requestsigner.NewSignerWithService(cfg, "aoss")
	if err != nil {
		return nil, fmt.Errorf("create request signer: %w", err)
	}
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{"https://" + host},
		Signer:    signer,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return client, nil
}

// EnsureIndex creates the target index if it does not exist yet. A create
// that loses the race against a concurrent invocation reports
// resource_already_exists_exception, which counts as success.
func (w *Writer) EnsureIndex(ctx context.Context) error {
	res, err := opensearchapi.IndicesExistsRequest{Index: []string{w.index}}.Do(ctx, w.client)
	if err != nil {
		return fmt.Errorf("%w: exists check: %v", ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		// fall through to create
	default:
		return fmt.Errorf("%w: exists check returned %s", ErrIndexUnavailable, res.Status())
	}

	created, err := opensearchapi.IndicesCreateRequest{Index: w.index}.Do(ctx, w.client)
	if err != nil {
		return fmt.Errorf("%w: create: %v", ErrIndexUnavailable, err)
	}
	defer created.Body.Close()

	if created.IsError() {
		body := readBody(created)
		if strings.Contains(body, "resource_already_exists_exception") {
			log.Debug().Str("index", w.index).Msg("Index created concurrently by another invocation")
			return nil
		}
		return fmt.Errorf("%w: create returned %s: %s", ErrIndexUnavailable, created.Status(), body)
	}

	log.Info().Str("index", w.index).Msg("Created search index")
	return nil
}

// Write appends one document to the index.
func (w *Writer) Write(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := opensearchapi.IndexRequest{Index: w.index, Body: bytes.NewReader(body)}.Do(ctx, w.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s: %s", ErrIndexWriteFailed, res.Status(), readBody(res))
	}

	log.Debug().Str("index", w.index).Str("filename", doc.Filename).Msg("Document indexed")
	return nil
}

func readBody(res *opensearchapi.Response) string {
	b, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
