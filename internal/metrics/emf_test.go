package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func captureFlush(t *testing.T, rec *Recorder) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	rec.Flush()
	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestFlush_EmitsEMFDocument(t *testing.T) {
	rec := New("DocSummaryIndexer")
	rec.Dimension("Operation", "summarize")
	rec.Metric("PipelineMs", 421.5, UnitMilliseconds)
	rec.Count("DocumentsIndexed")
	rec.Property("filename", "notes.txt")

	out := captureFlush(t, rec)

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("EMF output is not valid JSON: %v\n%s", err, out)
	}

	awsDir, ok := doc["_aws"].(map[string]any)
	if !ok {
		t.Fatal("missing _aws directive")
	}
	cw, ok := awsDir["CloudWatchMetrics"].([]any)
	if !ok || len(cw) == 0 {
		t.Fatal("CloudWatchMetrics should be a non-empty array")
	}
	if ns := cw[0].(map[string]any)["Namespace"]; ns != "DocSummaryIndexer" {
		t.Errorf("Namespace = %v", ns)
	}

	if doc["Operation"] != "summarize" {
		t.Errorf("dimension value missing, got %v", doc["Operation"])
	}
	if doc["PipelineMs"] != 421.5 {
		t.Errorf("PipelineMs = %v", doc["PipelineMs"])
	}
	if doc["DocumentsIndexed"] != float64(1) {
		t.Errorf("DocumentsIndexed = %v", doc["DocumentsIndexed"])
	}
	if doc["filename"] != "notes.txt" {
		t.Errorf("property missing, got %v", doc["filename"])
	}
}

func TestFlush_NoMetricsNoOutput(t *testing.T) {
	rec := New("DocSummaryIndexer").Property("filename", "notes.txt")
	if out := captureFlush(t, rec); out != "" {
		t.Errorf("expected no output without metrics, got %q", out)
	}
}
