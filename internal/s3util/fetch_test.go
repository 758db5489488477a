package s3util

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = *params.Bucket
	f.key = *params.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestFetchBytes(t *testing.T) {
	g := &fakeGetter{body: "Hello world"}
	data, err := FetchBytes(context.Background(), g, "docs-bucket", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "Hello world" {
		t.Errorf("expected object body, got %q", data)
	}
	if g.bucket != "docs-bucket" || g.key != "notes.txt" {
		t.Errorf("wrong object requested: %s/%s", g.bucket, g.key)
	}
}

func TestFetchBytes_GetObjectError(t *testing.T) {
	g := &fakeGetter{err: errors.New("NoSuchKey")}
	if _, err := FetchBytes(context.Background(), g, "docs-bucket", "missing.txt"); err == nil {
		t.Fatal("expected error")
	}
}
