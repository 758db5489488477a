package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPrepare_ShortInputUnchanged(t *testing.T) {
	if got := Prepare("Hello world", 15000); got != "Hello world" {
		t.Errorf("expected input unchanged, got %q", got)
	}
}

func TestPrepare_ExactBoundUnchanged(t *testing.T) {
	in := strings.Repeat("a", 15000)
	if got := Prepare(in, 15000); got != in {
		t.Error("input at the bound should pass through unchanged")
	}
}

func TestPrepare_LongInputTruncatedToBound(t *testing.T) {
	in := strings.Repeat("x", 20000)
	got := Prepare(in, 15000)
	if len(got) != 15000 {
		t.Errorf("expected 15000 chars, got %d", len(got))
	}
	if got != in[:15000] {
		t.Error("truncation should keep the leading content")
	}
}

func TestPrepare_EmptyInputStaysEmpty(t *testing.T) {
	if got := Prepare("", 15000); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestPrepare_MultibyteSafe(t *testing.T) {
	in := strings.Repeat("é", 10)
	got := Prepare(in, 5)
	if !utf8.ValidString(got) {
		t.Fatal("truncation produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != 5 {
		t.Errorf("expected 5 characters, got %d", n)
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("Hello world", 1000); got != "Hello world" {
		t.Errorf("short text should pass through, got %q", got)
	}
	in := strings.Repeat("y", 1500)
	if got := Snippet(in, 1000); len(got) != 1000 {
		t.Errorf("expected 1000 chars, got %d", len(got))
	}
}
