package workspace

import (
	"strings"
	"testing"
)

func TestSession_FullReplaceCreatesDocument(t *testing.T) {
	s := NewSession(nil)
	records := s.Feed("index.html\n```html\n<h1>Hi</h1>\n```\n")
	if len(records) != 1 {
		t.Fatalf("records = %v", records)
	}
	r := records[0]
	if !r.Success || r.Path != "index.html" || r.Kind != "replace" {
		t.Fatalf("record = %+v", r)
	}
	if got, _ := s.Workspace().Get("index.html"); got != "<h1>Hi</h1>" {
		t.Fatalf("document = %q", got)
	}
}

func TestSession_PatchUpdatesDocument(t *testing.T) {
	s := NewSession(FromFiles(map[string]string{"index.html": "<h1>Hi</h1>"}))
	records := s.Feed("index.html\n```html\n<<<<<<< SEARCH\n<h1>Hi</h1>\n=======\n<h1>Bye</h1>\n>>>>>>> REPLACE\n```\n")
	if len(records) != 1 {
		t.Fatalf("records = %v", records)
	}
	r := records[0]
	if !r.Success || r.Kind != "patch" || r.Pairs != 1 {
		t.Fatalf("record = %+v", r)
	}
	if len(r.Strategies) != 1 || r.Strategies[0] != "exact" {
		t.Fatalf("strategies = %v", r.Strategies)
	}
	if got, _ := s.Workspace().Get("index.html"); got != "<h1>Bye</h1>" {
		t.Fatalf("document = %q", got)
	}
}

func TestSession_BlockAppliedExactlyOnce(t *testing.T) {
	s := NewSession(nil)
	if records := s.Feed("a.txt\n```\nfirst\n```\n"); len(records) != 1 {
		t.Fatalf("records = %v", records)
	}
	// More prose after the block must not re-apply it.
	if records := s.Feed("\nthat is all.\n"); len(records) != 0 {
		t.Fatalf("records = %v", records)
	}
	if len(s.Records()) != 1 {
		t.Fatalf("total records = %v", s.Records())
	}
}

func TestSession_IncompleteBlockWaitsForCompletion(t *testing.T) {
	s := NewSession(FromFiles(map[string]string{"index.html": "<h1>Hi</h1>"}))
	records := s.Feed("index.html\n```html\n<<<<<<< SEARCH\n<h1>Hi</h1>\n=======\n<h1>B")
	if len(records) != 0 {
		t.Fatalf("records = %v", records)
	}
	if pending := s.Pending(); len(pending) != 1 || pending[0].Path != "index.html" {
		t.Fatalf("pending = %v", pending)
	}
	records = s.Feed("ye</h1>\n>>>>>>> REPLACE\n```\n")
	if len(records) != 1 || !records[0].Success {
		t.Fatalf("records = %v", records)
	}
	if pending := s.Pending(); len(pending) != 0 {
		t.Fatalf("pending = %v", pending)
	}
	if got, _ := s.Workspace().Get("index.html"); got != "<h1>Bye</h1>" {
		t.Fatalf("document = %q", got)
	}
}

func TestSession_FenceClosedAtChunkBoundary_LineGrows(t *testing.T) {
	// The chunk ends exactly on the closing fence. Until a newline confirms
	// it, the fence line may still grow into ordinary body text.
	s := NewSession(nil)
	if records := s.Feed("a.txt\n```\nhello\n```"); len(records) != 0 {
		t.Fatalf("records = %v", records)
	}
	if records := s.Feed("x"); len(records) != 0 {
		t.Fatalf("records = %v", records)
	}
	if pending := s.Pending(); len(pending) != 1 || pending[0].Path != "a.txt" {
		t.Fatalf("pending = %v", pending)
	}
	records := s.Feed("\n```\n")
	if len(records) != 1 || !records[0].Success {
		t.Fatalf("records = %v", records)
	}
	if got, _ := s.Workspace().Get("a.txt"); got != "hello\n```x" {
		t.Fatalf("document = %q", got)
	}
	if len(s.Records()) != 1 {
		t.Fatalf("total records = %v", s.Records())
	}
}

func TestSession_FenceClosedAtChunkBoundary_NewlineConfirms(t *testing.T) {
	s := NewSession(nil)
	if records := s.Feed("a.txt\n```\nhello\n```"); len(records) != 0 {
		t.Fatalf("records = %v", records)
	}
	records := s.Feed("\n")
	if len(records) != 1 || !records[0].Success {
		t.Fatalf("records = %v", records)
	}
	if got, _ := s.Workspace().Get("a.txt"); got != "hello" {
		t.Fatalf("document = %q", got)
	}
	if len(s.Records()) != 1 {
		t.Fatalf("total records = %v", s.Records())
	}
}

func TestSession_FinishAppliesFinalLine(t *testing.T) {
	s := NewSession(nil)
	if records := s.Feed("a.txt\n```\nhello\n```"); len(records) != 0 {
		t.Fatalf("records = %v", records)
	}
	records := s.Finish()
	if len(records) != 1 || !records[0].Success {
		t.Fatalf("records = %v", records)
	}
	if got, _ := s.Workspace().Get("a.txt"); got != "hello" {
		t.Fatalf("document = %q", got)
	}
	if records := s.Finish(); len(records) != 0 {
		t.Fatalf("second finish records = %v", records)
	}
}

func TestSession_PatchMissingDocumentFails(t *testing.T) {
	s := NewSession(nil)
	records := s.Feed("nope.css\n```css\n<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n```\n")
	if len(records) != 1 {
		t.Fatalf("records = %v", records)
	}
	r := records[0]
	if r.Success {
		t.Fatal("expected failure")
	}
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "no such document") {
		t.Fatalf("errors = %v", r.Errors)
	}
}

func TestSession_FailedPatchLeavesDocument(t *testing.T) {
	s := NewSession(FromFiles(map[string]string{"a.txt": "hello"}))
	records := s.Feed("a.txt\n```\n<<<<<<< SEARCH\nabsent\n=======\nx\n>>>>>>> REPLACE\n```\n")
	if records[0].Success {
		t.Fatal("expected failure")
	}
	if len(records[0].Errors) != 1 || !strings.Contains(records[0].Errors[0], "not found") {
		t.Fatalf("errors = %v", records[0].Errors)
	}
	if got, _ := s.Workspace().Get("a.txt"); got != "hello" {
		t.Fatalf("document = %q", got)
	}
}

func TestSession_BlocksApplyInOrder(t *testing.T) {
	// A patch block can target a document created by an earlier block in
	// the same chunk.
	s := NewSession(nil)
	input := "app.css\n```css\ncolor: red;\n```\n" +
		"app.css\n```css\n<<<<<<< SEARCH\nred\n=======\nblue\n>>>>>>> REPLACE\n```\n"
	records := s.Feed(input)
	if len(records) != 2 {
		t.Fatalf("records = %v", records)
	}
	if !records[0].Success || !records[1].Success {
		t.Fatalf("records = %+v", records)
	}
	if got, _ := s.Workspace().Get("app.css"); got != "color: blue;" {
		t.Fatalf("document = %q", got)
	}
}

func TestSession_IDsAreUnique(t *testing.T) {
	a, b := NewSession(nil), NewSession(nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids = %q, %q", a.ID, b.ID)
	}
}
