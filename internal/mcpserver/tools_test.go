package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stitchkit/stitch/internal/config"
	"github.com/stitchkit/stitch/internal/runner"
)

func TestApplyEdits_WritesFile(t *testing.T) {
	srv, root := testServer(t)

	response := "notes.txt\n```\nhello world\n```\n"
	_, out, err := srv.applyEdits(context.Background(), nil, applyEditsInput{Response: response})
	if err != nil {
		t.Fatalf("applyEdits failed: %v", err)
	}

	if out.Succeeded != 1 || out.Failed != 0 {
		t.Fatalf("expected 1 succeeded, 0 failed, got %d/%d", out.Succeeded, out.Failed)
	}
	if out.RunID == "" {
		t.Fatal("missing run id")
	}
	data, err := os.ReadFile(filepath.Join(root, "notes.txt"))
	if err != nil {
		t.Fatalf("target not written: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("got %q", data)
	}
}

func TestApplyEdits_DryRunWritesNothing(t *testing.T) {
	srv, root := testServer(t)

	response := "notes.txt\n```\nhello\n```\n"
	_, out, err := srv.applyEdits(context.Background(), nil, applyEditsInput{Response: response, DryRun: true})
	if err != nil {
		t.Fatalf("applyEdits failed: %v", err)
	}

	if !out.DryRun {
		t.Fatal("output should be marked dry run")
	}
	if _, err := os.Stat(filepath.Join(root, "notes.txt")); !os.IsNotExist(err) {
		t.Fatal("dry run wrote a file")
	}
}

func TestApplyEdits_ServerDryRunWins(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Root = root
	srv, err := NewServer(&Config{Runner: &runner.Runner{Config: cfg, DryRun: true}})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	response := "notes.txt\n```\nhello\n```\n"
	_, out, err := srv.applyEdits(context.Background(), nil, applyEditsInput{Response: response, DryRun: false})
	if err != nil {
		t.Fatalf("applyEdits failed: %v", err)
	}

	if !out.DryRun {
		t.Fatal("server-level dry run should force the call dry")
	}
	if _, err := os.Stat(filepath.Join(root, "notes.txt")); !os.IsNotExist(err) {
		t.Fatal("dry run wrote a file")
	}
}

func TestApplyEdits_EmptyResponse(t *testing.T) {
	srv, _ := testServer(t)

	_, _, err := srv.applyEdits(context.Background(), nil, applyEditsInput{Response: "   \n"})
	if err == nil {
		t.Fatal("expected error for empty response")
	}
	if !strings.Contains(err.Error(), "response is required") {
		t.Fatalf("got %v", err)
	}
}

func TestPatchDocument_AppliesPairs(t *testing.T) {
	srv, _ := testServer(t)

	doc := "body {\n  color: red;\n}\n"
	_, out, err := srv.patchDocument(context.Background(), nil, patchDocumentInput{
		Document: doc,
		Edits:    []editPair{{Search: "color: red;", Replace: "color: blue;"}},
	})
	if err != nil {
		t.Fatalf("patchDocument failed: %v", err)
	}

	if !out.Success {
		t.Fatalf("patch failed: %v", out.Errors)
	}
	if out.Document != "body {\n  color: blue;\n}\n" {
		t.Fatalf("got %q", out.Document)
	}
	if len(out.Strategies) != 1 || out.Strategies[0] != "exact" {
		t.Fatalf("strategies = %v", out.Strategies)
	}
}

func TestPatchDocument_FailureKeepsDocument(t *testing.T) {
	srv, _ := testServer(t)

	doc := "line one\nline two\n"
	_, out, err := srv.patchDocument(context.Background(), nil, patchDocumentInput{
		Path:     "a.txt",
		Document: doc,
		Edits:    []editPair{{Search: "absent", Replace: "x"}},
	})
	if err != nil {
		t.Fatalf("patchDocument failed: %v", err)
	}

	if out.Success {
		t.Fatal("expected failure for unmatched search")
	}
	if out.Document != doc {
		t.Fatal("failed patch should leave the document unchanged")
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "a.txt") {
		t.Fatalf("errors = %v", out.Errors)
	}
}

func TestPatchDocument_RequiresEdits(t *testing.T) {
	srv, _ := testServer(t)

	_, _, err := srv.patchDocument(context.Background(), nil, patchDocumentInput{Document: "x"})
	if err == nil {
		t.Fatal("expected error for empty edits")
	}
}

func TestParseBlocks_CountsAndKinds(t *testing.T) {
	srv, _ := testServer(t)

	text := "a.txt\n```\nnew content\n```\n\nb.txt\n```\n<<<<<<< SEARCH\nold\n=======\nnew\n>>>>>>> REPLACE\n```\n"
	_, out, err := srv.parseBlocks(context.Background(), nil, parseBlocksInput{Text: text})
	if err != nil {
		t.Fatalf("parseBlocks failed: %v", err)
	}

	if out.Count != 2 {
		t.Fatalf("expected 2 blocks, got %d", out.Count)
	}
	if out.Blocks[0]["path"] != "a.txt" || out.Blocks[0]["kind"] != "replace" {
		t.Fatalf("first block = %v", out.Blocks[0])
	}
	if out.Blocks[1]["kind"] != "patch" || out.Blocks[1]["pairs"] != 1 {
		t.Fatalf("second block = %v", out.Blocks[1])
	}
}

func TestSession_OpenFeedRead(t *testing.T) {
	srv, _ := testServer(t)
	ctx := context.Background()

	_, opened, err := srv.sessionOpen(ctx, nil, sessionOpenInput{
		Files: []sessionFile{{Path: "style.css", Content: "body {\n  color: red;\n}\n"}},
	})
	if err != nil {
		t.Fatalf("sessionOpen failed: %v", err)
	}
	id := opened.SessionID
	if id == "" {
		t.Fatal("missing session id")
	}

	// First chunk ends mid-pair; nothing applies yet.
	_, fed, err := srv.sessionFeed(ctx, nil, sessionFeedInput{
		SessionID: id,
		Chunk:     "style.css\n```\n<<<<<<< SEARCH\ncolor: red;\n=======\ncolor: blu",
	})
	if err != nil {
		t.Fatalf("sessionFeed failed: %v", err)
	}
	if len(fed.Applied) != 0 {
		t.Fatalf("incomplete block applied: %v", fed.Applied)
	}
	if len(fed.Pending) != 1 || fed.Pending[0] != "style.css" {
		t.Fatalf("pending = %v", fed.Pending)
	}

	_, fed, err = srv.sessionFeed(ctx, nil, sessionFeedInput{
		SessionID: id,
		Chunk:     "e;\n>>>>>>> REPLACE\n```\n",
	})
	if err != nil {
		t.Fatalf("sessionFeed failed: %v", err)
	}
	if len(fed.Applied) != 1 || fed.Applied[0]["success"] != true {
		t.Fatalf("applied = %v", fed.Applied)
	}
	if len(fed.Pending) != 0 {
		t.Fatalf("pending = %v", fed.Pending)
	}

	_, files, err := srv.sessionFiles(ctx, nil, sessionFilesInput{SessionID: id, Path: "style.css"})
	if err != nil {
		t.Fatalf("sessionFiles failed: %v", err)
	}
	if len(files.Files) != 1 || !strings.Contains(files.Files[0].Content, "color: blue;") {
		t.Fatalf("files = %v", files.Files)
	}
}

func TestSessionFeed_FinalFlushesLastLine(t *testing.T) {
	srv, _ := testServer(t)
	ctx := context.Background()

	_, opened, err := srv.sessionOpen(ctx, nil, sessionOpenInput{})
	if err != nil {
		t.Fatalf("sessionOpen failed: %v", err)
	}
	id := opened.SessionID

	// The text ends exactly on the closing fence with no trailing newline.
	// Without final, the block waits for confirmation.
	_, fed, err := srv.sessionFeed(ctx, nil, sessionFeedInput{
		SessionID: id,
		Chunk:     "a.txt\n```\nhi\n```",
	})
	if err != nil {
		t.Fatalf("sessionFeed failed: %v", err)
	}
	if len(fed.Applied) != 0 {
		t.Fatalf("applied = %v", fed.Applied)
	}
	if len(fed.Pending) != 1 || fed.Pending[0] != "a.txt" {
		t.Fatalf("pending = %v", fed.Pending)
	}

	_, fed, err = srv.sessionFeed(ctx, nil, sessionFeedInput{
		SessionID: id,
		Final:     true,
	})
	if err != nil {
		t.Fatalf("sessionFeed failed: %v", err)
	}
	if len(fed.Applied) != 1 || fed.Applied[0]["success"] != true {
		t.Fatalf("applied = %v", fed.Applied)
	}
	if len(fed.Pending) != 0 {
		t.Fatalf("pending = %v", fed.Pending)
	}

	_, files, err := srv.sessionFiles(ctx, nil, sessionFilesInput{SessionID: id, Path: "a.txt"})
	if err != nil {
		t.Fatalf("sessionFiles failed: %v", err)
	}
	if files.Files[0].Content != "hi" {
		t.Fatalf("content = %q", files.Files[0].Content)
	}
}

func TestSessionFeed_UnknownSession(t *testing.T) {
	srv, _ := testServer(t)

	_, _, err := srv.sessionFeed(context.Background(), nil, sessionFeedInput{SessionID: "nope", Chunk: "x"})
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !strings.Contains(err.Error(), "no such session") {
		t.Fatalf("got %v", err)
	}
}

func TestSessionFiles_MissingDocument(t *testing.T) {
	srv, _ := testServer(t)
	ctx := context.Background()

	_, opened, err := srv.sessionOpen(ctx, nil, sessionOpenInput{})
	if err != nil {
		t.Fatalf("sessionOpen failed: %v", err)
	}

	_, _, err = srv.sessionFiles(ctx, nil, sessionFilesInput{SessionID: opened.SessionID, Path: "ghost.txt"})
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	if !strings.Contains(err.Error(), "no such document") {
		t.Fatalf("got %v", err)
	}
}

func TestSessionOpen_RequiresPaths(t *testing.T) {
	srv, _ := testServer(t)

	_, _, err := srv.sessionOpen(context.Background(), nil, sessionOpenInput{
		Files: []sessionFile{{Path: "", Content: "x"}},
	})
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}
