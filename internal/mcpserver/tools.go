package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/stitchkit/stitch/internal/editblock"
	"github.com/stitchkit/stitch/internal/patch"
	"github.com/stitchkit/stitch/internal/workspace"
)

// ===== APPLY TOOLS =====

type applyEditsInput struct {
	Response string `json:"response" jsonschema:"required,Model response text containing edit blocks"`
	DryRun   bool   `json:"dry_run,omitempty" jsonschema:"Match blocks without writing files"`
}

type applyEditsOutput struct {
	RunID     string                   `json:"run_id" jsonschema:"Run identifier"`
	DryRun    bool                     `json:"dry_run" jsonschema:"True when no files were written"`
	Succeeded int                      `json:"succeeded" jsonschema:"Count of applied blocks"`
	Failed    int                      `json:"failed" jsonschema:"Count of failed blocks"`
	Pending   []string                 `json:"pending,omitempty" jsonschema:"Paths of blocks that never completed"`
	Files     []map[string]interface{} `json:"files" jsonschema:"Per-file results"`
}

func (s *Server) applyEdits(ctx context.Context, req *mcp.CallToolRequest, args applyEditsInput) (*mcp.CallToolResult, applyEditsOutput, error) {
	if strings.TrimSpace(args.Response) == "" {
		return nil, applyEditsOutput{}, fmt.Errorf("response is required")
	}

	// Copy so a per-call dry_run does not leak into later calls. The
	// server-level dry run always wins.
	run := *s.run
	run.DryRun = run.DryRun || args.DryRun

	rep, err := run.Run(ctx, args.Response, "mcp")
	if err != nil {
		return nil, applyEditsOutput{}, fmt.Errorf("apply failed: %w", err)
	}

	files := make([]map[string]interface{}, 0, len(rep.Files))
	for _, f := range rep.Files {
		entry := map[string]interface{}{
			"path":    f.Path,
			"kind":    f.Kind,
			"success": f.Success,
		}
		if len(f.Strategies) > 0 {
			entry["strategies"] = f.Strategies
		}
		if len(f.Errors) > 0 {
			entry["errors"] = f.Errors
		}
		files = append(files, entry)
	}

	output := applyEditsOutput{
		RunID:     rep.RunID,
		DryRun:    rep.DryRun,
		Succeeded: rep.Succeeded,
		Failed:    rep.Failed,
		Pending:   rep.Pending,
		Files:     files,
	}

	s.logger.Info("applied edits",
		zap.String("run_id", rep.RunID),
		zap.Int("succeeded", rep.Succeeded),
		zap.Int("failed", rep.Failed),
		zap.Bool("dry_run", rep.DryRun))

	text := fmt.Sprintf("Applied %d blocks, %d failed", output.Succeeded, output.Failed)
	if len(output.Pending) > 0 {
		text += fmt.Sprintf(", %d pending", len(output.Pending))
	}
	if output.DryRun {
		text += " (dry run)"
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, output, nil
}

type editPair struct {
	Search  string `json:"search" jsonschema:"required,Literal text to find"`
	Replace string `json:"replace" jsonschema:"required,Text to put in its place"`
}

type patchDocumentInput struct {
	Path     string     `json:"path,omitempty" jsonschema:"Document name used in error messages"`
	Document string     `json:"document" jsonschema:"required,Document content to patch"`
	Edits    []editPair `json:"edits" jsonschema:"required,Ordered search/replace pairs"`
}

type patchDocumentOutput struct {
	Document   string   `json:"document" jsonschema:"Patched content, or the input when any pair failed"`
	Success    bool     `json:"success" jsonschema:"True when every pair applied"`
	Strategies []string `json:"strategies,omitempty" jsonschema:"Match strategy used per applied pair"`
	Errors     []string `json:"errors,omitempty" jsonschema:"Pair errors when success is false"`
}

func (s *Server) patchDocument(ctx context.Context, req *mcp.CallToolRequest, args patchDocumentInput) (*mcp.CallToolResult, patchDocumentOutput, error) {
	if len(args.Edits) == 0 {
		return nil, patchDocumentOutput{}, fmt.Errorf("edits is required")
	}
	path := args.Path
	if path == "" {
		path = "document"
	}

	pairs := make([]editblock.Pair, len(args.Edits))
	for i, e := range args.Edits {
		pairs[i] = editblock.Pair{Search: e.Search, Replace: e.Replace}
	}

	out := patch.Apply(path, args.Document, pairs)

	output := patchDocumentOutput{Document: out.Content, Success: out.Success}
	for _, step := range out.Steps {
		output.Strategies = append(output.Strategies, step.Strategy.String())
	}
	for _, e := range out.Errors {
		output.Errors = append(output.Errors, e.Error())
	}

	text := fmt.Sprintf("Patched %s: %d of %d pairs applied", path, len(out.Steps), len(pairs))
	if !out.Success {
		text = fmt.Sprintf("Patch of %s failed: %d of %d pairs applied, document unchanged", path, len(out.Steps), len(pairs))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, output, nil
}

type parseBlocksInput struct {
	Text string `json:"text" jsonschema:"required,Text to scan for edit blocks"`
}

type parseBlocksOutput struct {
	Blocks []map[string]interface{} `json:"blocks" jsonschema:"Edit blocks in order of appearance"`
	Count  int                      `json:"count" jsonschema:"Number of blocks found"`
}

func (s *Server) parseBlocks(ctx context.Context, req *mcp.CallToolRequest, args parseBlocksInput) (*mcp.CallToolResult, parseBlocksOutput, error) {
	blocks := editblock.Parse(args.Text)

	entries := make([]map[string]interface{}, 0, len(blocks))
	for _, b := range blocks {
		entry := map[string]interface{}{
			"path":     b.Path,
			"kind":     b.Kind.String(),
			"complete": b.Complete,
		}
		switch b.Kind {
		case editblock.FullReplace:
			entry["lines"] = strings.Count(b.Content, "\n") + 1
		case editblock.SearchReplace:
			entry["pairs"] = len(b.Pairs)
		}
		entries = append(entries, entry)
	}

	output := parseBlocksOutput{Blocks: entries, Count: len(entries)}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d edit blocks", output.Count)},
		},
	}, output, nil
}

// ===== SESSION TOOLS =====

type sessionFile struct {
	Path    string `json:"path" jsonschema:"required,Document path"`
	Content string `json:"content" jsonschema:"required,Document content"`
}

type sessionOpenInput struct {
	Files []sessionFile `json:"files,omitempty" jsonschema:"Initial documents for the session"`
}

type sessionOpenOutput struct {
	SessionID string `json:"session_id" jsonschema:"Identifier for session_feed and session_files calls"`
}

func (s *Server) sessionOpen(ctx context.Context, req *mcp.CallToolRequest, args sessionOpenInput) (*mcp.CallToolResult, sessionOpenOutput, error) {
	ws := workspace.New()
	for i, f := range args.Files {
		if f.Path == "" {
			return nil, sessionOpenOutput{}, fmt.Errorf("file %d: path is required", i+1)
		}
		ws.Put(f.Path, f.Content)
	}

	sess := workspace.NewSession(ws)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("session opened",
		zap.String("session_id", sess.ID),
		zap.Int("files", len(args.Files)))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Session %s opened with %d documents", sess.ID, len(args.Files))},
		},
	}, sessionOpenOutput{SessionID: sess.ID}, nil
}

type sessionFeedInput struct {
	SessionID string `json:"session_id" jsonschema:"required,Session identifier from session_open"`
	Chunk     string `json:"chunk" jsonschema:"required,Next chunk of streamed response text"`
	Final     bool   `json:"final,omitempty" jsonschema:"No more chunks follow; a closing fence on the last line counts"`
}

type sessionFeedOutput struct {
	Applied []map[string]interface{} `json:"applied" jsonschema:"Records of blocks applied by this chunk"`
	Pending []string                 `json:"pending,omitempty" jsonschema:"Paths of blocks still streaming"`
}

func (s *Server) sessionFeed(ctx context.Context, req *mcp.CallToolRequest, args sessionFeedInput) (*mcp.CallToolResult, sessionFeedOutput, error) {
	sess, err := s.session(args.SessionID)
	if err != nil {
		return nil, sessionFeedOutput{}, err
	}

	records := sess.Feed(args.Chunk)
	if args.Final {
		records = append(records, sess.Finish()...)
	}

	applied := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		entry := map[string]interface{}{
			"path":    rec.Path,
			"kind":    rec.Kind,
			"success": rec.Success,
		}
		if len(rec.Strategies) > 0 {
			entry["strategies"] = rec.Strategies
		}
		if len(rec.Errors) > 0 {
			entry["errors"] = rec.Errors
		}
		applied = append(applied, entry)
	}

	var pending []string
	for _, b := range sess.Pending() {
		pending = append(pending, b.Path)
	}

	s.logger.Info("session fed",
		zap.String("session_id", sess.ID),
		zap.Int("applied", len(applied)),
		zap.Int("pending", len(pending)))

	text := fmt.Sprintf("Applied %d blocks", len(applied))
	if len(pending) > 0 {
		text += fmt.Sprintf(", %d pending", len(pending))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, sessionFeedOutput{Applied: applied, Pending: pending}, nil
}

type sessionFilesInput struct {
	SessionID string `json:"session_id" jsonschema:"required,Session identifier"`
	Path      string `json:"path,omitempty" jsonschema:"Single document to fetch"`
}

type sessionFilesOutput struct {
	Files []sessionFile `json:"files" jsonschema:"Documents in the session"`
}

func (s *Server) sessionFiles(ctx context.Context, req *mcp.CallToolRequest, args sessionFilesInput) (*mcp.CallToolResult, sessionFilesOutput, error) {
	sess, err := s.session(args.SessionID)
	if err != nil {
		return nil, sessionFilesOutput{}, err
	}
	ws := sess.Workspace()

	var output sessionFilesOutput
	if args.Path != "" {
		content, ok := ws.Get(args.Path)
		if !ok {
			return nil, sessionFilesOutput{}, fmt.Errorf("%s: no such document", args.Path)
		}
		output.Files = []sessionFile{{Path: args.Path, Content: content}}
	} else {
		snapshot := ws.Snapshot()
		for _, p := range ws.Paths() {
			output.Files = append(output.Files, sessionFile{Path: p, Content: snapshot[p]})
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Returned %d documents", len(output.Files))},
		},
	}, output, nil
}
