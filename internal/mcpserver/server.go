// Package mcpserver exposes the apply pipeline over the Model Context
// Protocol. Editors and agent harnesses drive stitch through its tools
// instead of shelling out to the CLI.
//
// This implementation uses the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// on the stdio transport: stdout carries the protocol stream, logs go to
// stderr.
package mcpserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/stitchkit/stitch/internal/runner"
	"github.com/stitchkit/stitch/internal/workspace"
)

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "stitch").
	Name string

	// Version is the server version (default: "dev").
	Version string

	// Runner applies edit blocks to the working tree. Required. Quiet is
	// forced on regardless of what the caller set.
	Runner *runner.Runner

	// Logger for structured logging. Nil disables logging.
	Logger *zap.Logger
}

// Server wires the stitch pipeline to MCP tools.
type Server struct {
	mcp    *mcp.Server
	run    *runner.Runner
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*workspace.Session
}

// NewServer creates an MCP server exposing the apply pipeline and the
// in-memory session tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil || cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	name := cfg.Name
	if name == "" {
		name = "stitch"
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Copy so forcing Quiet does not mutate the caller's runner.
	run := *cfg.Runner
	run.Quiet = true

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version,
		}, nil),
		run:      &run,
		logger:   logger,
		sessions: make(map[string]*workspace.Session),
	}
	s.registerTools()
	return s, nil
}

// Run starts the server on the stdio transport and blocks until the client
// disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "apply_edits",
		Description: "Apply every edit block in a response text to the working tree",
	}, s.applyEdits)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "patch_document",
		Description: "Apply search/replace pairs to a document passed inline",
	}, s.patchDocument)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "parse_blocks",
		Description: "List the edit blocks in a text without applying them",
	}, s.parseBlocks)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "session_open",
		Description: "Start an in-memory editing session over a set of documents",
	}, s.sessionOpen)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "session_feed",
		Description: "Feed a chunk of streamed response text to a session, applying blocks as they complete",
	}, s.sessionFeed)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "session_files",
		Description: "Read documents back from a session",
	}, s.sessionFiles)
}

// session looks up an open session by id.
func (s *Server) session(id string) (*workspace.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", id)
	}
	return sess, nil
}
