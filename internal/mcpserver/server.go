// Package mcpserver exposes the scanner and assistant over the Model
// Context Protocol so editors and agents can drive them through stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rulesmith/rulesmith/internal/assistant"
	"github.com/rulesmith/rulesmith/internal/scanner"
)

// DefaultCacheTTL bounds how long scan results are reused between tool
// calls before the tree is walked again.
const DefaultCacheTTL = 5 * time.Minute

// Options configure the server.
type Options struct {
	Version   string
	Assistant *assistant.Assistant // nil when no API key is configured
	CacheTTL  time.Duration        // zero means DefaultCacheTTL
}

// Server wraps the MCP stdio server and the scan cache behind its tools.
type Server struct {
	mcp       *server.MCPServer
	assistant *assistant.Assistant
	cache     *scanner.Cache
}

// New assembles the server and registers the tool set. Tools needing the
// LLM report a configuration error when no assistant is wired.
func New(opts Options) *Server {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	s := &Server{
		assistant: opts.Assistant,
		cache:     scanner.NewCache(ttl),
	}

	s.mcp = server.NewMCPServer(
		"rulesmith",
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcp.AddTool(mcp.NewTool("scan_repository",
		mcp.WithDescription("Scan a repository for Java model classes, DRL rules and GDST decision tables."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path to scan")),
	), s.handleScan)

	s.mcp.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the rule-engine artifacts found in a repository."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path")),
		mcp.WithString("type", mcp.Description("Filter: all, java, drl or gdst (default all)")),
	), s.handleList)

	s.mcp.AddTool(mcp.NewTool("generate_rule",
		mcp.WithDescription("Generate a DRL rule from requirements using the repository as context."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path providing context")),
		mcp.WithString("requirements", mcp.Required(), mcp.Description("What the rule must do")),
	), s.handleGenerate)

	s.mcp.AddTool(mcp.NewTool("analyze_rule",
		mcp.WithDescription("Analyze a DRL rule file against the repository context."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path providing context")),
		mcp.WithString("rule_path", mcp.Required(), mcp.Description("Path of the .drl file to analyze")),
	), s.handleAnalyze)

	return s
}

// Serve blocks on the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	defer s.Close()
	log.Printf("[MCP] serving rulesmith tools over stdio")
	return server.ServeStdio(s.mcp)
}

// Close releases the scan cache. Serve calls it on return.
func (s *Server) Close() {
	s.cache.Close()
}

// scanCached returns a cached scan result for root or performs the walk.
// MCP clients tend to issue list/generate/analyze back to back against the
// same repository; the cache keeps that from re-walking the tree each time.
func (s *Server) scanCached(root string) (*scanner.Result, error) {
	if result, ok := s.cache.Get(root); ok {
		return result, nil
	}
	result, err := scanner.New(root).Scan()
	if err != nil {
		return nil, err
	}
	s.cache.Put(root, result)
	return result, nil
}

func (s *Server) handleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// An explicit scan always re-walks.
	s.cache.Invalidate(path)
	result, err := s.scanCached(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary := fmt.Sprintf("Found: %d Java model files, %d DRL files, %d GDST files",
		len(result.Models), len(result.Rules), len(result.Tables))
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := req.GetString("type", "all")
	result, err := s.scanCached(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	listing := result.FormatListing(kind)
	if listing == "" {
		listing = "No matching files found."
	}
	return mcp.NewToolResultText(listing), nil
}

func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.assistant == nil {
		return mcp.NewToolResultError("Groq API key not configured"), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	requirements, err := req.RequireString("requirements")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.scanCached(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rule, err := s.assistant.GenerateRule(ctx, result.Documents(), requirements)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(rule), nil
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.assistant == nil {
		return mcp.NewToolResultError("Groq API key not configured"), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rulePath, err := req.RequireString("rule_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ruleData, err := os.ReadFile(rulePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read rule file: %v", err)), nil
	}
	result, err := s.scanCached(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := s.assistant.AnalyzeRule(ctx, result.Documents(), string(ruleData))
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
