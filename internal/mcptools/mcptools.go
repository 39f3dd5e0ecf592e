// Package mcptools exposes outline and ranking as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer returns an MCP server with every docsift tool registered.
func NewServer(p *pipeline.Pipeline, version string, log *slog.Logger) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "docsift", Version: version}, nil)
	Register(srv, p, log)
	return srv
}

// Register adds the docsift tools to srv.
func Register(srv *mcp.Server, p *pipeline.Pipeline, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	t := &tools{pipeline: p, log: log}
	srv.AddTool(outlineTool, handle(t.outline))
	srv.AddTool(rankTool, handle(t.rank))
	srv.AddTool(formatsTool, handle(t.formats))
}

type tools struct {
	pipeline *pipeline.Pipeline
	log      *slog.Logger
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// handle decodes arguments into Req, runs fn, and returns its result as
// JSON text. Failures become tool errors rather than protocol errors.
func handle[Req any](fn func(context.Context, *Req) (any, error)) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}
		resp, err := fn(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	}
}

// --- outline ---

var outlineTool = &mcp.Tool{
	Name:        "docsift_outline",
	Description: "Infer the title and H1-H3 outline of a document (pdf, docx, md, html, txt) from its typography.",
	InputSchema: inputSchema(map[string]any{
		"path": map[string]any{"type": "string", "description": "Document file path"},
	}, []string{"path"}),
}

type outlineReq struct {
	Path string `json:"path"`
}

func (t *tools) outline(ctx context.Context, r *outlineReq) (any, error) {
	if r.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return t.pipeline.OutlineFile(ctx, r.Path)
}

// --- rank ---

var rankTool = &mcp.Tool{
	Name:        "docsift_rank",
	Description: "Rank the sections of a set of documents by relevance to a persona and task, with a short extractive summary of each.",
	InputSchema: inputSchema(map[string]any{
		"paths": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Document file paths",
		},
		"persona": map[string]any{"type": "string", "description": "Role of the reader"},
		"task":    map[string]any{"type": "string", "description": "Job the reader needs to get done"},
	}, []string{"paths", "persona", "task"}),
}

type rankReq struct {
	Paths   []string `json:"paths"`
	Persona string   `json:"persona"`
	Task    string   `json:"task"`
}

func (t *tools) rank(ctx context.Context, r *rankReq) (any, error) {
	var cq config.Query
	cq.Persona.Role = r.Persona
	cq.JobToBeDone.Task = r.Task
	q, err := cq.RankQuery()
	if err != nil {
		return nil, err
	}
	if len(r.Paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}

	inputs := make([]pipeline.Input, len(r.Paths))
	for i, path := range r.Paths {
		inputs[i] = pipeline.FileInput(path)
	}
	rep, err := t.pipeline.Rank(ctx, inputs, q)
	if err != nil {
		return nil, err
	}
	t.log.Info("mcp rank", "documents", len(inputs), "ranked", len(rep.ExtractedSections))
	return rep, nil
}

// --- formats ---

var formatsTool = &mcp.Tool{
	Name:        "docsift_formats",
	Description: "List the file extensions docsift can read.",
	InputSchema: inputSchema(map[string]any{}, nil),
}

type formatsReq struct{}

func (t *tools) formats(_ context.Context, _ *formatsReq) (any, error) {
	return map[string]any{"extensions": parser.Extensions()}, nil
}
