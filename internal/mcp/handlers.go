package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/conneroisu/tailplay/internal/catalog"
)

// exampleSummary is the list_examples view of a snippet.
type exampleSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Kind        catalog.Kind `json:"kind"`
}

func (s *Server) handleConvertMarkup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markup, err := req.RequireString("markup")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.engine.Convert(markup))
}

func (s *Server) handleListExamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.catalog.Filter(req.GetString("query", ""), req.GetString("tag", ""))

	out := make([]exampleSummary, 0, len(entries))
	for _, sn := range entries {
		out = append(out, exampleSummary{
			ID:          sn.ID,
			Title:       sn.Title,
			Description: sn.Description,
			Tags:        sn.Tags,
			Kind:        sn.Kind,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetExample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sn, errResult := s.lookup(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(sn)
}

func (s *Server) handleConvertExample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sn, errResult := s.lookup(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(sn.Convert(s.engine))
}

// lookup resolves the id argument. Failures are returned as tool errors so
// the model can correct the call.
func (s *Server) lookup(req mcp.CallToolRequest) (catalog.Snippet, *mcp.CallToolResult) {
	id, err := req.RequireString("id")
	if err != nil {
		return catalog.Snippet{}, mcp.NewToolResultError(err.Error())
	}
	sn, err := s.catalog.Get(id)
	if err != nil {
		return catalog.Snippet{}, mcp.NewToolResultError(err.Error())
	}
	return sn, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
