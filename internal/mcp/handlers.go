package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/hexmark/internal/errors"
	"github.com/hpungsan/hexmark/internal/ops"
	"github.com/hpungsan/hexmark/internal/present"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// AddRequest represents the arguments for add.
type AddRequest struct {
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
	Offset   int64  `json:"offset"`
	Mode     string `json:"mode,omitempty"`
}

// RemoveRequest represents the arguments for remove.
type RemoveRequest struct {
	Indices []int    `json:"indices,omitempty"`
	Names   []string `json:"names,omitempty"`
}

// GotoRequest represents the arguments for goto.
type GotoRequest struct {
	Index *int   `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`
}

// ValidateRequest represents the arguments for validate.
type ValidateRequest struct {
	Retain *bool `json:"retain,omitempty"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	SortBy     string `json:"sort_by,omitempty"`
	Descending bool   `json:"descending,omitempty"`
	Format     string `json:"format,omitempty"`
}

// HistoryRequest represents the arguments for history.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// DocumentRequest represents the arguments for document_open and document_close.
type DocumentRequest struct {
	FilePath string `json:"file_path"`
}

// EditRequest represents the arguments for document_edit.
type EditRequest struct {
	FilePath string `json:"file_path"`
	Kind     string `json:"kind"`
	Pos      int64  `json:"pos"`
	Length   int64  `json:"length"`
}

// Handler implementations

// HandleAdd handles the add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input AddRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.Add(ctx, h.env, ops.AddInput{
		Name:     input.Name,
		FilePath: input.FilePath,
		Offset:   input.Offset,
		Mode:     ops.AddMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRemove handles the remove tool call.
func (h *Handlers) HandleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RemoveRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.Remove(ctx, h.env, ops.RemoveInput{
		Indices: input.Indices,
		Names:   input.Names,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGoto handles the goto tool call.
func (h *Handlers) HandleGoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GotoRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.Navigate(ctx, h.env, ops.NavigateInput{
		Index: input.Index,
		Name:  input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleValidate handles the validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ValidateRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.Validate(ctx, h.env, ops.ValidateInput{Retain: input.Retain})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the list tool call. Markdown and HTML formats return the
// rendered table as text.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.List(ctx, h.env, ops.ListInput{
		SortBy:     input.SortBy,
		Descending: input.Descending,
	})
	if err != nil {
		return errorResult(err), nil
	}

	switch input.Format {
	case "", "json":
		return successResult(result)
	case "markdown", "md":
		return mcp.NewToolResultText(present.Markdown(result.Rows)), nil
	case "html":
		out, err := present.HTML(result.Rows)
		if err != nil {
			return errorResult(errors.NewInternal(err)), nil
		}
		return mcp.NewToolResultText(out), nil
	default:
		return errorResult(errors.NewInvalidRequest("format must be one of: json, markdown, html")), nil
	}
}

// HandleHistory handles the history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input HistoryRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.History(ctx, h.env, ops.HistoryInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ExportRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.Export(ctx, h.env, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ImportRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.Import(ctx, h.env, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDocumentOpen handles the document_open tool call.
func (h *Handlers) HandleDocumentOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DocumentRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.OpenDocument(ctx, h.env, ops.DocumentInput{FilePath: input.FilePath})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocumentEdit handles the document_edit tool call.
func (h *Handlers) HandleDocumentEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input EditRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.EditDocument(ctx, h.env, ops.EditInput{
		FilePath: input.FilePath,
		Kind:     ops.EditKind(input.Kind),
		Pos:      input.Pos,
		Length:   input.Length,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocumentClose handles the document_close tool call.
func (h *Handlers) HandleDocumentClose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DocumentRequest
	if err := req.BindArguments(&input); err != nil {
		return errorResult(badArguments(err)), nil
	}

	result, err := ops.CloseDocument(ctx, h.env, ops.DocumentInput{FilePath: input.FilePath})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking file paths or SQL errors.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var hexErr *errors.HexmarkError
	if stderrors.As(err, &hexErr) {
		// Keep wrapper context such as "indices[2]: ..." when present
		msg := hexErr.Message
		if err != error(hexErr) {
			msg = err.Error()
		}
		errorObj := map[string]any{
			"code":    hexErr.Code,
			"message": msg,
			"status":  hexErr.Status,
		}
		if hexErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if hexErr.Details != nil {
			errorObj["details"] = hexErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// badArguments reports tool arguments that do not fit the request struct,
// such as a string where a number belongs.
func badArguments(err error) error {
	return errors.NewInvalidRequest("invalid arguments: " + err.Error())
}
