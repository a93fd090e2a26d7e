// Package tools implements the MCP tool handlers.
//
// Each tool is a struct holding its dependencies, injected via its
// constructor. Definition() returns the mcp.Tool schema and Handle()
// processes a call. User mistakes come back as tool errors
// (mcp.NewToolResultError), never as Go errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/planner"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// DefaultSurface is the chat surface used when a call names none.
const DefaultSurface = "mcp"

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// linesArg splits a newline-separated argument into trimmed, non-empty
// lines. A JSON array of strings is accepted too.
func linesArg(req mcp.CallToolRequest, key string) []string {
	var raw []string
	switch v := req.GetArguments()[key].(type) {
	case string:
		raw = strings.Split(v, "\n")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	var out []string
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tools: marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// failure maps a domain error to a tool result. Invalid input and missing
// entities are reported as-is; anything else is prefixed with what failed.
func failure(what string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		return mcp.NewToolResultError(strings.TrimPrefix(err.Error(), planner.ErrInvalidInput.Error()+": "))
	case errors.Is(err, store.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: not found", what))
	}
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", what, err))
}
