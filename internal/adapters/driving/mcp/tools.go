package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// EnqueueInput is the input schema for the enqueue_asset tool.
type EnqueueInput struct {
	Path string `json:"path" jsonschema:"absolute path of a local .glb file"`
}

// ItemOutput describes one queued item.
type ItemOutput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Result string `json:"result,omitempty"`
}

// ItemsOutput is the output schema for tools returning the queue.
type ItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
}

// ItemInput identifies one item.
type ItemInput struct {
	ID string `json:"id" jsonschema:"item id as returned by list_items"`
}

// ExportInput is the input schema for the export_item tool.
type ExportInput struct {
	ID  string `json:"id" jsonschema:"id of a converted item"`
	Dir string `json:"dir" jsonschema:"directory to write the .fbx file into"`
}

// ExportOutput is the output schema for the export_item tool.
type ExportOutput struct {
	Path string `json:"path"`
}

// ConnectionOutput is the output schema for the check_connection tool.
type ConnectionOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "enqueue_asset",
		Description: "Queue a local .glb file for conversion to FBX",
	}, s.handleEnqueue)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_queue",
		Description: "Convert every pending item one at a time and return the final queue",
	}, s.handleProcess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_items",
		Description: "List queued items with their conversion status",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_item",
		Description: "Remove an item that is not currently converting",
	}, s.handleRemove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_item",
		Description: "Write the converted FBX of a finished item into a directory",
	}, s.handleExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_connection",
		Description: "Check whether the active conversion endpoint is reachable",
	}, s.handleCheck)
}

func (s *Server) handleEnqueue(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EnqueueInput,
) (*mcp.CallToolResult, ItemOutput, error) {
	if input.Path == "" {
		return nil, ItemOutput{}, errors.New("path is required")
	}
	if !domain.IsGLB(input.Path) {
		return nil, ItemOutput{}, fmt.Errorf("%s is not a .glb file", input.Path)
	}

	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, ItemOutput{}, fmt.Errorf("reading asset: %w", err)
	}

	item, err := s.ports.Queue.Enqueue(ctx, domain.SourceFile{Name: filepath.Base(input.Path), Data: data})
	if err != nil {
		return nil, ItemOutput{}, err
	}
	return nil, toItemOutput(item), nil
}

func (s *Server) handleProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ItemsOutput, error) {
	if err := s.ports.Queue.ProcessAll(ctx); err != nil {
		return nil, ItemsOutput{}, err
	}
	return nil, s.items(), nil
}

func (s *Server) handleList(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ItemsOutput, error) {
	return nil, s.items(), nil
}

func (s *Server) handleRemove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ItemInput,
) (*mcp.CallToolResult, ItemsOutput, error) {
	if err := s.ports.Queue.Remove(ctx, input.ID); err != nil {
		return nil, ItemsOutput{}, err
	}
	return nil, s.items(), nil
}

func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	if s.ports.ResultAction == nil {
		return nil, ExportOutput{}, errors.New("export is not available")
	}
	path, err := s.ports.ResultAction.Export(ctx, input.ID, input.Dir)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{Path: path}, nil
}

func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ConnectionOutput, error) {
	if s.ports.Connectivity == nil {
		return nil, ConnectionOutput{}, errors.New("connectivity check is not available")
	}
	state := s.ports.Connectivity.CheckActive(ctx)
	return nil, ConnectionOutput{Status: string(state.Status), Message: state.Message}, nil
}

func (s *Server) items() ItemsOutput {
	items := s.ports.Queue.Items()
	out := ItemsOutput{Items: make([]ItemOutput, len(items)), Count: len(items)}
	for i := range items {
		out.Items[i] = toItemOutput(items[i])
	}
	return out
}

func toItemOutput(item domain.ConversionItem) ItemOutput {
	out := ItemOutput{
		ID:     item.ID,
		Name:   item.Source.Name,
		Status: item.Status.String(),
		Error:  item.Error,
	}
	if item.ResultPreview != nil {
		out.Result = item.ResultName()
	}
	return out
}
