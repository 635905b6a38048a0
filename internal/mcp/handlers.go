package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/research-assistant/internal/pipeline"
)

// makeIngestHandler creates the ingest_documents tool handler.
// The run is synchronous: the tool returns once the index is rebuilt and
// durable, so a following ask_question observes the new state.
func makeIngestHandler(controller *pipeline.Controller) func(
	context.Context, *mcp.CallToolRequest, IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IngestInput) (
		*mcp.CallToolResult, IngestOutput, error,
	) {
		if len(input.Paths) == 0 {
			return nil, IngestOutput{
				Message: "No files given; nothing ingested.",
			}, nil
		}

		result, err := controller.Ingest(ctx, input.Paths)
		if err != nil {
			return nil, IngestOutput{}, fmt.Errorf("ingest failed: %w", err)
		}

		return nil, IngestOutput{
			Files:    result.Files,
			Pages:    result.Pages,
			Chunks:   result.Chunks,
			Duration: result.Duration.String(),
		}, nil
	}
}

// makeAskHandler creates the ask_question tool handler.
func makeAskHandler(controller *pipeline.Controller) func(
	context.Context, *mcp.CallToolRequest, AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (
		*mcp.CallToolResult, AskOutput, error,
	) {
		result, err := controller.Query(ctx, input.Question)
		if err != nil {
			return nil, AskOutput{}, fmt.Errorf("query failed: %w", err)
		}

		sources := make([]Source, 0, len(result.Sources))
		for _, sc := range result.Sources {
			sources = append(sources, Source{
				File:  sc.Chunk.Source,
				Page:  sc.Chunk.Page,
				Score: sc.Score,
			})
		}

		return nil, AskOutput{
			Answer:  result.Answer,
			Model:   result.Model,
			Sources: sources,
		}, nil
	}
}

// makeStatusHandler creates the get_status tool handler.
func makeStatusHandler(controller *pipeline.Controller) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		status, err := controller.Status(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("status failed: %w", err)
		}

		return nil, StatusOutput{
			State:         status.State,
			IndexedChunks: status.IndexedCount,
			HistoryTurns:  status.HistoryTurns,
		}, nil
	}
}
