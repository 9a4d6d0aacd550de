package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/topicserve/internal/dataset"
	"github.com/dgallion1/topicserve/internal/metrics"
	"github.com/dgallion1/topicserve/internal/search"
	"github.com/dgallion1/topicserve/internal/stats"
	"github.com/dgallion1/topicserve/internal/store"
)

const Version = "0.1.0"

type GetTopicRequest struct {
	ID string `json:"id"` // Topic identifier, e.g. "T1"
}

type SearchRequest struct {
	Query string `json:"query"` // Free text, matched case-insensitively
}

type SearchResponse struct {
	Query   string                `json:"query"`
	Results []dataset.MatchResult `json:"results"`
}

// NewServer creates an MCP server exposing the read side of the store.
// searchStats may be nil.
func NewServer(st *store.Store, searchStats *stats.LatencyStats) *server.MCPServer {
	s := server.NewMCPServer(
		"topicserve",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("list_topics",
		mcp.WithDescription("List the id and title of every topic in the current document"),
	), mcp.NewTypedToolHandler(listTopicsHandler(st)))

	s.AddTool(mcp.NewTool("get_topic",
		mcp.WithDescription("Get one topic with its content blocks and quiz"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The topic id; lookup is retried upper-cased"),
		),
	), mcp.NewTypedToolHandler(getTopicHandler(st)))

	s.AddTool(mcp.NewTool("search_topics",
		mcp.WithDescription("Search topic titles, subtitles, content and quizzes; at most one match per topic"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
	), mcp.NewTypedToolHandler(searchHandler(st, searchStats)))

	s.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get the full current document"),
	), mcp.NewTypedToolHandler(getDocumentHandler(st)))

	return s
}

// NewHTTPHandler serves s over streamable HTTP at endpoint.
func NewHTTPHandler(s *server.MCPServer, endpoint string) http.Handler {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
	)
}

func listTopicsHandler(st *store.Store) func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
		return jsonResult(st.Summaries())
	}
}

func getTopicHandler(st *store.Store) func(ctx context.Context, request mcp.CallToolRequest, args GetTopicRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetTopicRequest) (*mcp.CallToolResult, error) {
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}
		topic, err := st.Topic(args.ID)
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError("topic not found"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get topic: %v", err)), nil
		}
		return jsonResult(topic)
	}
}

func searchHandler(st *store.Store, searchStats *stats.LatencyStats) func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
		q := search.NormalizeQuery(args.Query)
		start := time.Now()
		results := search.Search(st.Document(), q)
		if searchStats != nil {
			searchStats.Record(time.Since(start), len(results))
		}
		metrics.RecordSearch(q, len(results))

		return jsonResult(SearchResponse{Query: q, Results: results})
	}
}

func getDocumentHandler(st *store.Store) func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
		return jsonResult(st.Document())
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
