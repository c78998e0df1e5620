package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Pulse resources.
	uriScheme = "pulse://"

	jsonMIMEType = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "insights",
		Name:        "insights",
		Description: "Every stored insight record, newest first",
		MIMEType:    jsonMIMEType,
	}, s.handleInsightsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "insights/{filename}",
		Name:        "insight-record",
		Description: "The insight record for a single transcript",
		MIMEType:    jsonMIMEType,
	}, s.handleInsightResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index/stats",
		Name:        "index-stats",
		Description: "Document count, dimension and model of the vector index",
		MIMEType:    jsonMIMEType,
	}, s.handleIndexStatsResource)
}

// handleInsightsResource returns every stored insight record.
func (s *Server) handleInsightsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Insights == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	records, err := s.ports.Insights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	if records == nil {
		records = []domain.InsightRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling insights: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleInsightResource returns the insight record named in the URI.
func (s *Server) handleInsightResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Insights == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	filename := extractFilename(req.Params.URI)
	if filename == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Insights.Get(ctx, filename)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting insight: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling insight: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleIndexStatsResource returns vector index statistics.
func (s *Server) handleIndexStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var stats domain.IndexStats
	if s.ports.Index != nil {
		stats = s.ports.Index.Stats()
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index stats: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// extractFilename extracts the percent-decoded filename from a URI like
// pulse://insights/{filename}.
func extractFilename(uri string) string {
	const prefix = uriScheme + "insights/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return name
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     text,
		}},
	}
}
