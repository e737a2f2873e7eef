package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for cpix resources.
	uriScheme = "cpix://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource summarising the weight hierarchy.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "hierarchy",
		Name:        "hierarchy",
		Description: "Level-by-level summary of the weight hierarchy",
		MIMEType:    "application/json",
	}, s.handleHierarchyResource)

	// Template for the nodes at one hierarchy level.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "hierarchy/{level}",
		Name:        "hierarchy-level",
		Description: "Nodes at one hierarchy level with codes, names, weights and parents",
		MIMEType:    "application/json",
	}, s.handleLevelResource)
}

// handleHierarchyResource returns node counts per level and the item
// weight total.
func (s *Server) handleHierarchyResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Hierarchy == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	hierarchy, err := s.ports.Hierarchy.Hierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy: %w", err)
	}

	type levelInfo struct {
		Level string `json:"level"`
		Nodes int    `json:"nodes"`
	}

	summary := struct {
		Levels          []levelInfo `json:"levels"`
		TotalItemWeight float64     `json:"total_item_weight"`
	}{
		Levels:          make([]levelInfo, 0, len(domain.Levels)),
		TotalItemWeight: hierarchy.TotalItemWeight(),
	}
	for _, lvl := range domain.Levels {
		summary.Levels = append(summary.Levels, levelInfo{
			Level: string(lvl),
			Nodes: hierarchy.Len(lvl),
		})
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling hierarchy summary: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleLevelResource returns the nodes at a specific hierarchy level.
func (s *Server) handleLevelResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Hierarchy == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract the level from URI: cpix://hierarchy/{level}
	level, err := domain.ParseLevel(extractLevel(req.Params.URI))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	hierarchy, err := s.ports.Hierarchy.Hierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy: %w", err)
	}

	type nodeInfo struct {
		Code   string  `json:"code"`
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
		Parent string  `json:"parent,omitempty"`
	}

	nodes := hierarchy.Nodes(level)
	infos := make([]nodeInfo, len(nodes))
	for i, n := range nodes {
		infos[i] = nodeInfo{
			Code:   n.Code,
			Name:   n.Name,
			Weight: n.Weight,
			Parent: n.ParentCode,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling nodes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLevel extracts the level name from a URI like cpix://hierarchy/{level}.
func extractLevel(uri string) string {
	const prefix = uriScheme + "hierarchy/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
