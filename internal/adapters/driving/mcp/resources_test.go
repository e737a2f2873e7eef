package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

func TestExtractLevel(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid level URI",
			uri:      "cpix://hierarchy/division",
			expected: "division",
		},
		{
			name:     "item level",
			uri:      "cpix://hierarchy/item",
			expected: "item",
		},
		{
			name:     "invalid prefix",
			uri:      "file://hierarchy/division",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractLevel(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// testHierarchy builds a two-division universe with one item under each.
func testHierarchy() *domain.Hierarchy {
	nodes := []domain.Node{
		{Code: "01", Name: "Food", Weight: 60, Level: domain.LevelDivision},
		{Code: "02", Name: "Transport", Weight: 40, Level: domain.LevelDivision},
		{Code: "01.1.1.01", Name: "Rice", Weight: 60, Level: domain.LevelItem, ParentCode: "01.1.1"},
		{Code: "02.1.1.01", Name: "Petrol", Weight: 40, Level: domain.LevelItem, ParentCode: "02.1.1"},
	}
	return domain.NewHierarchy(nodes, nil, nil)
}

func TestServer_handleHierarchyResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil hierarchy service returns empty object", func(t *testing.T) {
		ports := &Ports{Index: &mockIndexService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy")
		result, err := server.handleHierarchyResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "{}", result.Contents[0].Text)
	})

	t.Run("returns level summary", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{hierarchy: testHierarchy()}

		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy")
		result, err := server.handleHierarchyResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"level": "division"`)
		assert.Contains(t, result.Contents[0].Text, `"nodes": 2`)
		assert.Contains(t, result.Contents[0].Text, `"total_item_weight": 100`)
	})

	t.Run("returns error on load failure", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{
			err: errors.New("weight file unreadable"),
		}

		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy")
		_, err = server.handleHierarchyResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading hierarchy")
	})
}

func TestServer_handleLevelResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil hierarchy service returns not found", func(t *testing.T) {
		ports := &Ports{Index: &mockIndexService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy/division")
		_, err = server.handleLevelResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("unknown level returns not found", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{hierarchy: testHierarchy()}
		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy/basement")
		_, err = server.handleLevelResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns division nodes", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{hierarchy: testHierarchy()}
		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy/division")
		result, err := server.handleLevelResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "01")
		assert.Contains(t, result.Contents[0].Text, "Food")
		assert.Contains(t, result.Contents[0].Text, "Transport")
	})

	t.Run("returns item nodes with parents", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{hierarchy: testHierarchy()}
		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy/item")
		result, err := server.handleLevelResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "Rice")
		assert.Contains(t, result.Contents[0].Text, `"parent": "01.1.1"`)
	})

	t.Run("handles level with no nodes", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{hierarchy: testHierarchy()}
		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy/group")
		result, err := server.handleLevelResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on load failure", func(t *testing.T) {
		mockHierarchy := &mockHierarchyService{
			err: errors.New("storage error"),
		}
		ports := &Ports{Index: &mockIndexService{}, Hierarchy: mockHierarchy}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("cpix://hierarchy/division")
		_, err = server.handleLevelResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading hierarchy")
	})
}
