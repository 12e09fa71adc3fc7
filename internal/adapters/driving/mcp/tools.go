package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
)

// Tool names.
const (
	toolListPages   = "list_pages"
	toolReadPage    = "read_page"
	toolCreatePage  = "create_page"
	toolAddBlock    = "add_block"
	toolUpdateBlock = "update_block"
	toolDeleteBlock = "delete_block"
)

// ListPagesInput is the input schema for the list_pages tool.
type ListPagesInput struct{}

// ListPagesOutput is the output schema for the list_pages tool.
type ListPagesOutput struct {
	Pages []PageSummary `json:"pages"`
	Count int           `json:"count"`
}

// PageSummary describes a page without its blocks.
type PageSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Icon     string   `json:"icon,omitempty"`
	ParentID string   `json:"parent_id,omitempty"`
	Children []string `json:"children"`
}

// ReadPageInput is the input schema for the read_page tool.
type ReadPageInput struct {
	PageID string `json:"page_id" jsonschema:"the id of the page to read"`
}

// ReadPageOutput is the output schema for the read_page tool.
type ReadPageOutput struct {
	Page   PageSummary   `json:"page"`
	Blocks []BlockOutput `json:"blocks"`
}

// BlockOutput represents a single block.
type BlockOutput struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
	Level    int    `json:"level,omitempty"`
	URL      string `json:"url,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// CreatePageInput is the input schema for the create_page tool.
type CreatePageInput struct {
	Title    string `json:"title" jsonschema:"the page title, may be empty"`
	ParentID string `json:"parent_id,omitempty" jsonschema:"optional id of the parent page"`
}

// CreatePageOutput is the output schema for the create_page tool.
type CreatePageOutput struct {
	PageID string `json:"page_id"`
}

// AddBlockInput is the input schema for the add_block tool.
type AddBlockInput struct {
	PageID       string `json:"page_id" jsonschema:"the id of the page to add to"`
	Type         string `json:"type" jsonschema:"block type such as paragraph, heading1, bulletList, code, or a shortcut such as h1"`
	Content      string `json:"content,omitempty" jsonschema:"the block text"`
	AfterBlockID string `json:"after_block_id,omitempty" jsonschema:"insert after this block instead of appending"`
}

// AddBlockOutput is the output schema for the add_block tool.
type AddBlockOutput struct {
	BlockID string `json:"block_id"`
}

// UpdateBlockInput is the input schema for the update_block tool.
type UpdateBlockInput struct {
	PageID  string `json:"page_id" jsonschema:"the id of the page holding the block"`
	BlockID string `json:"block_id" jsonschema:"the id of the block to change"`
	Content string `json:"content" jsonschema:"the new block text"`
}

// DeleteBlockInput is the input schema for the delete_block tool.
type DeleteBlockInput struct {
	PageID  string `json:"page_id" jsonschema:"the id of the page holding the block"`
	BlockID string `json:"block_id" jsonschema:"the id of the block to delete"`
}

// OKOutput is returned by tools that only report success.
type OKOutput struct {
	OK bool `json:"ok"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolListPages,
		Description: "List every page in the workspace in display order",
	}, s.handleListPages)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolReadPage,
		Description: "Read a page and all of its blocks",
	}, s.handleReadPage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolCreatePage,
		Description: "Create a page, optionally nested under another page",
	}, s.handleCreatePage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolAddBlock,
		Description: "Add a content block to a page",
	}, s.handleAddBlock)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolUpdateBlock,
		Description: "Replace the text of a block",
	}, s.handleUpdateBlock)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolDeleteBlock,
		Description: "Delete a block from a page",
	}, s.handleDeleteBlock)
}

func (s *Server) handleListPages(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListPagesInput,
) (*mcp.CallToolResult, ListPagesOutput, error) {
	snap := s.ports.Workspace.Snapshot()

	output := ListPagesOutput{
		Pages: make([]PageSummary, 0, len(snap.PageOrder)),
	}
	for _, id := range snap.PageOrder {
		page, ok := snap.Pages[id]
		if !ok {
			continue
		}
		output.Pages = append(output.Pages, summarise(page))
	}
	output.Count = len(output.Pages)

	return nil, output, nil
}

func (s *Server) handleReadPage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReadPageInput,
) (*mcp.CallToolResult, ReadPageOutput, error) {
	page, ok := s.ports.Workspace.GetPageByID(input.PageID)
	if !ok {
		return nil, ReadPageOutput{}, fmt.Errorf("page %s: %w", input.PageID, domain.ErrNotFound)
	}

	output := ReadPageOutput{
		Page:   summarise(page),
		Blocks: make([]BlockOutput, len(page.Blocks)),
	}
	for i, b := range page.Blocks {
		output.Blocks[i] = blockOutput(b)
	}

	return nil, output, nil
}

func (s *Server) handleCreatePage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CreatePageInput,
) (*mcp.CallToolResult, CreatePageOutput, error) {
	page, err := s.ports.Workspace.CreateNewPage(input.Title, input.ParentID)
	if err != nil {
		return nil, CreatePageOutput{}, err
	}
	return nil, CreatePageOutput{PageID: page.ID}, nil
}

func (s *Server) handleAddBlock(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AddBlockInput,
) (*mcp.CallToolResult, AddBlockOutput, error) {
	blockType, err := domain.ParseBlockType(input.Type)
	if err != nil {
		return nil, AddBlockOutput{}, err
	}

	block := s.ports.Workspace.NewBlock(blockType, input.Content)
	if input.AfterBlockID != "" {
		err = s.ports.Workspace.InsertBlockAfter(input.PageID, input.AfterBlockID, block)
	} else {
		err = s.ports.Workspace.AddBlock(input.PageID, block)
	}
	if err != nil {
		return nil, AddBlockOutput{}, err
	}

	return nil, AddBlockOutput{BlockID: block.ID}, nil
}

func (s *Server) handleUpdateBlock(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input UpdateBlockInput,
) (*mcp.CallToolResult, OKOutput, error) {
	content := input.Content
	err := s.ports.Workspace.UpdateBlock(input.PageID, input.BlockID, driving.BlockUpdate{Content: &content})
	if err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleDeleteBlock(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DeleteBlockInput,
) (*mcp.CallToolResult, OKOutput, error) {
	if err := s.ports.Workspace.DeleteBlock(input.PageID, input.BlockID); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func summarise(p domain.Page) PageSummary {
	children := p.Children
	if children == nil {
		children = []string{}
	}
	return PageSummary{
		ID:       p.ID,
		Title:    p.DisplayTitle(),
		Icon:     p.Icon,
		ParentID: p.ParentID,
		Children: children,
	}
}

func blockOutput(b domain.Block) BlockOutput {
	out := BlockOutput{
		ID:      b.ID,
		Type:    b.Type.String(),
		Content: b.Content,
	}
	switch p := b.Properties.(type) {
	case domain.CodeProperties:
		out.Language = p.Language
	case domain.ListProperties:
		out.Level = p.Level
	case domain.ImageProperties:
		out.URL = p.URL
		out.Caption = p.Caption
	}
	return out
}
