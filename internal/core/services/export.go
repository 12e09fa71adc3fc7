package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
	"github.com/custodia-labs/quire/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driving.ExportService = (*Exporter)(nil)

// Exporter converts the workspace to and from portable formats.
type Exporter struct {
	store driving.WorkspaceService
}

// NewExporter creates an exporter over store.
func NewExporter(store driving.WorkspaceService) *Exporter {
	return &Exporter{store: store}
}

// Markdown renders a page as Markdown.
func (e *Exporter) Markdown(pageID string) (string, error) {
	page, ok := e.store.GetPageByID(pageID)
	if !ok {
		return "", fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}

	var sb strings.Builder
	sb.WriteString("# ")
	if page.Icon != "" {
		sb.WriteString(page.Icon)
		sb.WriteString(" ")
	}
	sb.WriteString(page.DisplayTitle())
	sb.WriteString("\n\n")

	ordinal := 0
	for i, b := range page.Blocks {
		if b.Type == domain.BlockNumberedList {
			ordinal++
		} else {
			ordinal = 0
		}
		sb.WriteString(renderBlock(b, ordinal))
		// consecutive list items stay together
		if i+1 < len(page.Blocks) && isList(b.Type) && page.Blocks[i+1].Type == b.Type {
			sb.WriteString("\n")
		} else {
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// JSON returns the persisted form of the current workspace.
func (e *Exporter) JSON() ([]byte, error) {
	return EncodeWorkspace(e.store.Snapshot())
}

// Import decodes data and replaces the whole workspace with it.
func (e *Exporter) Import(_ context.Context, data []byte) error {
	ws, err := DecodeWorkspace(data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := ws.Validate(); err != nil {
		logger.Warn("imported workspace has inconsistencies: %v", err)
	}
	if err := e.store.Replace(ws); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	logger.Info("Imported %d page(s)", ws.Len())
	return nil
}

func renderBlock(b domain.Block, ordinal int) string {
	switch b.Type {
	case domain.BlockParagraph:
		return b.Content
	case domain.BlockHeading1:
		return "# " + b.Content
	case domain.BlockHeading2:
		return "## " + b.Content
	case domain.BlockHeading3:
		return "### " + b.Content
	case domain.BlockBulletList:
		return listIndent(b) + "- " + b.Content
	case domain.BlockNumberedList:
		return fmt.Sprintf("%s%d. %s", listIndent(b), ordinal, b.Content)
	case domain.BlockQuote:
		return "> " + strings.ReplaceAll(b.Content, "\n", "\n> ")
	case domain.BlockCode:
		lang := ""
		if p, ok := b.Properties.(domain.CodeProperties); ok {
			lang = p.Language
		}
		return "```" + lang + "\n" + b.Content + "\n```"
	case domain.BlockDivider:
		return "---"
	case domain.BlockImage:
		img, _ := b.Properties.(domain.ImageProperties)
		alt := img.Caption
		if alt == domain.DefaultImageCaption {
			alt = ""
		}
		return fmt.Sprintf("![%s](%s)", alt, img.URL)
	default:
		return b.Content
	}
}

func listIndent(b domain.Block) string {
	if p, ok := b.Properties.(domain.ListProperties); ok && p.Level > 0 {
		return strings.Repeat("  ", p.Level)
	}
	return ""
}

func isList(t domain.BlockType) bool {
	return t == domain.BlockBulletList || t == domain.BlockNumberedList
}
