package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/custodia-labs/quire/internal/core/domain"
)

// timestampPattern is the ISO-8601 prefix every persisted timestamp must carry.
var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

// Wire types mirror the persisted JSON layout:
// {"pages": {"<id>": {...}}, "pageOrder": ["<id>", ...]}.
type wireWorkspace struct {
	Pages     map[string]wirePage `json:"pages"`
	PageOrder []string            `json:"pageOrder"`
}

type wirePage struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Icon       string      `json:"icon,omitempty"`
	Blocks     []wireBlock `json:"blocks"`
	ParentID   string      `json:"parentId,omitempty"`
	Children   []string    `json:"children"`
	CreatedAt  string      `json:"createdAt"`
	UpdatedAt  string      `json:"updatedAt"`
	IsExpanded bool        `json:"isExpanded,omitempty"`
}

type wireBlock struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Content    string          `json:"content"`
	Properties *wireProperties `json:"properties,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}

type wireProperties struct {
	Language *string `json:"language,omitempty"`
	Level    *int    `json:"level,omitempty"`
	URL      *string `json:"url,omitempty"`
	Caption  *string `json:"caption,omitempty"`
}

// EncodeWorkspace serialises a workspace to its persisted JSON form.
// Timestamps are written as RFC 3339 in UTC with nanosecond precision.
func EncodeWorkspace(ws *domain.Workspace) ([]byte, error) {
	if ws == nil {
		return nil, fmt.Errorf("%w: nil workspace", domain.ErrInvalidInput)
	}
	out := wireWorkspace{
		Pages:     make(map[string]wirePage, len(ws.Pages)),
		PageOrder: ws.PageOrder,
	}
	if out.PageOrder == nil {
		out.PageOrder = []string{}
	}
	for id, p := range ws.Pages {
		out.Pages[id] = encodePage(p)
	}
	return json.Marshal(out)
}

// DecodeWorkspace parses the persisted JSON form.
func DecodeWorkspace(data []byte) (*domain.Workspace, error) {
	var in wireWorkspace
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing workspace: %w", err)
	}
	if in.Pages == nil {
		return nil, fmt.Errorf("%w: workspace has no pages", domain.ErrInvalidInput)
	}

	ws := &domain.Workspace{
		Pages:     make(map[string]domain.Page, len(in.Pages)),
		PageOrder: in.PageOrder,
	}
	if ws.PageOrder == nil {
		ws.PageOrder = []string{}
	}
	for id, wp := range in.Pages {
		p, err := decodePage(wp)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", id, err)
		}
		ws.Pages[id] = p
	}
	return ws, nil
}

func encodePage(p domain.Page) wirePage {
	wp := wirePage{
		ID:         p.ID,
		Title:      p.Title,
		Icon:       p.Icon,
		Blocks:     make([]wireBlock, 0, len(p.Blocks)),
		ParentID:   p.ParentID,
		Children:   p.Children,
		CreatedAt:  formatTimestamp(p.CreatedAt),
		UpdatedAt:  formatTimestamp(p.UpdatedAt),
		IsExpanded: p.IsExpanded,
	}
	if wp.Children == nil {
		wp.Children = []string{}
	}
	for _, b := range p.Blocks {
		wp.Blocks = append(wp.Blocks, wireBlock{
			ID:         b.ID,
			Type:       string(b.Type),
			Content:    b.Content,
			Properties: encodeProperties(b.Properties),
			CreatedAt:  formatTimestamp(b.CreatedAt),
			UpdatedAt:  formatTimestamp(b.UpdatedAt),
		})
	}
	return wp
}

func decodePage(wp wirePage) (domain.Page, error) {
	created, err := parseTimestamp(wp.CreatedAt)
	if err != nil {
		return domain.Page{}, fmt.Errorf("createdAt: %w", err)
	}
	updated, err := parseTimestamp(wp.UpdatedAt)
	if err != nil {
		return domain.Page{}, fmt.Errorf("updatedAt: %w", err)
	}

	p := domain.Page{
		ID:         wp.ID,
		Title:      wp.Title,
		Icon:       wp.Icon,
		Blocks:     make([]domain.Block, 0, len(wp.Blocks)),
		ParentID:   wp.ParentID,
		Children:   wp.Children,
		CreatedAt:  created,
		UpdatedAt:  updated,
		IsExpanded: wp.IsExpanded,
	}
	if p.Children == nil {
		p.Children = []string{}
	}
	for _, wb := range wp.Blocks {
		b, err := decodeBlock(wb)
		if err != nil {
			return domain.Page{}, fmt.Errorf("block %s: %w", wb.ID, err)
		}
		p.Blocks = append(p.Blocks, b)
	}
	return p, nil
}

func decodeBlock(wb wireBlock) (domain.Block, error) {
	bt := domain.BlockType(wb.Type)
	if !bt.IsValid() {
		return domain.Block{}, fmt.Errorf("%w: block type %q", domain.ErrUnsupportedType, wb.Type)
	}
	created, err := parseTimestamp(wb.CreatedAt)
	if err != nil {
		return domain.Block{}, fmt.Errorf("createdAt: %w", err)
	}
	updated, err := parseTimestamp(wb.UpdatedAt)
	if err != nil {
		return domain.Block{}, fmt.Errorf("updatedAt: %w", err)
	}
	return domain.Block{
		ID:         wb.ID,
		Type:       bt,
		Content:    wb.Content,
		Properties: decodeProperties(bt, wb.Properties),
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

// encodeProperties flattens the tagged variant into the shared wire object.
func encodeProperties(props domain.BlockProperties) *wireProperties {
	switch p := props.(type) {
	case domain.CodeProperties:
		return &wireProperties{Language: &p.Language}
	case domain.ListProperties:
		return &wireProperties{Level: &p.Level}
	case domain.ImageProperties:
		return &wireProperties{URL: &p.URL, Caption: &p.Caption}
	default:
		return nil
	}
}

// decodeProperties picks the variant from the block type. Keys that do not
// belong to the type are ignored; a missing object yields the type's zero variant.
// A negative list level is read as 0.
func decodeProperties(bt domain.BlockType, wp *wireProperties) domain.BlockProperties {
	if wp == nil {
		wp = &wireProperties{}
	}
	switch bt {
	case domain.BlockCode:
		if wp.Language == nil {
			return nil
		}
		return domain.CodeProperties{Language: *wp.Language}
	case domain.BlockBulletList, domain.BlockNumberedList:
		if wp.Level == nil {
			return nil
		}
		return domain.ListProperties{Level: max(*wp.Level, 0)}
	case domain.BlockImage:
		if wp.URL == nil && wp.Caption == nil {
			return nil
		}
		var img domain.ImageProperties
		if wp.URL != nil {
			img.URL = *wp.URL
		}
		if wp.Caption != nil {
			img.Caption = *wp.Caption
		}
		return img
	case domain.BlockParagraph, domain.BlockHeading1, domain.BlockHeading2, domain.BlockHeading3,
		domain.BlockQuote, domain.BlockDivider:
		return nil
	default:
		return nil
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	if !timestampPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 timestamp", domain.ErrInvalidInput, s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return t.UTC(), nil
}
