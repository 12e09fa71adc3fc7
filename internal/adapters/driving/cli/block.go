package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
)

// summaryWidth is the maximum number of runes shown per block in page show.
const summaryWidth = 60

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage blocks within a page",
	Long:  `Add, edit, delete, or move the blocks that make up a page.`,
}

var blockAddCmd = &cobra.Command{
	Use:   "add [page-id] [type] [content]",
	Short: "Add a block to a page",
	Long: `Add a block of the given type. The type is a name such as "heading1"
or a shortcut such as "h1"; run 'quire block types' for the full list.

The block is appended unless --after or --index is given.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runBlockAdd,
}

var blockEditCmd = &cobra.Command{
	Use:   "edit [page-id] [block-id] [content]",
	Short: "Edit a block's content or properties",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runBlockEdit,
}

var blockDeleteCmd = &cobra.Command{
	Use:   "delete [page-id] [block-id]",
	Short: "Delete a block",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlockDelete,
}

var blockMoveCmd = &cobra.Command{
	Use:   "move [page-id] [from] [to]",
	Short: "Move a block to another position",
	Long:  `Move the block at index from to index to. Both must address existing blocks.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runBlockMove,
}

var blockTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List block types",
	Args:  cobra.NoArgs,
	Run:   runBlockTypes,
}

// Flags for block add and edit.
var (
	blockAfter    string
	blockIndex    int
	blockLanguage string
	blockLevel    int
	blockURL      string
	blockCaption  string
)

func init() {
	blockAddCmd.Flags().StringVar(&blockAfter, "after", "", "Insert after this block id")
	blockAddCmd.Flags().IntVar(&blockIndex, "index", -1, "Insert at this position")
	for _, c := range []*cobra.Command{blockAddCmd, blockEditCmd} {
		c.Flags().StringVar(&blockLanguage, "language", "", "Code block language")
		c.Flags().IntVar(&blockLevel, "level", 0, "List nesting level")
		c.Flags().StringVar(&blockURL, "url", "", "Image URL")
		c.Flags().StringVar(&blockCaption, "caption", "", "Image caption")
	}

	blockCmd.AddCommand(blockAddCmd)
	blockCmd.AddCommand(blockEditCmd)
	blockCmd.AddCommand(blockDeleteCmd)
	blockCmd.AddCommand(blockMoveCmd)
	blockCmd.AddCommand(blockTypesCmd)
	rootCmd.AddCommand(blockCmd)
}

func runBlockAdd(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	pageID := args[0]
	blockType, err := domain.ParseBlockType(args[1])
	if err != nil {
		return err
	}
	content := ""
	if len(args) == 3 {
		content = args[2]
	}
	if content != "" && !blockType.CanHaveContent() {
		return fmt.Errorf("%w: %s blocks have no content", domain.ErrInvalidInput, blockType)
	}

	block := ws.NewBlock(blockType, content)
	block.Properties = applyPropertyFlags(cmd, block.Properties)

	switch {
	case blockAfter != "":
		err = ws.InsertBlockAfter(pageID, blockAfter, block)
	case blockIndex >= 0:
		err = ws.InsertBlock(pageID, block, blockIndex)
	default:
		err = ws.AddBlock(pageID, block)
	}
	if err != nil {
		return fmt.Errorf("failed to add block: %w", err)
	}

	cmd.Printf("Added %s block %s\n", blockType.Label(), block.ID)
	return nil
}

func runBlockEdit(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	pageID, blockID := args[0], args[1]
	page, ok := ws.GetPageByID(pageID)
	if !ok {
		return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	i := page.BlockIndex(blockID)
	if i < 0 {
		return fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
	}
	current := page.Blocks[i]

	var update driving.BlockUpdate
	if len(args) == 3 {
		update.Content = &args[2]
	}
	if propertyFlagsChanged(cmd) {
		props := current.Properties
		if props == nil {
			props = domain.DefaultProperties(current.Type)
		}
		update.Properties = applyPropertyFlags(cmd, props)
	}
	if update.Content == nil && update.Properties == nil {
		return fmt.Errorf("%w: nothing to change", domain.ErrInvalidInput)
	}

	if err := ws.UpdateBlock(pageID, blockID, update); err != nil {
		return fmt.Errorf("failed to edit block: %w", err)
	}
	cmd.Printf("Updated block %s\n", blockID)
	return nil
}

func runBlockDelete(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	if err := ws.DeleteBlock(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	cmd.Printf("Deleted block %s\n", args[1])
	return nil
}

func runBlockMove(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: from index %q", domain.ErrInvalidInput, args[1])
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: to index %q", domain.ErrInvalidInput, args[2])
	}

	if err := ws.ReorderBlocks(args[0], from, to); err != nil {
		return fmt.Errorf("failed to move block: %w", err)
	}
	cmd.Printf("Moved block from %d to %d\n", from, to)
	return nil
}

func runBlockTypes(cmd *cobra.Command, _ []string) {
	for _, t := range domain.BlockTypes {
		cmd.Printf("  %-14s %-6s %s\n", t, t.Shortcut(), t.Label())
	}
}

// propertyFlagsChanged reports whether any property flag was given.
func propertyFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"language", "level", "url", "caption"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// applyPropertyFlags overlays the property flags the user set onto props.
// Flags that do not fit the variant are ignored.
func applyPropertyFlags(cmd *cobra.Command, props domain.BlockProperties) domain.BlockProperties {
	flags := cmd.Flags()
	switch p := props.(type) {
	case domain.CodeProperties:
		if flags.Changed("language") {
			p.Language = blockLanguage
		}
		return p
	case domain.ListProperties:
		if flags.Changed("level") {
			p.Level = max(blockLevel, 0)
		}
		return p
	case domain.ImageProperties:
		if flags.Changed("url") {
			p.URL = blockURL
		}
		if flags.Changed("caption") {
			p.Caption = blockCaption
		}
		return p
	default:
		return props
	}
}

// blockSummary renders a one-line preview of a block.
func blockSummary(b domain.Block, st *Styles) string {
	switch p := b.Properties.(type) {
	case domain.CodeProperties:
		return fmt.Sprintf("[%s] %s", p.Language, preview(b, st))
	case domain.ListProperties:
		return strings.Repeat("  ", max(p.Level, 0)) + preview(b, st)
	case domain.ImageProperties:
		return p.URL + " " + st.Muted.Render(truncate(p.Caption))
	}
	if b.Type == domain.BlockDivider {
		return st.Muted.Render("---")
	}
	return preview(b, st)
}

// preview returns the first line of content, or the placeholder when empty.
func preview(b domain.Block, st *Styles) string {
	if b.Content == "" {
		return st.Muted.Render(b.Placeholder())
	}
	line, _, _ := strings.Cut(b.Content, "\n")
	return truncate(line)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= summaryWidth {
		return s
	}
	return string(r[:summaryWidth-3]) + "..."
}
