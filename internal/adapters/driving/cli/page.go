package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage pages",
	Long:  `List, show, create, rename, or delete pages in the workspace.`,
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all pages",
	Args:  cobra.NoArgs,
	RunE:  runPageList,
}

var pageTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the page tree",
	Args:  cobra.NoArgs,
	RunE:  runPageTree,
}

var pageShowCmd = &cobra.Command{
	Use:   "show [page-id]",
	Short: "Show a page and its blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageShow,
}

var pageCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a page",
	Long: `Create a page with a single empty paragraph.

Use --parent to nest it under another page. An unknown parent creates a
top-level page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPageCreate,
}

var pageRenameCmd = &cobra.Command{
	Use:   "rename [page-id] [title]",
	Short: "Rename a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runPageRename,
}

var pageIconCmd = &cobra.Command{
	Use:   "icon [page-id] [icon]",
	Short: "Set or clear a page icon",
	Long:  `Set the page icon, usually a single emoji. Omit the icon to clear it.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPageIcon,
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete [page-id]",
	Short: "Delete a page and its sub-pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageDelete,
}

// Flags for page create.
var (
	pageParent string
	pageIcon   string
)

func init() {
	pageCreateCmd.Flags().StringVarP(&pageParent, "parent", "p", "", "Parent page id")
	pageCreateCmd.Flags().StringVarP(&pageIcon, "icon", "i", "", "Page icon")

	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageTreeCmd)
	pageCmd.AddCommand(pageShowCmd)
	pageCmd.AddCommand(pageCreateCmd)
	pageCmd.AddCommand(pageRenameCmd)
	pageCmd.AddCommand(pageIconCmd)
	pageCmd.AddCommand(pageDeleteCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageList(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	snap := ws.Snapshot()
	for _, id := range snap.PageOrder {
		page := snap.Pages[id]
		cmd.Printf("%-40s %s\n", page.ID, pageLabel(page))
	}
	cmd.Printf("\nTotal: %d pages\n", snap.Len())
	return nil
}

func runPageTree(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	st := stylesFor(cmd.OutOrStdout())
	root := tree.New().EnumeratorStyle(st.Enumerator)
	for _, page := range ws.RootPages() {
		root.Child(pageNode(ws, page, st))
	}
	cmd.Println(root.String())
	return nil
}

// pageNode renders a page and its descendants as a tree node.
func pageNode(ws driving.WorkspaceService, page domain.Page, st *Styles) any {
	label := pageLabel(page) + " " + st.Muted.Render(page.ID)
	children := ws.ChildPages(page.ID)
	if len(children) == 0 {
		return label
	}
	node := tree.Root(label).EnumeratorStyle(st.Enumerator)
	for _, child := range children {
		node.Child(pageNode(ws, child, st))
	}
	return node
}

func runPageShow(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	page, ok := ws.GetPageByID(args[0])
	if !ok {
		return fmt.Errorf("page %s: %w", args[0], domain.ErrNotFound)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render(pageLabel(page)))
	cmd.Printf("  ID:       %s\n", page.ID)
	if page.ParentID != "" {
		cmd.Printf("  Parent:   %s\n", page.ParentID)
	}
	if len(page.Children) > 0 {
		cmd.Printf("  Children: %d\n", len(page.Children))
	}
	cmd.Printf("  Created:  %s\n", page.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", page.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Println()

	for i, b := range page.Blocks {
		cmd.Printf("%3d  %s  %s  %s\n", i, st.Muted.Render(b.ID), st.Label.Render(b.Type.Label()), blockSummary(b, st))
	}
	return nil
}

func runPageCreate(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	title := ""
	if len(args) == 1 {
		title = args[0]
	}
	page, err := ws.CreateNewPage(title, pageParent)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	if pageIcon != "" {
		if err := ws.UpdatePage(page.ID, driving.PageUpdate{Icon: &pageIcon}); err != nil {
			return fmt.Errorf("failed to set icon: %w", err)
		}
	}

	cmd.Printf("Created page %s\n", page.ID)
	return nil
}

func runPageRename(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	title := args[1]
	if err := ws.UpdatePage(args[0], driving.PageUpdate{Title: &title}); err != nil {
		return fmt.Errorf("failed to rename page: %w", err)
	}
	cmd.Printf("Renamed page %s\n", args[0])
	return nil
}

func runPageIcon(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	icon := ""
	if len(args) == 2 {
		icon = args[1]
	}
	if err := ws.UpdatePage(args[0], driving.PageUpdate{Icon: &icon}); err != nil {
		return fmt.Errorf("failed to set icon: %w", err)
	}
	if icon == "" {
		cmd.Printf("Cleared icon of page %s\n", args[0])
	} else {
		cmd.Printf("Set icon of page %s to %s\n", args[0], icon)
	}
	return nil
}

func runPageDelete(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	if err := ws.DeletePage(args[0]); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	cmd.Printf("Deleted page %s\n", args[0])
	return nil
}

// pageLabel returns the icon and display title of a page.
func pageLabel(p domain.Page) string {
	if p.Icon == "" {
		return p.DisplayTitle()
	}
	return p.Icon + " " + p.DisplayTitle()
}
