package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quire/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the workspace for inconsistencies",
	Long: `Verify that page links, block ids, and timestamps are consistent and
report the last storage error, if any.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved workspace",
	Long: `Delete the saved workspace from storage. The next run starts again
from the welcome page.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetForce bool

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Do not ask for confirmation")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resetCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	st := stylesFor(cmd.OutOrStdout())
	snap := ws.Snapshot()
	blocks := 0
	for _, p := range snap.Pages {
		blocks += len(p.Blocks)
	}
	cmd.Printf("Pages:  %d\n", snap.Len())
	cmd.Printf("Blocks: %d\n", blocks)

	if gateway != nil {
		if err := gateway.LastError(); err != nil {
			cmd.Println(st.Warning.Render("Storage: " + err.Error()))
		}
	}

	err = snap.Validate()
	var problems domain.ValidationErrors
	if errors.As(err, &problems) {
		cmd.Println()
		for _, p := range problems {
			cmd.Println(st.Error.Render("  " + p.Error()))
		}
		return fmt.Errorf("workspace has %d problem(s)", len(problems))
	}
	if err != nil {
		return err
	}

	cmd.Println(st.Success.Render("Workspace is consistent"))
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	if gateway == nil {
		return errors.New("persistence gateway not configured")
	}

	if !resetForce {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to reset without --force")
		}
		cmd.Print("Delete the saved workspace? [y/N]: ")
		answer := strings.ToLower(readLine(bufio.NewReader(cmd.InOrStdin())))
		if answer != "y" && answer != "yes" {
			cmd.Println("Cancelled")
			return nil
		}
	}

	gateway.Clear(commandContext(cmd))
	if err := gateway.LastError(); err != nil {
		return fmt.Errorf("failed to reset workspace: %w", err)
	}
	cmd.Println("Workspace reset")
	return nil
}
