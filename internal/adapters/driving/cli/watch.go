package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quire/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report changes made to the saved workspace",
	Long: `Follow the saved workspace and print a line each time another process
writes or removes it. Stop with Ctrl+C.

Not every storage backend can report changes.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if gateway == nil {
		return errors.New("persistence gateway not configured")
	}
	if notifier == nil {
		return errors.New("the configured storage backend cannot report changes")
	}

	key := storageKey
	if key == "" {
		key = domain.DefaultStorageKey
	}

	ctx := commandContext(cmd)
	st := stylesFor(cmd.OutOrStdout())
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", key)

	err := notifier.Watch(ctx, key, func() {
		stamp := st.Muted.Render(time.Now().Format("15:04:05"))
		ws, ok := gateway.Load(ctx)
		if !ok {
			if err := gateway.LastError(); err != nil {
				cmd.Printf("%s %s\n", stamp, st.Error.Render("unreadable: "+err.Error()))
				return
			}
			cmd.Printf("%s removed\n", stamp)
			return
		}
		cmd.Printf("%s changed: %d pages\n", stamp, ws.Len())
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
