package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "console",
		Short:         "Staff scheduling console: booking requests, rosters and the admin bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newBotCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSubmitCmd())
	root.AddCommand(newPendingCmd())
	root.AddCommand(newRosterCmd())
	root.AddCommand(newAssignCmd())
	root.AddCommand(newCancelCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newConcludeCmd())
	root.AddCommand(newMemberCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
