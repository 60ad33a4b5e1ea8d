package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huynhanx03/token-dispenser/cmd/dispenser/command"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(ctx).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand leaves error printing to main so each failure is reported once.
func newRootCommand(ctx context.Context) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "dispenser",
		Short:         "Token dispenser for a single service counter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		command.Serve{ConfigPath: &configPath}.Command(ctx),
		command.Simulate{ConfigPath: &configPath}.Command(ctx),
	)
	return root
}
