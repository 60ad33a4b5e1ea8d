package command

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
	"github.com/huynhanx03/token-dispenser/pkg/settings"
	"github.com/huynhanx03/token-dispenser/pkg/simulator"
)

// Simulate runs an interactive dispenser on stdin and stdout.
type Simulate struct {
	ConfigPath *string
}

func (cmd Simulate) Command(ctx context.Context) *cobra.Command {
	var capacity int

	c := &cobra.Command{
		Use:   "simulate",
		Short: "drive a dispenser interactively from the terminal",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := settings.Load(*cmd.ConfigPath)
			if err != nil {
				return err
			}
			if capacity > 0 {
				cfg.Dispenser.Capacity = capacity
			}

			d := dispenser.New(cfg.Dispenser, dispenser.WithLogger(zap.NewNop()))
			return simulator.NewConsole(d, c.OutOrStdout()).Run(ctx, c.InOrStdin())
		},
	}
	c.Flags().IntVar(&capacity, "capacity", 0, "override the waiting list capacity")
	return c
}
