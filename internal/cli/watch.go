package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
)

const clearScreen = "\033[H\033[2J"

// watchCmd turns on auto-run and redraws on every state change until
// interrupted, then switches auto-run off again.
func (a *app) watchCmd() *cobra.Command {
	var noClear bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the simulation automatically and redraw on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sh, _, err := a.session(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
			defer sh.Close()

			out := make(chan shell.Update, 16)
			if err := sh.Send(ctx, shell.Join{ClientID: uuid.NewString(), Outbox: out}); err != nil {
				return err
			}
			if err := sh.Send(ctx, shell.Command{Action: shell.ActAutoRun}); err != nil {
				return err
			}
			defer a.stopAutoRun()

			for {
				select {
				case <-ctx.Done():
					return nil
				case u, ok := <-out:
					if !ok {
						return nil
					}
					if u.State.Loading {
						continue
					}
					if !noClear {
						fmt.Fprint(cmd.OutOrStdout(), clearScreen)
					}
					printState(cmd, u.State)
					if u.State.Snapshot != nil && u.State.Snapshot.GameOver {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of redrawing")
	return cmd
}

func (a *app) stopAutoRun() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := a.client.AutoRun(ctx, false); err != nil {
		a.log.Warn("failed to stop auto-run", zap.Error(err))
	}
}
