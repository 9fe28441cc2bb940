package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

func (a *app) stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the building and its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, st, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sh.Close()

			printState(cmd, st)
			return failed(st)
		},
	}
}

// simpleCmd runs one shell action that needs no arguments.
func (a *app) simpleCmd(use, short string, action shell.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, st, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sh.Close()
			if err := failed(st); err != nil {
				return err
			}

			st, err = do(cmd.Context(), sh, shell.Command{Action: action})
			if err != nil {
				return err
			}
			printState(cmd, st)
			return failed(st)
		},
	}
}

func (a *app) setupCmd() *cobra.Command {
	var req types.SetupRequest

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Build a new building (defaults to the last setup used)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			saved := a.prefs.Setup()
			if !cmd.Flags().Changed("floors") {
				req.Floors = saved.Floors
			}
			if !cmd.Flags().Changed("rooms") {
				req.RoomsPerFloor = saved.RoomsPerFloor
			}
			if !cmd.Flags().Changed("zombies") {
				req.InitialZombies = min(saved.InitialZombies, view.MaxInitialZombies(req.Floors, req.RoomsPerFloor))
			}
			if err := view.Validate(req); err != nil {
				return err
			}

			sh, st, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sh.Close()

			st, err = do(cmd.Context(), sh, shell.Command{Action: shell.ActSetup, Setup: &req})
			if err != nil {
				return err
			}
			printState(cmd, st)
			if err := failed(st); err != nil {
				return err
			}
			return a.prefs.Save(req)
		},
	}

	def := view.DefaultSetup()
	cmd.Flags().IntVar(&req.Floors, "floors", def.Floors, fmt.Sprintf("Number of floors (%d-%d)", view.MinFloors, view.MaxFloors))
	cmd.Flags().IntVar(&req.RoomsPerFloor, "rooms", def.RoomsPerFloor, fmt.Sprintf("Rooms per floor (%d-%d)", view.MinRoomsPerFloor, view.MaxRoomsPerFloor))
	cmd.Flags().IntVar(&req.InitialZombies, "zombies", def.InitialZombies, fmt.Sprintf("Initial zombies (0-%d)", view.MaxZombies))
	return cmd
}

// roomCmd selects --floor/--room and then runs action on it.
func (a *app) roomCmd(use, short string, action shell.Action) *cobra.Command {
	var pos types.Position

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, st, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sh.Close()
			if err := failed(st); err != nil {
				return err
			}
			if !st.Snapshot.Has(pos) {
				return fmt.Errorf("%w: %s", shell.ErrUnknownRoom, pos.Label())
			}

			if _, err := do(cmd.Context(), sh, shell.Command{Action: shell.ActSelect, Position: &pos}); err != nil {
				return err
			}
			st, err = do(cmd.Context(), sh, shell.Command{Action: action})
			if err != nil {
				return err
			}
			printState(cmd, st)
			return failed(st)
		},
	}

	cmd.Flags().IntVar(&pos.Floor, "floor", 0, "Floor index (0 = ground floor)")
	cmd.Flags().IntVar(&pos.Room, "room", 0, "Room number (0 = staircase)")
	_ = cmd.MarkFlagRequired("floor")
	_ = cmd.MarkFlagRequired("room")
	return cmd
}

func (a *app) secretWeaponCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret-weapon",
		Short: "Use the secret weapon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, _, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sh.Close()

			st, err := do(cmd.Context(), sh, shell.Command{Action: shell.ActSecretWeapon})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderNotice(st.Notification))
			fmt.Fprintln(cmd.OutOrStdout(), st.Redirect)
			return nil
		},
	}
}

// autoRunCmd sets the server's auto-run flag directly; the CLI has no
// long-lived state to toggle.
func (a *app) autoRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "auto-run on|off",
		Short:     "Switch the simulation's automatic mode",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on := args[0] == "on"
			res, err := a.client.AutoRun(cmd.Context(), on)
			if err != nil {
				a.log.Debug("auto-run failed", zap.Error(err))
				return fmt.Errorf("%s: %w", shell.FailureMessage(shell.ActAutoRun), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), shell.AutoRunMessage(res.AutoRunning))
			return nil
		},
	}
}
