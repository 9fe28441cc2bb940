// Package cli implements zombiectl, a terminal client for the simulation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/config"
	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/internal/prefs"
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/simapi"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath string // --config
	apiURL     string // --api, overrides SIM_API_URL
	logLevel   string // --log

	cfg    config.Config
	log    *zap.Logger
	client *simapi.Client
	prefs  *prefs.Store
}

func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:               "zombiectl",
		Short:             "Drive and watch the zombie building simulation",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "Simulation API base URL")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.stateCmd(),
		a.setupCmd(),
		a.simpleCmd("advance", "Advance one turn", shell.ActAdvance),
		a.simpleCmd("add-zombie", "Add a zombie to a random clean room", shell.ActAddZombie),
		a.simpleCmd("add-practicante", "Place the practicante", shell.ActAddPracticante),
		a.roomCmd("clean", "Clean a room", shell.ActCleanRoom),
		a.roomCmd("reset-sensor", "Reset a room's sensor", shell.ActResetSensor),
		a.simpleCmd("toggle-generation", "Toggle zombie generation", shell.ActToggleZombieGeneration),
		a.secretWeaponCmd(),
		a.autoRunCmd(),
		a.simpleCmd("reset", "Reset the simulation", shell.ActReset),
		a.watchCmd(),
	)
	return root
}

// Execute runs zombiectl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.client = simapi.NewClient(cfg.APIBaseURL, simapi.WithTimeout(cfg.RequestTimeout), simapi.WithLogger(log))
	if cfg.PrefsApp != "" {
		a.prefs = prefs.Open(cfg.PrefsApp, log)
	} else {
		a.prefs = prefs.New(nil, log)
	}
	return nil
}

// session starts a shell on the configured API and waits for its first load.
// The caller must Close the shell.
func (a *app) session(ctx context.Context, opts ...shell.Option) (*shell.Shell, shell.State, error) {
	opts = append([]shell.Option{shell.WithLogger(a.log), shell.WithPollInterval(a.cfg.PollInterval)}, opts...)
	sh := shell.New(ctx, a.client, opts...)

	st, err := settle(ctx, sh)
	if err != nil {
		sh.Close()
		return nil, shell.State{}, err
	}
	return sh, st, nil
}

// do sends cmd and waits until the shell has no request in flight.
func do(ctx context.Context, sh *shell.Shell, cmd shell.Command) (shell.State, error) {
	if err := sh.Send(ctx, cmd); err != nil {
		return shell.State{}, err
	}
	return settle(ctx, sh)
}

func settle(ctx context.Context, sh *shell.Shell) (shell.State, error) {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for {
		v, err := sh.View(ctx)
		if err != nil {
			return shell.State{}, err
		}
		if !v.State.Loading {
			return v.State, nil
		}
		select {
		case <-ctx.Done():
			return shell.State{}, ctx.Err()
		case <-t.C:
		}
	}
}

// failed turns the state's error banner into the command's error.
func failed(st shell.State) error {
	if st.Error == "" {
		return nil
	}
	return errors.New(st.Error)
}

func printState(cmd *cobra.Command, st shell.State) {
	fmt.Fprintln(cmd.OutOrStdout(), RenderState(st))
}
