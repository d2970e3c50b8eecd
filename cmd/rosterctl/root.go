package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"roster/internal/adapters/client"
	"roster/internal/application/reconciler"
	"roster/internal/config"
)

// app carries what every command needs once flags are parsed.
type app struct {
	serverURL  string
	configPath string
	jsonOutput bool
	verbose    bool

	cfg    config.CLIConfig
	client *client.HTTPClient
}

func newRootCmd() *cobra.Command {
	a := &app{}
	defaultConfig, _ := config.DefaultCLIConfigPath()

	root := &cobra.Command{
		Use:          "rosterctl",
		Short:        "Mark activity participation for a room from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			cfg, err := config.LoadCLI(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = a.serverURL
			}
			a.cfg = cfg
			a.client = client.NewHTTPClient(cfg.ServerURL, client.WithTimeout(cfg.Timeout.Duration))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "roster API base URL (default from config or ROSTER_SERVER)")
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfig, "path to the rosterctl TOML config")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newYearsCmd(a),
		newRoomsCmd(a),
		newActivitiesCmd(a),
		newGridCmd(a),
		newSetCmd(a),
		newMarkAllCmd(a),
		newClearPositionsCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
	)
	return root
}

// contextFlags are the selection flags shared by grid-level commands.
type contextFlags struct {
	year       string
	room       int
	activityID int64
}

func (f *contextFlags) register(cmd *cobra.Command, needActivity bool) {
	cmd.Flags().StringVar(&f.year, "year", "", "school year filter, e.g. 2025-2026 (default from config)")
	cmd.Flags().IntVar(&f.room, "room", 0, "room number")
	cmd.Flags().Int64Var(&f.activityID, "activity", 0, "activity id")
	_ = cmd.MarkFlagRequired("room")
	if needActivity {
		_ = cmd.MarkFlagRequired("activity")
	}
}

// open builds a Reconciler and loads the selected context into it.
func (a *app) open(ctx context.Context, f contextFlags) (*reconciler.Reconciler, error) {
	year := f.year
	if year == "" {
		year = a.cfg.DefaultYear
	}
	r := reconciler.New(a.client, reconciler.WithYear(year))
	r.Subscribe(func(s reconciler.State) {
		slog.Debug("state_changed",
			"generation", s.Generation,
			"room", s.Selection.Room,
			"activity_id", s.Selection.ActivityID,
			"rows", s.Grid.Len(),
			"loading", s.Loading,
		)
	})

	if err := r.LoadLookups(ctx); err != nil {
		return nil, err
	}
	if f.room <= 0 {
		return nil, fmt.Errorf("--room must be a positive integer")
	}
	if err := r.SelectRoom(ctx, f.room); err != nil {
		return nil, err
	}
	if f.activityID != 0 {
		if err := r.SelectActivity(ctx, f.activityID); err != nil {
			return nil, err
		}
		if _, ok := r.State().Activity(); !ok {
			return nil, fmt.Errorf("activity %d not found (hidden or unknown)", f.activityID)
		}
	}
	return r, nil
}

// save submits the grid and prints the outcome.
func (a *app) save(cmd *cobra.Command, r *reconciler.Reconciler) error {
	res, err := r.Save(cmd.Context())
	if err != nil {
		return err
	}
	if a.jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved: %d stored, %d removed\n", res.Upserted, res.Deleted)
	return printGrid(cmd.OutOrStdout(), r.State())
}

func stdinFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.InOrStdin().(*os.File)
	return f
}
