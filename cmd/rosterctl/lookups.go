package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List school years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			years, err := a.client.ListYears(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), years)
			}
			for _, y := range years {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	}
}

func newRoomsCmd(a *app) *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms, optionally for one school year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == "" {
				year = a.cfg.DefaultYear
			}
			rooms, err := a.client.ListRooms(cmd.Context(), year)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rooms)
			}
			for _, r := range rooms {
				fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(r))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "school year filter")
	return cmd
}

func newActivitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List visible activities, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acts, err := a.client.ListActivities(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), acts)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tKIND\tNAME")
			for _, act := range acts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", act.ID, act.ActivityDate, act.Kind(), act.Name)
			}
			return w.Flush()
		},
	}
}
