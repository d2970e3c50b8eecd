package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"roster/internal/application/reconciler"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printGrid renders one line per roster student in roster order.
func printGrid(w io.Writer, s reconciler.State) error {
	title := fmt.Sprintf("Room %d", s.Selection.Room)
	if act, ok := s.Activity(); ok {
		title += fmt.Sprintf(" - %s (%s, %s)", act.Name, act.ActivityDate, act.Kind())
	}
	fmt.Fprintln(w, title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTUDENT\tIN\tPLACE\tTEAM")
	active := 0
	for _, st := range s.Roster {
		row := s.Grid.Get(st.ID)
		in := ""
		if row.Participated {
			in = "x"
		}
		if row.IsActive() {
			active++
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", st.ID, st.DisplayName(), in, row.Position, row.TeamName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d participating\n", active, len(s.Roster))
	return err
}
