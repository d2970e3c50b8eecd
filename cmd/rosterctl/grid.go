package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"roster/internal/domain/participation"
	"roster/internal/domain/student"
)

func newGridCmd(a *app) *cobra.Command {
	var f contextFlags
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the confirmed participation grid for a room and activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open(cmd.Context(), f)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), r.Export())
			}
			return printGrid(cmd.OutOrStdout(), r.State())
		},
	}
	f.register(cmd, true)
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	var (
		f            contextFlags
		studentID    int64
		participated bool
		position     string
		team         string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one student's row and save",
		Example: `  rosterctl set --room 4 --activity 11 --student 7 --position 1 --team Owls
  rosterctl set --room 4 --activity 10 --student 7 --participated=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("participated") && !flags.Changed("position") && !flags.Changed("team") {
				return errors.New("nothing to change: pass --participated, --position or --team")
			}
			var pos participation.Position
			if flags.Changed("position") {
				p, err := participation.ParsePosition(position)
				if err != nil {
					return err
				}
				pos = p
			}

			r, err := a.open(cmd.Context(), f)
			if err != nil {
				return err
			}
			if !rosterHas(r.State().Roster, studentID) {
				return fmt.Errorf("student %d is not in room %d", studentID, f.room)
			}
			if flags.Changed("participated") {
				if err := r.SetParticipated(studentID, participated); err != nil {
					return err
				}
			}
			if flags.Changed("position") {
				if err := r.SetPosition(studentID, pos); err != nil {
					return err
				}
			}
			if flags.Changed("team") {
				if err := r.SetTeamName(studentID, team); err != nil {
					return err
				}
			}
			return a.save(cmd, r)
		},
	}
	f.register(cmd, true)
	cmd.Flags().Int64Var(&studentID, "student", 0, "student id")
	cmd.Flags().BoolVar(&participated, "participated", true, "mark or unmark participation")
	cmd.Flags().StringVar(&position, "position", "", "placing: 1, 2, 3 or 0 to clear")
	cmd.Flags().StringVar(&team, "team", "", "team name (team activities)")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func newMarkAllCmd(a *app) *cobra.Command {
	var (
		f     contextFlags
		value bool
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "mark-all",
		Short: "Mark (or with --value=false clear) every student in the room and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !value && !yes {
				ok, err := confirm(stdinFile(cmd), cmd.InOrStdin(), cmd.ErrOrStderr(),
					fmt.Sprintf("Clear participation and placings for everyone in room %d?", f.room))
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("aborted")
				}
			}
			r, err := a.open(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := r.MarkAll(value); err != nil {
				return err
			}
			return a.save(cmd, r)
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&value, "value", true, "participation value to set for everyone")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newClearPositionsCmd(a *app) *cobra.Command {
	var f contextFlags
	cmd := &cobra.Command{
		Use:   "clear-positions",
		Short: "Drop every placing in the room, keep participation, and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := r.ClearPositions(); err != nil {
				return err
			}
			return a.save(cmd, r)
		},
	}
	f.register(cmd, true)
	return cmd
}

// isTerminal is swapped in tests.
var isTerminal = func(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question on an interactive terminal. Non-interactive
// input is refused so scripts must pass --yes explicitly.
func confirm(tty *os.File, in io.Reader, out io.Writer, question string) (bool, error) {
	if !isTerminal(tty) {
		return false, errors.New("refusing to clear without confirmation on non-interactive input; pass --yes")
	}
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func rosterHas(roster []student.Student, id int64) bool {
	for _, s := range roster {
		if s.ID == id {
			return true
		}
	}
	return false
}
