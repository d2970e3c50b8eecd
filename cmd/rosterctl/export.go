package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"roster/internal/adapters/backup"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		f         contextFlags
		out       string
		dir       string
		useBackup bool
		useS3     bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of the room's roster, activities and grid",
		Long: `Write a JSON snapshot of the room's roster, the visible activities and,
when --activity is given, the confirmed participation grid.

Without a destination flag the snapshot is printed to stdout. --dir writes a
uniquely named file into a directory, --backup does the same into backup.dir
from the config, and --s3 uploads it to the bucket configured under [backup].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open(cmd.Context(), f)
			if err != nil {
				return err
			}
			doc := r.Export()

			var dest backup.Destination
			switch {
			case out != "":
				data, err := doc.ToJSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
				return nil
			case useS3:
				b := a.cfg.Backup
				if b.S3Bucket == "" {
					return errors.New("--s3 needs backup.s3_bucket in the config file")
				}
				s3dest, err := backup.NewS3Destination(cmd.Context(), b.S3Bucket, b.S3Prefix, b.S3Region, b.S3Endpoint)
				if err != nil {
					return err
				}
				dest = s3dest
			case dir != "":
				dest = backup.NewFileDestination(dir)
			case useBackup:
				if a.cfg.Backup.Dir == "" {
					return errors.New("--backup needs backup.dir in the config file")
				}
				dest = backup.NewFileDestination(a.cfg.Backup.Dir)
			default:
				return printJSON(cmd.OutOrStdout(), doc)
			}

			loc, err := backup.Save(cmd.Context(), dest, doc, f.room, f.activityID, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
	f.register(cmd, false)
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the snapshot to this file")
	cmd.Flags().StringVar(&dir, "dir", "", "write a uniquely named snapshot into this directory")
	cmd.Flags().BoolVar(&useBackup, "backup", false, "write a uniquely named snapshot into backup.dir")
	cmd.Flags().BoolVar(&useS3, "s3", false, "upload the snapshot to the configured S3 bucket")
	cmd.MarkFlagsMutuallyExclusive("out", "dir", "backup", "s3")
	return cmd
}
