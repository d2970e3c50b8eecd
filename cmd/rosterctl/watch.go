package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"roster/internal/adapters/events"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		natsURL    string
		room       int
		activityID int64
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print participation saves as the server publishes them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL == "" {
				natsURL = a.cfg.NATSURL
			}
			if natsURL == "" {
				return errors.New("watch needs --nats or nats_url in the config file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sub, err := events.NewNATSSubscriber(natsURL,
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					slog.Warn("nats_disconnected", "error", err)
				}),
				nats.ReconnectHandler(func(_ *nats.Conn) {
					slog.Info("nats_reconnected")
				}),
			)
			if err != nil {
				return err
			}
			defer sub.Close()

			ch, cancel, err := sub.Subscribe(events.TopicAll)
			if err != nil {
				return fmt.Errorf("subscribing to events: %w", err)
			}
			defer cancel()

			slog.Debug("watching", "url", natsURL, "room", room, "activity_id", activityID)
			w := watcher{out: cmd.OutOrStdout(), json: a.jsonOutput, room: room, activityID: activityID}
			return w.run(ctx, ch)
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS server URL (default from config or ROSTER_NATS_URL)")
	cmd.Flags().IntVar(&room, "room", 0, "only show saves for this room")
	cmd.Flags().Int64Var(&activityID, "activity", 0, "only show saves for this activity")
	return cmd
}

// watcher prints ParticipantsSaved payloads that pass its filters.
type watcher struct {
	out        io.Writer
	json       bool
	room       int
	activityID int64
	now        func() time.Time
}

func (w watcher) run(ctx context.Context, ch <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			if err := w.handle(data); err != nil {
				return err
			}
		}
	}
}

func (w watcher) handle(data []byte) error {
	var ev events.ParticipantsSaved
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Debug("skipping_event", "error", err)
		return nil
	}
	if w.room != 0 && ev.Room != w.room {
		return nil
	}
	if w.activityID != 0 && ev.ActivityID != w.activityID {
		return nil
	}
	if w.json {
		return printJSON(w.out, ev)
	}
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	_, err := fmt.Fprintf(w.out, "%s  room %d  activity %d  %d stored, %d removed\n",
		now().Format(time.TimeOnly), ev.Room, ev.ActivityID, ev.Upserted, ev.Deleted)
	return err
}
