// Package backup writes export snapshots to durable destinations.
package backup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"roster/internal/domain/export"
)

// Destination stores one named snapshot and reports where it went.
type Destination interface {
	Write(ctx context.Context, name string, data []byte) (location string, err error)
}

// nameAlphabet keeps snapshot names safe for file systems and object keys.
const nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const nameIDLength = 8

// SnapshotName builds a unique, sortable name such as
// "roster-room4-activity11-20260316T090000Z-k3v9x0aa.json".
// activityID 0 is rendered as "all".
func SnapshotName(room int, activityID int64, now time.Time) (string, error) {
	id, err := nanoid.Generate(nameAlphabet, nameIDLength)
	if err != nil {
		return "", fmt.Errorf("snapshot name: %w", err)
	}
	act := "all"
	if activityID > 0 {
		act = strconv.FormatInt(activityID, 10)
	}
	return fmt.Sprintf("roster-room%d-activity%s-%s-%s.json", room, act, now.UTC().Format("20060102T150405Z"), id), nil
}

// Save encodes doc and writes it to dest under a fresh snapshot name.
// PRE: doc was produced by export.Build
// POST: Returns the destination's location for the snapshot
func Save(ctx context.Context, dest Destination, doc export.Document, room int, activityID int64, now time.Time) (string, error) {
	data, err := doc.ToJSON()
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	name, err := SnapshotName(room, activityID, now)
	if err != nil {
		return "", err
	}
	return dest.Write(ctx, name, data)
}
