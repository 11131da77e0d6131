// database/snapshot.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/LenoreWoW/Themis-sub003/notify"
)

// SnapshotSource feeds the notification engine from Mongo. Each section is
// fetched independently; a failed section comes back empty and its error
// is joined into the return value so one bad query never starves the
// other rules of data.
type SnapshotSource struct{}

func NewSnapshotSource() *SnapshotSource {
	return &SnapshotSource{}
}

func (s *SnapshotSource) Snapshot(ctx context.Context) (notify.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var snap notify.Snapshot
	var errs []error

	errs = append(errs, fetchAll(ctx, "projects", &snap.Projects))
	errs = append(errs, fetchAll(ctx, "changeRequests", &snap.ChangeRequests))
	errs = append(errs, fetchAll(ctx, "assignments", &snap.Assignments))
	errs = append(errs, fetchAll(ctx, "meetings", &snap.Meetings))
	errs = append(errs, fetchAll(ctx, "weeklyUpdates", &snap.WeeklyUpdates))
	errs = append(errs, fetchAll(ctx, "users", &snap.Users))

	return snap, errors.Join(errs...)
}

func fetchAll[T any](ctx context.Context, collection string, out *[]T) error {
	cursor, err := DB().Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}
