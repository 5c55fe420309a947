// Package acknowledge changes the acknowledgment state of findings on the
// scanning service. It keeps no row state: callers rebuild their view from
// fresh results after a successful update.
package acknowledge

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// maxParallelUpdates bounds concurrent requests issued by SetAll.
const maxParallelUpdates = 4

// Setter persists an acknowledgment change. *scanclient.Client implements it.
type Setter interface {
	SetAcknowledged(ctx context.Context, findingID uint64, acknowledged bool) error
}

// Reloader fetches the authoritative results after an update.
type Reloader func(ctx context.Context) ([]results.RepositoryScanResult, error)

type Updater struct {
	setter Setter
	logger hclog.Logger
}

func New(setter Setter, logger hclog.Logger) *Updater {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Updater{setter: setter, logger: logger}
}

// SetAcknowledged updates one finding.
func (u *Updater) SetAcknowledged(ctx context.Context, findingID uint64, acknowledged bool) error {
	if findingID == 0 {
		return errors.NewPreconditionError("finding", "id must be set")
	}

	if err := u.setter.SetAcknowledged(ctx, findingID, acknowledged); err != nil {
		u.logger.Error("failed to update acknowledgment", "finding_id", findingID, "acknowledged", acknowledged, "error", err)
		return fmt.Errorf("failed to update acknowledgment of finding %d: %w", findingID, err)
	}

	u.logger.Info("acknowledgment updated", "finding_id", findingID, "acknowledged", acknowledged)
	return nil
}

// SetAll updates several findings concurrently. Updates are independent, so a
// failure does not stop the others; the first failure is returned.
func (u *Updater) SetAll(ctx context.Context, findingIDs []uint64, acknowledged bool) error {
	var g errgroup.Group
	g.SetLimit(maxParallelUpdates)
	for _, id := range findingIDs {
		id := id
		g.Go(func() error {
			return u.SetAcknowledged(ctx, id, acknowledged)
		})
	}
	return g.Wait()
}

// SetAndReload updates one finding and rebuilds the view from the results
// returned by reload. On failure no view is produced.
func (u *Updater) SetAndReload(ctx context.Context, findingID uint64, acknowledged bool, reload Reloader) (results.View, error) {
	if err := u.SetAcknowledged(ctx, findingID, acknowledged); err != nil {
		return results.View{}, err
	}
	res, err := reload(ctx)
	if err != nil {
		u.logger.Error("failed to reload results after acknowledgment", "error", err)
		return results.View{}, fmt.Errorf("failed to reload results: %w", err)
	}
	return results.BuildView(res), nil
}
