package acknowledge

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

type fakeSetter struct {
	mu      sync.Mutex
	updates map[uint64]bool
	failOn  map[uint64]error
}

func newFakeSetter() *fakeSetter {
	return &fakeSetter{updates: map[uint64]bool{}, failOn: map[uint64]error{}}
}

func (f *fakeSetter) SetAcknowledged(_ context.Context, id uint64, ack bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[id]; ok {
		return err
	}
	f.updates[id] = ack
	return nil
}

func TestSetAcknowledged(t *testing.T) {
	setter := newFakeSetter()
	u := New(setter, hclog.NewNullLogger())

	require.NoError(t, u.SetAcknowledged(context.Background(), 5, true))
	assert.Equal(t, map[uint64]bool{5: true}, setter.updates)

	err := u.SetAcknowledged(context.Background(), 0, true)
	assert.True(t, errors.IsPreconditionError(err))
}

func TestSetAcknowledgedFailure(t *testing.T) {
	setter := newFakeSetter()
	failure := errors.NewStatusError("update acknowledgment", 400, "record not found")
	setter.failOn[9] = failure
	u := New(setter, nil)

	err := u.SetAcknowledged(context.Background(), 9, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.True(t, errors.IsRequestError(err))
	assert.Contains(t, err.Error(), "finding 9")
}

func TestSetAll(t *testing.T) {
	setter := newFakeSetter()
	setter.failOn[3] = fmt.Errorf("boom")
	u := New(setter, nil)

	err := u.SetAll(context.Background(), []uint64{1, 2, 3, 4, 5, 6}, true)
	require.Error(t, err)

	var ids []int
	for id := range setter.updates {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	assert.Equal(t, []int{1, 2, 4, 5, 6}, ids)

	assert.NoError(t, u.SetAll(context.Background(), nil, true))
}

func TestSetAndReload(t *testing.T) {
	setter := newFakeSetter()
	u := New(setter, nil)

	reloaded := []results.RepositoryScanResult{{
		RepositoryIdentifier: "r1",
		Findings: []results.Finding{
			{ID: 5, Location: "a.png", CheckIdentifier: "SearchBinaries", Acknowledged: true},
		},
	}}

	view, err := u.SetAndReload(context.Background(), 5, true, func(context.Context) ([]results.RepositoryScanResult, error) {
		return reloaded, nil
	})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.True(t, view.Rows[0].Acknowledged)

	reloadCalled := false
	setter.failOn[6] = fmt.Errorf("unreachable")
	_, err = u.SetAndReload(context.Background(), 6, true, func(context.Context) ([]results.RepositoryScanResult, error) {
		reloadCalled = true
		return nil, nil
	})
	assert.Error(t, err)
	assert.False(t, reloadCalled)

	_, err = u.SetAndReload(context.Background(), 5, false, func(context.Context) ([]results.RepositoryScanResult, error) {
		return nil, fmt.Errorf("history unavailable")
	})
	assert.ErrorContains(t, err, "failed to reload results")
}
