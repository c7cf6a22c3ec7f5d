package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/fleettrack/cli/tracker/model"
	"github.com/openfleet/fleettrack/cli/tracker/storage"
)

func TestGetVehiclesSnapshot(t *testing.T) {
	store := &mockStore{upserts: []model.VehicleState{
		{VehicleID: "v1", Route: "R1"},
		{VehicleID: "v2", Route: "R2"},
	}}
	query := &GetVehicles{Store: store}

	all, err := query.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetVehiclesEmptyStore(t *testing.T) {
	// A fresh SQL backend answers with a nil slice; the snapshot must
	// still be an empty list, not nil.
	store := &mockStore{}
	query := &GetVehicles{Store: store}

	all, err := query.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Len(t, all, 0)
}

func TestGetVehiclesStaleMarking(t *testing.T) {
	frozen := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	originalNow := now
	now = func() time.Time { return frozen }
	defer func() { now = originalNow }()

	store := &mockStore{upserts: []model.VehicleState{
		{VehicleID: "fresh", Timestamp: frozen.Add(-time.Minute)},
		{VehicleID: "stale", Timestamp: frozen.Add(-time.Hour)},
	}}
	query := &GetVehicles{Store: store, StaleAfter: 5 * time.Minute}

	all, err := query.Run(context.Background())
	require.NoError(t, err)

	byID := map[string]model.VehicleState{}
	for _, state := range all {
		byID[state.VehicleID] = state
	}
	assert.False(t, byID["fresh"].Stale)
	assert.True(t, byID["stale"].Stale)
}

func TestGetVehiclesStaleMarkingDisabled(t *testing.T) {
	store := &mockStore{upserts: []model.VehicleState{
		{VehicleID: "old", Timestamp: time.Now().Add(-24 * time.Hour)},
	}}
	query := &GetVehicles{Store: store}

	all, err := query.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, all[0].Stale)
}

func TestGetVehiclesStorageFailure(t *testing.T) {
	store := &failingStore{err: errors.New("connection refused")}
	query := &GetVehicles{Store: store}

	_, err := query.Run(context.Background())
	assert.ErrorIs(t, err, storage.ErrUnavailable, "storage failure surfaces, never an empty success")
}

type failingStore struct {
	mockStore
	err error
}

func (f *failingStore) GetAll(context.Context) ([]model.VehicleState, error) {
	return nil, f.err
}
