package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/openfleet/fleettrack/cli/tracker/model"
	"github.com/openfleet/fleettrack/cli/tracker/storage"
)

// GetVehicles serves the current snapshot of all vehicle states. Vehicles
// that have not reported within StaleAfter are marked stale; records are
// never expired or removed.
type GetVehicles struct {
	Store      storage.Store
	StaleAfter time.Duration
}

func (domain *GetVehicles) Run(ctx context.Context) ([]model.VehicleState, error) {
	all, err := domain.Store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	if all == nil {
		// SQL backends return a nil slice for an empty table; the wire
		// contract promises a JSON array, never null.
		all = []model.VehicleState{}
	}

	if domain.StaleAfter > 0 {
		cutoff := now().Add(-domain.StaleAfter)
		for i := range all {
			if all[i].Timestamp.Before(cutoff) {
				all[i].Stale = true
			}
		}
	}

	return all, nil
}
