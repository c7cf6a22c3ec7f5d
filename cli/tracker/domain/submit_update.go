package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/openfleet/fleettrack/cli/tracker/auth"
	"github.com/openfleet/fleettrack/cli/tracker/model"
	"github.com/openfleet/fleettrack/cli/tracker/storage"
)

var now = time.Now // For mocking time.Now() in tests

// UpdateRequest is one position report as submitted by a vehicle client.
// Coordinate bounds are validated; route stays free-form.
type UpdateRequest struct {
	VehicleID string  `json:"vehicleId" validate:"required"`
	Route     string  `json:"route"`
	Lat       float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng       float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Broadcaster delivers an accepted update to connected observers.
type Broadcaster interface {
	Publish(state *model.VehicleState)
}

// Relay forwards an accepted update to external brokers, off the request
// path.
type Relay interface {
	Enqueue(state *model.VehicleState)
}

// SubmitUpdate is the ingestion use case: verify the caller's credential,
// validate the payload, replace the vehicle's stored state and fan the new
// state out. Nothing is mutated or published on any failure.
type SubmitUpdate struct {
	Verifier auth.Verifier
	Store    storage.Store
	Hub      Broadcaster
	Relay    Relay // optional

	validate *validator.Validate
}

func NewSubmitUpdate(verifier auth.Verifier, store storage.Store, hub Broadcaster, relay Relay) *SubmitUpdate {
	return &SubmitUpdate{
		Verifier: verifier,
		Store:    store,
		Hub:      hub,
		Relay:    relay,
		validate: validator.New(),
	}
}

func (domain *SubmitUpdate) Run(ctx context.Context, token string, request UpdateRequest) (*model.VehicleState, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	principal, err := domain.Verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrTimeout) {
			return nil, ErrUpstreamTimeout
		}
		return nil, ErrInvalidToken
	}

	if err := domain.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	state := &model.VehicleState{
		VehicleID: request.VehicleID,
		Route:     request.Route,
		Lat:       request.Lat,
		Lng:       request.Lng,
		Timestamp: now(),
	}

	stored, err := domain.Store.Upsert(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	domain.Hub.Publish(stored)
	if domain.Relay != nil {
		domain.Relay.Enqueue(stored)
	}

	logrus.WithFields(logrus.Fields{
		"vehicle_id": stored.VehicleID,
		"subject":    principal.Subject,
	}).Debug("vehicle state updated")

	return stored, nil
}
