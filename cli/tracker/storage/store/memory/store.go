package memory

import (
	"context"
	"sync"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

// Store держит последние состояния в памяти процесса. Хранилище по
// умолчанию: без внешних зависимостей, состояние теряется при рестарте.
type Store struct {
	mu       sync.RWMutex
	vehicles map[string]model.VehicleState
}

func NewStore() *Store {
	return &Store{vehicles: make(map[string]model.VehicleState)}
}

func (s *Store) Init(_ map[string]string) error {
	return nil
}

func (s *Store) Upsert(_ context.Context, state *model.VehicleState) (*model.VehicleState, error) {
	s.mu.Lock()
	s.vehicles[state.VehicleID] = *state
	s.mu.Unlock()

	stored := *state
	return &stored, nil
}

func (s *Store) GetAll(_ context.Context) ([]model.VehicleState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.VehicleState, 0, len(s.vehicles))
	for _, state := range s.vehicles {
		all = append(all, state)
	}
	return all, nil
}

func (s *Store) Close() error {
	return nil
}
