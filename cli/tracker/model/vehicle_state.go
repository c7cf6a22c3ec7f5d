package model

import (
	"time"

	"gopkg.in/vmihailenco/msgpack.v2"
)

// VehicleState is the last known position of one vehicle. There is at most
// one record per VehicleID; every accepted update replaces the record in
// full. Timestamp is assigned by the server at ingestion time and is never
// taken from the client.
type VehicleState struct {
	VehicleID string    `json:"vehicleId" msgpack:"vehicle_id"`
	Route     string    `json:"route" msgpack:"route"`
	Lat       float64   `json:"lat" msgpack:"lat"`
	Lng       float64   `json:"lng" msgpack:"lng"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`

	// Stale is computed on read for vehicles that have not reported within
	// the configured window. It is never persisted.
	Stale bool `json:"stale,omitempty" msgpack:"-"`
}

// ToBytes сериализует состояние для внешних хранилищ и брокеров.
func (v *VehicleState) ToBytes() ([]byte, error) {
	return msgpack.Marshal(v)
}

// FromBytes восстанавливает состояние из сериализованного представления.
func FromBytes(raw []byte) (*VehicleState, error) {
	state := &VehicleState{}
	if err := msgpack.Unmarshal(raw, state); err != nil {
		return nil, err
	}
	return state, nil
}
