package storage

import (
	"context"
	"errors"

	"github.com/openfleet/fleettrack/cli/tracker/model"
	"github.com/openfleet/fleettrack/cli/tracker/storage/store/memory"
	"github.com/openfleet/fleettrack/cli/tracker/storage/store/mysql"
	"github.com/openfleet/fleettrack/cli/tracker/storage/store/postgresql"
	"github.com/openfleet/fleettrack/cli/tracker/storage/store/redis"
)

var ErrUnknownStorage = errors.New("storage isn't supported yet")
var ErrAmbiguousStorage = errors.New("more than one storage configured")

// ErrUnavailable классифицирует любой отказ нижележащего хранилища.
var ErrUnavailable = errors.New("storage unavailable")

// Store — основное хранилище последних состояний. Ровно одна запись на
// идентификатор транспортного средства; Upsert заменяет запись целиком.
type Store interface {
	Connector

	// Upsert атомарно вставляет или заменяет запись по ключу VehicleID и
	// возвращает состояние в том виде, в котором оно сохранено.
	Upsert(ctx context.Context, state *model.VehicleState) (*model.VehicleState, error)

	// GetAll возвращает снимок всех записей. Атомарность между ключами не
	// гарантируется, каждая отдельная запись целостна.
	GetAll(ctx context.Context) ([]model.VehicleState, error)
}

// Connector интерфейс для подключения внешних хранилищ
type Connector interface {
	// Init установка соединения с хранилищем
	Init(map[string]string) error

	// Close закрытие соединения с хранилищем
	Close() error
}

// Load выбирает хранилище из секции storage конфига. Пустая секция
// означает хранилище в памяти.
func Load(storages map[string]map[string]string) (Store, error) {
	if len(storages) == 0 {
		db := memory.NewStore()
		if err := db.Init(nil); err != nil {
			return nil, err
		}
		return db, nil
	}
	if len(storages) > 1 {
		return nil, ErrAmbiguousStorage
	}

	var db Store
	for store, params := range storages {
		switch store {
		case "memory":
			db = memory.NewStore()
		case "redis":
			db = &redis.Store{}
		case "postgresql":
			db = &postgresql.Store{}
		case "mysql":
			db = &mysql.Store{}
		default:
			return nil, ErrUnknownStorage
		}

		if err := db.Init(params); err != nil {
			return nil, err
		}
	}
	return db, nil
}
