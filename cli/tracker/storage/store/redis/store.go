package redis

/*
Настройки, которые могут (а не которые – должны) быть в конфиге для
подключения хранилища:

host = "localhost"
port = "6379"
password = ""
db = "0"
key = "vehicles"
*/

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

const defaultKey = "vehicles"

// Store хранит состояния в одном хеше Redis: поле — идентификатор
// транспортного средства, значение — msgpack-представление записи. HSET
// атомарен по полю, что и дает атомарный по ключу upsert.
type Store struct {
	client *redis.Client
	key    string
	config map[string]string
}

func (s *Store) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	s.config = cfg

	db := 0
	if cfg["db"] != "" {
		var err error
		if db, err = strconv.Atoi(cfg["db"]); err != nil {
			return fmt.Errorf("не удалось получить номер базы: %v", err)
		}
	}

	s.key = cfg["key"]
	if s.key == "" {
		s.key = defaultKey
	}

	s.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg["host"], cfg["port"]),
		Password: cfg["password"],
		DB:       db,
	})

	if err := s.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("Redis недоступен: %v", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, state *model.VehicleState) (*model.VehicleState, error) {
	raw, err := state.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации записи: %v", err)
	}

	if err := s.client.HSet(ctx, s.key, state.VehicleID, raw).Err(); err != nil {
		return nil, fmt.Errorf("не удалось сохранить запись: %v", err)
	}

	stored := *state
	return &stored, nil
}

func (s *Store) GetAll(ctx context.Context) ([]model.VehicleState, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать записи: %v", err)
	}

	all := make([]model.VehicleState, 0, len(fields))
	for id, raw := range fields {
		state, err := model.FromBytes([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("поврежденная запись %s: %v", id, err)
		}
		all = append(all, *state)
	}
	return all, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
