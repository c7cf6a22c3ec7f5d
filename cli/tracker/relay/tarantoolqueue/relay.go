package tarantoolqueue

/*
Плагин для работы с Tarantool queue.

Раздел настроек, которые должны отвечать в конфиге для подключения брокера:

host = "localhost"
port = "3301"
user = "user"
password = "pass"
max_recons = 5
timeout = 1
reconnect = 1
queue = "vehicles"
*/

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tarantool/go-tarantool"
	"github.com/tarantool/go-tarantool/queue"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

type Relay struct {
	connection *tarantool.Connection
	queue      queue.Queue
	config     map[string]string
}

func (r *Relay) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	r.config = cfg
	conStr := fmt.Sprintf("%s:%s", cfg["host"], cfg["port"])

	maxRecons, err := strconv.Atoi(cfg["max_recons"])
	if err != nil {
		return fmt.Errorf("не удалось получить MaxReconnects: %v", err)
	}
	timeout, err := strconv.Atoi(cfg["timeout"])
	if err != nil {
		return fmt.Errorf("не удалось получить timeout: %v", err)
	}
	reconnect, err := strconv.Atoi(cfg["reconnect"])
	if err != nil {
		return fmt.Errorf("не удалось получить reconnect: %v", err)
	}
	opts := tarantool.Opts{
		Timeout:       time.Duration(timeout) * time.Second,
		Reconnect:     time.Duration(reconnect) * time.Second,
		MaxReconnects: uint(maxRecons),
		User:          cfg["user"],
		Pass:          cfg["password"],
	}

	r.connection, err = tarantool.Connect(conStr, opts)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к Tarantool: %v", err)
	}
	r.queue = queue.New(r.connection, cfg["queue"])

	return err
}

func (r *Relay) Publish(state *model.VehicleState) error {
	raw, err := state.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %v", err)
	}

	if _, err = r.queue.Put(raw); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (r *Relay) Close() error {
	return r.connection.Close()
}
