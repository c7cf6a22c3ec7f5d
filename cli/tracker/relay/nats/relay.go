package nats

/*
Настройки, которые могут (а не которые – должны) быть в конфиге для
подключения брокера:

host = "localhost"
port = "4222"
user = ""
password = ""
subject = "vehicle.update"
*/

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

const defaultSubject = "vehicle.update"

type Relay struct {
	connection *nats.Conn
	subject    string
	config     map[string]string
}

func (r *Relay) Init(cfg map[string]string) error {
	var err error

	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	r.config = cfg

	r.subject = cfg["subject"]
	if r.subject == "" {
		r.subject = defaultSubject
	}

	var opts []nats.Option
	if cfg["user"] != "" {
		opts = append(opts, nats.UserInfo(cfg["user"], cfg["password"]))
	}

	connStr := fmt.Sprintf("nats://%s:%s", cfg["host"], cfg["port"])
	if r.connection, err = nats.Connect(connStr, opts...); err != nil {
		return fmt.Errorf("не удалось подключиться к NATS: %v", err)
	}
	return nil
}

func (r *Relay) Publish(state *model.VehicleState) error {
	raw, err := state.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %v", err)
	}

	if err := r.connection.Publish(r.subject, raw); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (r *Relay) Close() error {
	r.connection.Close()
	return nil
}
