package rabbitmq

/*
Настройки, которые могут (а не которые – должны) быть в конфиге для
подключения брокера:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "vehicles"
*/

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

const defaultExchange = "vehicles"

type Relay struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	config     map[string]string
}

func (r *Relay) Init(cfg map[string]string) error {
	var err error

	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	r.config = cfg

	r.exchange = cfg["exchange"]
	if r.exchange == "" {
		r.exchange = defaultExchange
	}

	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg["user"], cfg["password"], cfg["host"], cfg["port"])
	if r.connection, err = amqp.Dial(connStr); err != nil {
		return fmt.Errorf("не удалось подключиться к RabbitMQ: %v", err)
	}

	if r.channel, err = r.connection.Channel(); err != nil {
		return fmt.Errorf("не удалось открыть канал: %v", err)
	}

	if err = r.channel.ExchangeDeclare(r.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("не удалось объявить exchange: %v", err)
	}
	return nil
}

func (r *Relay) Publish(state *model.VehicleState) error {
	raw, err := state.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %v", err)
	}

	err = r.channel.Publish(r.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/msgpack",
		Body:        raw,
	})
	if err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (r *Relay) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.connection.Close()
}
