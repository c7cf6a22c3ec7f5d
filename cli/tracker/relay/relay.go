package relay

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/openfleet/fleettrack/cli/tracker/model"
	"github.com/openfleet/fleettrack/cli/tracker/relay/nats"
	"github.com/openfleet/fleettrack/cli/tracker/relay/rabbitmq"
	"github.com/openfleet/fleettrack/cli/tracker/relay/tarantoolqueue"
)

var ErrUnknownRelay = errors.New("relay isn't supported yet")

// Publisher публикует принятое обновление во внешний брокер.
type Publisher interface {
	// Publish отправка обновления в брокер
	Publish(state *model.VehicleState) error
}

// Connector интерфейс для подключения внешних брокеров
type Connector interface {
	// Init установка соединения с брокером
	Init(map[string]string) error

	// Close закрытие соединения с брокером
	Close() error
}

type Relay interface {
	Connector
	Publisher
}

// Group набор брокеров, в которые дублируется каждое обновление.
type Group struct {
	relays []Relay
}

// Add добавляет брокер в набор.
func (g *Group) Add(r Relay) {
	g.relays = append(g.relays, r)
}

// Publish отправляет обновление во все брокеры. Ошибка одного брокера не
// останавливает публикацию в остальные.
func (g *Group) Publish(state *model.VehicleState) error {
	var firstErr error
	for _, r := range g.relays {
		if err := r.Publish(state); err != nil {
			log.WithField("err", err).Error("Не удалось опубликовать обновление в брокер")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close закрывает все соединения с брокерами.
func (g *Group) Close() error {
	var firstErr error
	for _, r := range g.relays {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len количество подключенных брокеров.
func (g *Group) Len() int {
	return len(g.relays)
}

// Load загружает брокеры из секции relays конфига.
func Load(relays map[string]map[string]string) (*Group, error) {
	g := &Group{}

	var r Relay
	for name, params := range relays {
		switch name {
		case "nats":
			r = &nats.Relay{}
		case "rabbitmq":
			r = &rabbitmq.Relay{}
		case "tarantool_queue":
			r = &tarantoolqueue.Relay{}
		default:
			return nil, ErrUnknownRelay
		}

		if err := r.Init(params); err != nil {
			return nil, err
		}

		g.Add(r)
	}
	return g, nil
}
