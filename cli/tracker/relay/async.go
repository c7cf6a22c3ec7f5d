package relay

import (
	"context"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

// Async отвязывает публикацию в брокеры от пути приема обновлений:
// Enqueue никогда не блокируется, задержка или отказ брокера не влияет на
// ответ клиенту.
type Async struct {
	group  *Group
	ch     chan *model.VehicleState
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAsync(group *Group, buffer, workers int) *Async {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		group:  group,
		ch:     make(chan *model.VehicleState, buffer),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		a.wg.Add(1)
		go a.worker()
	}
	return a
}

func (a *Async) worker() {
	defer a.wg.Done()
	for {
		select {
		case state := <-a.ch:
			a.publish(state)
		case <-a.ctx.Done():
			// Дорабатываем уже поставленное в очередь и выходим. Канал
			// никогда не закрывается, поэтому конкурентный Enqueue
			// безопасен в любой момент.
			for {
				select {
				case state := <-a.ch:
					a.publish(state)
				default:
					return
				}
			}
		}
	}
}

func (a *Async) publish(state *model.VehicleState) {
	if err := a.group.Publish(state); err != nil {
		log.WithField("vehicle_id", state.VehicleID).Errorf("Ошибка ретрансляции обновления: %v", err)
	}
}

// Enqueue ставит обновление в очередь на ретрансляцию. При переполненной
// очереди обновление отбрасывается с предупреждением; после остановки
// обновления молча игнорируются.
func (a *Async) Enqueue(state *model.VehicleState) {
	select {
	case <-a.ctx.Done():
		return
	default:
	}

	select {
	case a.ch <- state:
	default:
		log.WithField("vehicle_id", state.VehicleID).Warn("Очередь ретрансляции переполнена, обновление отброшено")
	}
}

// Shutdown дожидается обработки очереди и закрывает брокеры.
func (a *Async) Shutdown() {
	a.cancel()
	a.wg.Wait()

	if err := a.group.Close(); err != nil {
		log.Errorf("Ошибка закрытия брокеров: %v", err)
	}
}
