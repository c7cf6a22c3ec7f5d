package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/openfleet/fleettrack/cli/tracker/broadcast"
	"github.com/openfleet/fleettrack/cli/tracker/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// event is one frame pushed to stream observers.
type event struct {
	Event string              `json:"event"`
	Data  *model.VehicleState `json:"data"`
}

// Stream handles GET /vehicles/stream. Every accepted update is pushed to
// each connected socket as a vehicleUpdate frame. There is no backlog:
// observers catch up on current state through GET /vehicles.
func (h *Handler) Stream(hub *broadcast.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Subscribe before completing the handshake: once the client sees
		// the connection as open, no published event may be missed.
		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Errorf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		log.WithField("remote", conn.RemoteAddr()).Info("observer connected")

		// Drain incoming frames to notice the client going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case state, ok := <-sub.Updates():
				if !ok {
					// Dropped by the hub for falling behind.
					log.WithField("remote", conn.RemoteAddr()).Warn("observer dropped as too slow")
					return
				}
				if err := conn.WriteJSON(event{Event: "vehicleUpdate", Data: state}); err != nil {
					return
				}
			case <-gone:
				log.WithField("remote", conn.RemoteAddr()).Info("observer disconnected")
				return
			}
		}
	}
}
