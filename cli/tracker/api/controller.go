package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openfleet/fleettrack/cli/tracker/broadcast"
)

type Controller struct {
	Router *gin.Engine
}

func NewController(handler *Handler, hub *broadcast.Hub) *Controller {
	router := gin.New()
	router.Use(gin.Recovery())

	vehicles := router.Group("/vehicles")
	{
		vehicles.POST("", handler.SubmitUpdate)
		vehicles.GET("", handler.GetVehicles)
		vehicles.GET("/stream", handler.Stream(hub))
	}

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return &Controller{Router: router}
}

func (c *Controller) Run(addr string) error {
	return c.Router.Run(addr)
}
