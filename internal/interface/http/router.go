package httpapi

import (
	"net/http"

	"carpool-service/pkg/logger"
	"carpool-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API routes, middleware and operational endpoints.
func NewRouter(h *Handler, log logger.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Observability(log, m))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Car Pooling API is running")
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	u := r.Group("/user")
	{
		u.POST("/user", h.CreateUser)
		u.GET("/find", h.FindByEmail)
		u.POST("/riding", h.PostRide)
		u.GET("/rides", h.ListRides)
		u.GET("/rides/near", h.NearbyRides)
		u.PUT("/ride/request", h.RequestSeat)
		u.PUT("/ridesdel/:rideId", h.SoftDeleteRide)
		u.PUT("/ridesres/:rideId", h.RestoreRide)
		u.GET("/noti", h.ListNotifications)
		u.PUT("/notiput", h.AppendNotification)
		u.PUT("/updateNotification", h.UpdateNotification)
		u.DELETE("/deleteNotification/:userId/:notificationId", h.DeleteNotification)
		u.GET("/specific-rides/:baseID", h.OwnerRides)
		u.PUT("/updateRegNum", h.UpdateRegNum)
		u.GET("/unauthorized", func(c *gin.Context) {
			respond(c, http.StatusOK, "unauthorized request .. ?!", nil)
		})
	}

	return r
}
