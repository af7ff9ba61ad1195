package routes

import (
	"Gin_postgres_redis_device_rental/app"
	"Gin_postgres_redis_device_rental/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the operational endpoints. Booking operations have no HTTP
// surface here.
func RegisterRoutes(r *gin.Engine, a *app.App) {
	ops := controllers.NewOpsController(a)

	r.GET("/healthz", ops.Healthz)
	r.GET("/readyz", ops.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ops/loans/overdue", ops.Overdue)
}
