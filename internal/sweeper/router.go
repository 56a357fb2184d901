package sweeper

import (
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSweepRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/sweep", controller.TriggerSweep)       // POST /api/v1/admin/sweep
		admin.GET("/sweep/status", controller.GetJobStatus) // GET /api/v1/admin/sweep/status
	}
}
