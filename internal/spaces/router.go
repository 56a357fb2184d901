package spaces

import (
	"github.com/gin-gonic/gin"
)

// SetupSpaceRoutes configures the public catalog routes
func SetupSpaceRoutes(rg *gin.RouterGroup, controller *Controller) {
	spaces := rg.Group("/spaces")
	{
		spaces.GET("", controller.ListSpaces)   // GET /api/v1/spaces
		spaces.GET("/:id", controller.GetSpace) // GET /api/v1/spaces/:id
	}
}
