package spaces

import (
	"net/http"
	"strconv"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	repo    Repository
	catalog Catalog
}

func NewController(repo Repository, catalog Catalog) *Controller {
	return &Controller{repo: repo, catalog: catalog}
}

// ListSpaces handles GET /api/v1/spaces
func (c *Controller) ListSpaces(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	spaces, total, err := c.repo.ListActive(ctx.Request.Context(), limit, offset)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Spaces retrieved successfully", gin.H{
		"spaces": spaces,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}, nil)
}

// GetSpace handles GET /api/v1/spaces/:id
func (c *Controller) GetSpace(ctx *gin.Context) {
	info, err := c.catalog.GetSpace(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Space retrieved successfully", info, nil)
}
