package sweeper

import (
	"net/http"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	sweeper *Sweeper
	jobs    *JobProcessor
}

// NewController creates the admin sweep controller; jobs may be nil when the background jobs are disabled.
func NewController(sweeper *Sweeper, jobs *JobProcessor) *Controller {
	return &Controller{sweeper: sweeper, jobs: jobs}
}

// TriggerSweep handles POST /api/v1/admin/sweep?scope=all|expiry
func (c *Controller) TriggerSweep(ctx *gin.Context) {
	var result Result
	switch scope := ctx.DefaultQuery("scope", "all"); scope {
	case "all":
		result = c.sweeper.Run(ctx.Request.Context())
	case "expiry":
		result = c.sweeper.RunExpiry(ctx.Request.Context())
	default:
		response.RespondError(ctx, apperrors.Validation("unknown sweep scope %q", scope))
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Sweep completed", result, nil)
}

// GetJobStatus handles GET /api/v1/admin/sweep/status
func (c *Controller) GetJobStatus(ctx *gin.Context) {
	if c.jobs == nil {
		response.RespondJSON(ctx, "success", http.StatusOK, "Sweep jobs are disabled", gin.H{"status": "disabled"}, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Sweep job status retrieved", c.jobs.GetJobStatus(), nil)
}
