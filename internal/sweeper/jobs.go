package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"
)

// JobProcessor runs the sweeps in the background of the API process
type JobProcessor struct {
	sweeper *Sweeper
	config  *JobConfig
	done    chan struct{}
	once    sync.Once
	log     *logger.Logger
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval  time.Duration
	ExpiryInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval:  24 * time.Hour, // Full lifecycle sweep daily
		ExpiryInterval: 12 * time.Hour, // Unpaid confirmations twice a day
	}
}

// JobConfigFrom builds the job configuration from the environment settings
func JobConfigFrom(cfg config.SweeperConfig) *JobConfig {
	jobCfg := DefaultJobConfig()
	if cfg.Interval > 0 {
		jobCfg.SweepInterval = cfg.Interval
	}
	if cfg.ExpiryInterval > 0 {
		jobCfg.ExpiryInterval = cfg.ExpiryInterval
	}
	return jobCfg
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(sweeper *Sweeper, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		sweeper: sweeper,
		config:  config,
		done:    make(chan struct{}),
		log:     logger.GetDefault(),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.log.Info("Starting booking sweep jobs...")

	go jp.startFullSweep(ctx)
	go jp.startExpirySweep(ctx)

	jp.log.Info("Booking sweep jobs started",
		"sweep_interval", jp.config.SweepInterval.String(),
		"expiry_interval", jp.config.ExpiryInterval.String(),
	)
}

// Stop stops all background jobs. It is safe to call more than once.
func (jp *JobProcessor) Stop() {
	jp.once.Do(func() {
		jp.log.Info("Stopping booking sweep jobs...")
		close(jp.done)
	})
}

// startFullSweep runs the full sweep on startup and then on every tick
func (jp *JobProcessor) startFullSweep(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	jp.sweeper.Run(ctx)

	for {
		select {
		case <-ticker.C:
			jp.sweeper.Run(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// startExpirySweep expires unpaid confirmations on every tick
func (jp *JobProcessor) startExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(jp.config.ExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.sweeper.RunExpiry(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	status := "running"
	select {
	case <-jp.done:
		status = "stopped"
	default:
	}
	return map[string]interface{}{
		"sweep_interval":  jp.config.SweepInterval.String(),
		"expiry_interval": jp.config.ExpiryInterval.String(),
		"workers":         jp.sweeper.opts.Workers,
		"status":          status,
	}
}
