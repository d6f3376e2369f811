package services

import (
	"context"
	"sync"
	"time"

	"aiagents-backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JanitorJob removes or transitions stale rows and reports how many it
// touched.
type JanitorJob func(ctx context.Context) (int64, error)

// Janitor runs its registered jobs on a fixed interval until its context is
// cancelled. Trigger forces an immediate pass.
type Janitor struct {
	interval time.Duration

	mu   sync.RWMutex
	jobs map[string]JanitorJob

	triggerChan chan struct{}
}

func NewJanitor(interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{
		interval:    interval,
		jobs:        make(map[string]JanitorJob),
		triggerChan: make(chan struct{}, 1),
	}
}

func (j *Janitor) Register(name string, job JanitorJob) {
	j.mu.Lock()
	j.jobs[name] = job
	j.mu.Unlock()
}

// Trigger requests a pass without blocking; requests made while one is
// already queued are coalesced.
func (j *Janitor) Trigger() {
	select {
	case j.triggerChan <- struct{}{}:
	default:
	}
}

// Start blocks until ctx is done. The cron schedule only queues passes so
// scheduled and triggered runs never overlap.
func (j *Janitor) Start(ctx context.Context) {
	log := logger.Named("janitor")

	c := cron.New()
	c.Schedule(cron.Every(j.interval), cron.FuncJob(j.Trigger))
	c.Start()
	log.Info("janitor started", zap.Duration("interval", j.interval))

	for {
		select {
		case <-j.triggerChan:
			j.RunOnce(ctx)
		case <-ctx.Done():
			<-c.Stop().Done()
			log.Info("janitor stopped")
			return
		}
	}
}

// RunOnce executes every job once and returns the rows each one touched.
// A failing job is logged and does not stop the others.
func (j *Janitor) RunOnce(ctx context.Context) map[string]int64 {
	j.mu.RLock()
	jobs := make(map[string]JanitorJob, len(j.jobs))
	for name, job := range j.jobs {
		jobs[name] = job
	}
	j.mu.RUnlock()

	results := make(map[string]int64, len(jobs))
	for name, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		n, err := job(ctx)
		if err != nil {
			logger.Log.Error("janitor job failed", zap.String("job", name), zap.Error(err))
			continue
		}
		results[name] = n
		if n > 0 {
			logger.Log.Info("janitor job done", zap.String("job", name), zap.Int64("rows", n))
		}
	}
	return results
}
