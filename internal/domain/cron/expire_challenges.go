package cron

import (
	"context"
	"time"

	"github.com/tangohub/backend/internal/domain/gameplay"
	"github.com/tangohub/backend/pkg/xcontext"
)

// ExpireChallengesCronJob deactivates challenges whose end date has passed.
// Late progress against an expired challenge is still recorded but can no
// longer complete it.
type ExpireChallengesCronJob struct {
	engine   *gameplay.Engine
	interval time.Duration
}

func NewExpireChallengesCronJob(
	engine *gameplay.Engine, interval time.Duration,
) *ExpireChallengesCronJob {
	return &ExpireChallengesCronJob{engine: engine, interval: interval}
}

func (job *ExpireChallengesCronJob) Do(ctx context.Context) {
	n, err := job.engine.ExpireChallenges(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire challenges: %v", err)
		return
	}

	if n > 0 {
		xcontext.Logger(ctx).Infof("Deactivated %d expired challenges", n)
	}
}

func (job *ExpireChallengesCronJob) RunNow() bool {
	return true
}

func (job *ExpireChallengesCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
