package jobs

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/workforce-portal/internal/config"
)

// Expirer clears the active flag on expired disciplinary actions.
type Expirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// StartDisciplineSweep runs SweepOnce on every tick until ctx is done.
func StartDisciplineSweep(ctx context.Context, cfg config.JobsConfig, repo Expirer) {
	if !cfg.DisciplineSweepEnabled {
		return
	}
	if repo == nil {
		log.Printf("discipline sweep disabled: repository not configured")
		return
	}
	interval := cfg.DisciplineSweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	timeout := cfg.DisciplineSweepTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = SweepOnce(ctx, repo, time.Now().UTC(), timeout)
			}
		}
	}()
}

// SweepOnce expires every action due at now and logs the count.
func SweepOnce(ctx context.Context, repo Expirer, now time.Time, timeout time.Duration) (int64, error) {
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	n, err := repo.ExpireDue(tickCtx, now)
	if err != nil {
		log.Printf("discipline sweep error: %v", err)
		return 0, err
	}
	if n > 0 {
		log.Printf("discipline sweep expired %d actions", n)
	}
	return n, nil
}
