package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/store"
)

// CleanupJob periodically sweeps expired sessions and challenges. Lazy,
// access-triggered expiry is the contract; this job only tightens the bound
// on how long inert expired rows linger and is disabled unless an interval
// is configured.
type CleanupJob struct {
	store    *store.Store
	interval time.Duration
	done     chan struct{}
}

func NewCleanupJob(s *store.Store, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		store:    s,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	if j.interval <= 0 {
		log.Info().Msg("cleanup job disabled, relying on lazy expiry")
		return
	}

	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep(context.Background())
		}
	}
}

func (j *CleanupJob) sweep(ctx context.Context) {
	sessions, err := j.store.DeleteExpiredSessions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup: delete expired sessions")
	}

	challenges, err := j.store.DeleteExpiredChallenges(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup: delete expired challenges")
	}

	if sessions > 0 || challenges > 0 {
		log.Info().
			Int64("sessions", sessions).
			Int64("challenges", challenges).
			Msg("cleanup: expired rows removed")
	}
}
