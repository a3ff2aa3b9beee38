package resultcache

import (
	"github.com/rs/zerolog"
)

// CleanupJob sweeps expired cache entries on a schedule.
type CleanupJob struct {
	cache *Cache
	log   zerolog.Logger
}

// NewCleanupJob creates the cache cleanup job.
func NewCleanupJob(cache *Cache, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		cache: cache,
		log:   log.With().Str("job", "cache-cleanup").Logger(),
	}
}

// Name implements scheduler.Job.
func (j *CleanupJob) Name() string {
	return "cache-cleanup"
}

// Run implements scheduler.Job.
func (j *CleanupJob) Run() error {
	removed, err := j.cache.DeleteExpired()
	if err != nil {
		return err
	}
	if removed > 0 {
		j.log.Info().Int64("removed", removed).Msg("Expired cache entries removed")
	}
	return nil
}
