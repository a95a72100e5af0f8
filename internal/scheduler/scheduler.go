// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"time"

	"icancare-server/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StartTokenSweep schedules a recurring job that deletes expired or revoked
// refresh tokens. The schedule is a standard cron expression.
func StartTokenSweep(db *gorm.DB, schedule string, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := SweepRefreshTokens(db); err != nil {
			log.Error().Err(err).Msg("refresh token sweep failed")
			return
		}
		log.Info().Msg("refresh token sweep completed")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// SweepRefreshTokens deletes refresh tokens that are expired or revoked.
func SweepRefreshTokens(db *gorm.DB) error {
	return db.Where("expires_at < ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{}).Error
}
