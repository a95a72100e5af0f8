package scheduler

import (
	"testing"
	"time"

	"icancare-server/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sweepDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestSweepRefreshTokens(t *testing.T) {
	db := sweepDB(t)

	now := time.Now()
	tokens := []models.RefreshToken{
		{UserID: "u1", Token: "expired", ExpiresAt: now.Add(-time.Hour)},
		{UserID: "u1", Token: "revoked", ExpiresAt: now.Add(time.Hour), IsRevoked: true},
		{UserID: "u2", Token: "live", ExpiresAt: now.Add(time.Hour)},
	}
	for i := range tokens {
		if err := db.Create(&tokens[i]).Error; err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}

	if err := SweepRefreshTokens(db); err != nil {
		t.Fatalf("SweepRefreshTokens failed: %v", err)
	}

	var remaining []models.RefreshToken
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("failed to list tokens: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 surviving token, got %d", len(remaining))
	}
	if remaining[0].Token != "live" {
		t.Errorf("wrong token survived the sweep: %q", remaining[0].Token)
	}
}

func TestStartTokenSweepRejectsBadSchedule(t *testing.T) {
	db := sweepDB(t)

	if _, err := StartTokenSweep(db, "not a cron expression", zerolog.Nop()); err == nil {
		t.Error("expected an error for an invalid schedule")
	}

	c, err := StartTokenSweep(db, "0 3 * * *", zerolog.Nop())
	if err != nil {
		t.Fatalf("StartTokenSweep failed: %v", err)
	}
	c.Stop()
}
