// file: internals/features/calendar/service/override_purge_scheduler.go
package service

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"facetrack_backend/internals/features/calendar/model"
)

// StartOverridePurgeScheduler hard-deletes soft-deleted overrides after a
// retention window. Removed overrides already revert the date to its weekday
// default; the rows only linger for audit.
func StartOverridePurgeScheduler(db *gorm.DB) {
	go func() {
		retentionDays := 90
		if val := os.Getenv("OVERRIDE_PURGE_RETENTION_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				retentionDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Purging soft-deleted date overrides...")

			deleteBefore := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

			res := db.Unscoped().
				Where("date_override_deleted_at IS NOT NULL AND date_override_deleted_at < ?", deleteBefore).
				Delete(&model.DateOverride{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] purge failed: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d stale overrides purged", res.RowsAffected)
			} else {
				log.Println("[CLEANUP] nothing to purge")
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
