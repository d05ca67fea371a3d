package cron

import (
	"context"
	"log"
	"time"

	"coachbook/config"
	"coachbook/services/booking"
)

// StartSweeper runs the periodic cleanup loop: expired hold sets of drafts
// that never reached payment are released back to capacity, and drafts idle
// past their TTL are expired.
func StartSweeper(ctx context.Context, svc booking.BookingService) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweeper shutdown signal received.")
			return
		case <-ticker.C:
			sweepOnce(ctx, svc)
		}
	}
}

func sweepOnce(ctx context.Context, svc booking.BookingService) {
	now := time.Now()

	released, err := svc.ReleaseExpiredHolds(ctx, now)
	if err != nil {
		log.Printf("Sweeper: releasing expired hold sets failed: %v", err)
	} else if released > 0 {
		log.Printf("Sweeper: released %d expired hold sets", released)
	}

	cutoff := now.Add(-time.Duration(config.AppConfig.DraftTTLHours) * time.Hour)
	expired, err := svc.ExpireStale(ctx, cutoff)
	if err != nil {
		log.Printf("Sweeper: expiring stale drafts failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Sweeper: expired %d stale drafts", expired)
	}
}
