package server

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
)

// StartJobExpiry deactivates jobs past their application deadline on schedule spec.
// The returned cron is already running, Stop it on shutdown.
func StartJobExpiry(db *database.DBinstanceStruct, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := db.DeactivateExpiredJobs(time.Now())
		if err != nil {
			log.Printf("Scheduled job expiry failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Deactivated %d expired jobs", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
