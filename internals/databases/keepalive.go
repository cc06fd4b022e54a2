package database

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const DefaultKeepAliveSpec = "@every 4m"

// StartKeepAlive ping DB secara berkala supaya instance hosted tidak tidur.
// Caller wajib Stop() cron yang dikembalikan saat shutdown.
func StartKeepAlive(db *gorm.DB, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultKeepAliveSpec
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			log.Printf("[KEEPALIVE] ping gagal: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[KEEPALIVE] started schedule=%q", spec)
	c.Start()
	return c, nil
}
