package main

import (
	"context"
	"log/slog"
	"time"
	"toolbox-backend/services/tts"

	"github.com/robfig/cron/v3"
)

// StartJobs runs the periodic maintenance tasks until ctx is cancelled.
func StartJobs(ctx context.Context, speech tts.Service) error {
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		removed, err := speech.Sweep(time.Now())
		if err != nil {
			slog.WarnContext(ctx, "failed to sweep tts files", "err", err)
			return
		}
		if removed > 0 {
			slog.InfoContext(ctx, "swept expired tts files", "count", removed)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}
