// Package scheduler runs the background maintenance jobs
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type Scheduler struct {
	s   gocron.Scheduler
	log *zap.Logger
}

// New registers the session purge on cronExpr (standard five field syntax)
func New(cronExpr string, loc *time.Location, sessions SessionCleaner, log *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	log = log.With(zap.String("component", "scheduler"))

	_, err = s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			deleted, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				log.Error("Session cleanup failed", zap.Error(err))
				return
			}
			log.Info("Expired sessions purged", zap.Int64("deleted", deleted))
		}),
		gocron.WithName("session-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register session cleanup: %w", err)
	}

	return &Scheduler{s: s, log: log}, nil
}

func (s *Scheduler) Start() {
	s.s.Start()
	s.log.Info("Scheduler started")
}

func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
