package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingCleaner struct{}

func (countingCleaner) CleanExpiredSessions(ctx context.Context) (int64, error) { return 0, nil }

func TestNew(t *testing.T) {
	s, err := New("0 3 * * *", time.UTC, countingCleaner{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	if err := s.Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNew_InvalidCron(t *testing.T) {
	if _, err := New("every day", time.UTC, countingCleaner{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
