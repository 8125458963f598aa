package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/store/sqlite"
)

func TestInboxSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)

	inbox, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "inbox.db"))
	if err != nil {
		t.Fatalf("open inbox: %v", err)
	}
	defer func() { _ = inbox.Close() }()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []domain.ContactMessage{
		{ID: "fresh", Name: "Ann", Email: "ann@example.com", Message: "hello there!", CreatedAt: now.Add(-time.Hour)},
		{ID: "recent", Name: "Bob", Email: "bob@example.com", Message: "hello there!", CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "old", Name: "Cid", Email: "cid@example.com", Message: "hello there!", CreatedAt: now.Add(-35 * 24 * time.Hour)},
	}
	for _, m := range messages {
		if err := inbox.Record(ctx, m); err != nil {
			t.Fatalf("record %s: %v", m.ID, err)
		}
	}

	// 30 day retention
	sweeper := NewInboxSweeper(inbox, log, 24*time.Hour, 30*24*time.Hour)
	sweeper.now = func() time.Time { return now }

	deleted, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted message, got %d", deleted)
	}

	left, err := inbox.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 2 {
		t.Fatalf("Expected 2 messages after sweep, got %d", len(left))
	}
	for _, m := range left {
		if m.ID == "old" {
			t.Error("Message past retention was not removed")
		}
	}
}

func TestInboxSweeper_DefaultRetention(t *testing.T) {
	s := NewInboxSweeper(nil, logger.NewNop(), time.Hour, 0)
	if s.retention != DefaultInboxRetention {
		t.Errorf("Expected default retention %v, got %v", DefaultInboxRetention, s.retention)
	}
}

func TestInboxSweeper_NonPositiveSettingsFallBackToDefaults(t *testing.T) {
	s := NewInboxSweeper(nil, logger.NewNop(), 0, -time.Hour)
	if s.interval != DefaultSweepInterval {
		t.Errorf("Expected default interval %v, got %v", DefaultSweepInterval, s.interval)
	}
	if s.retention != DefaultInboxRetention {
		t.Errorf("Expected default retention %v, got %v", DefaultInboxRetention, s.retention)
	}
}
