package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/subscription/repository"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSubscriptionService(t *testing.T, now time.Time) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error
	prepareSubscriptionSchema(t, db)

	node := mustNode(t)
	catalog, err := tier.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	service := NewService(ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(now),
		Catalog: catalog,
		Repo:    repository.Provide(),
	})
	return service, db
}

func prepareSubscriptionSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE subscriptions (
		id INTEGER PRIMARY KEY,
		user_id TEXT NOT NULL,
		tier TEXT NOT NULL,
		status TEXT NOT NULL,
		current_period_start DATETIME NOT NULL,
		current_period_end DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create subscriptions: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX uidx_subscriptions_user_id ON subscriptions (user_id)`).Error; err != nil {
		t.Fatalf("create index: %v", err)
	}
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func TestGetOrCreateDefaultsToFree(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	service, _ := setupSubscriptionService(t, now)
	ctx := context.Background()

	sub, err := service.GetOrCreate(ctx, "user_abc")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if sub.Tier != tier.Free {
		t.Fatalf("expected free tier, got %s", sub.Tier)
	}
	if sub.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %s", sub.Status)
	}
	wantStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !sub.CurrentPeriodStart.Equal(wantStart) {
		t.Fatalf("period start = %v, want %v", sub.CurrentPeriodStart, wantStart)
	}

	again, err := service.GetOrCreate(ctx, "user_abc")
	if err != nil {
		t.Fatalf("second get or create: %v", err)
	}
	if again.ID != sub.ID {
		t.Fatalf("expected same subscription, got %d and %d", sub.ID, again.ID)
	}
}

func TestGetOrCreateConcurrentFirstCall(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	service, db := setupSubscriptionService(t, now)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.GetOrCreate(ctx, "user_race"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent get or create: %v", err)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM subscriptions WHERE user_id = ?`, "user_race").Scan(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single subscription row, got %d", count)
	}
}

func TestGetOrCreateRejectsEmptyUser(t *testing.T) {
	service, _ := setupSubscriptionService(t, time.Now().UTC())
	if _, err := service.GetOrCreate(context.Background(), "  "); err != domain.ErrInvalidUserID {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestGetReturnsNilWhenMissing(t *testing.T) {
	service, _ := setupSubscriptionService(t, time.Now().UTC())
	sub, err := service.Get(context.Background(), "user_missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub != nil {
		t.Fatalf("expected nil subscription, got %+v", sub)
	}
}

func TestSetTierUpgradesAndResetsPeriod(t *testing.T) {
	now := time.Date(2025, time.June, 20, 9, 30, 0, 0, time.UTC)
	service, _ := setupSubscriptionService(t, now)
	ctx := context.Background()

	if _, err := service.GetOrCreate(ctx, "user_upgrade"); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	sub, err := service.SetTier(ctx, "user_upgrade", tier.Pro)
	if err != nil {
		t.Fatalf("set tier: %v", err)
	}
	if sub.Tier != tier.Pro {
		t.Fatalf("expected pro tier, got %s", sub.Tier)
	}
	if sub.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %s", sub.Status)
	}
	wantEnd := time.Date(2025, time.June, 30, 23, 59, 59, 999999999, time.UTC)
	if !sub.CurrentPeriodEnd.Equal(wantEnd) {
		t.Fatalf("period end = %v, want %v", sub.CurrentPeriodEnd, wantEnd)
	}
}

func TestSetTierCreatesMissingSubscription(t *testing.T) {
	now := time.Date(2025, time.June, 20, 9, 30, 0, 0, time.UTC)
	service, _ := setupSubscriptionService(t, now)

	sub, err := service.SetTier(context.Background(), "user_new", tier.Executive)
	if err != nil {
		t.Fatalf("set tier: %v", err)
	}
	if sub.Tier != tier.Executive {
		t.Fatalf("expected executive tier, got %s", sub.Tier)
	}
}

func TestSetTierRejectsUnknownTier(t *testing.T) {
	service, _ := setupSubscriptionService(t, time.Now().UTC())
	if _, err := service.SetTier(context.Background(), "user_abc", tier.ID("gold")); err != tier.ErrInvalidTier {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}
