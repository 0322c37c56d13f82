package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/entitlement/domain"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	usagedomain "github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	"go.uber.org/zap"
)

type subscriptionStub struct {
	tier tier.ID
	err  error
}

func (s *subscriptionStub) GetOrCreate(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &subscriptiondomain.Subscription{
		ID:     1,
		UserID: userID,
		Tier:   s.tier,
		Status: subscriptiondomain.StatusActive,
	}, nil
}

func (s *subscriptionStub) Get(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error) {
	return s.GetOrCreate(ctx, userID)
}

func (s *subscriptionStub) SetTier(ctx context.Context, userID string, id tier.ID) (*subscriptiondomain.Subscription, error) {
	s.tier = id
	return s.GetOrCreate(ctx, userID)
}

type usageStub struct {
	mu         sync.Mutex
	counts     map[tier.Feature]int64
	countCalls int
	incErr     error
}

func (u *usageStub) Increment(ctx context.Context, req usagedomain.IncrementRequest) (*usagedomain.FeatureUsage, error) {
	if u.incErr != nil {
		return nil, u.incErr
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.counts == nil {
		u.counts = map[tier.Feature]int64{}
	}
	u.counts[req.Feature]++
	return &usagedomain.FeatureUsage{
		UserID:     req.UserID,
		Feature:    req.Feature,
		PeriodKey:  req.PeriodKey,
		UsageCount: u.counts[req.Feature],
	}, nil
}

func (u *usageStub) Count(ctx context.Context, userID string, feature tier.Feature, periodKey string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.countCalls++
	return u.counts[feature], nil
}

func (u *usageStub) Summary(ctx context.Context, userID string, periodKey string) (map[tier.Feature]int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := map[tier.Feature]int64{}
	for k, v := range u.counts {
		out[k] = v
	}
	return out, nil
}

func newCheckService(t *testing.T, subTier tier.ID, usage *usageStub, now time.Time) domain.Service {
	t.Helper()
	catalog, err := tier.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return NewService(ServiceParam{
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(now),
		Catalog: catalog,
		SubSvc:  &subscriptionStub{tier: subTier},
		UsedSvc: usage,
	})
}

func TestCheckFeatureAllowsUnderLimit(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	usage := &usageStub{counts: map[tier.Feature]int64{tier.FeatureAnalyze: 10}}
	service := newCheckService(t, tier.Pro, usage, now)

	check, err := service.CheckFeature(context.Background(), "user_abc", tier.FeatureAnalyze)
	if err != nil {
		t.Fatalf("check feature: %v", err)
	}
	if !check.Allowed {
		t.Fatalf("expected allowed, got %+v", check)
	}
	if check.CurrentUsage != 10 || check.Limit != 50 || check.Remaining != 40 {
		t.Fatalf("expected 10/50 with 40 left, got %+v", check)
	}
	if check.Tier != tier.Pro {
		t.Fatalf("expected pro tier on verdict, got %q", check.Tier)
	}
}

func TestCheckFeatureDeniesAtLimit(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	usage := &usageStub{counts: map[tier.Feature]int64{tier.FeatureAnalyze: 1}}
	service := newCheckService(t, tier.Free, usage, now)

	check, err := service.CheckFeature(context.Background(), "user_abc", tier.FeatureAnalyze)
	if err != nil {
		t.Fatalf("check feature: %v", err)
	}
	if check.Allowed {
		t.Fatalf("expected denial, got %+v", check)
	}
	if check.Reason != domain.ReasonLimitReached {
		t.Fatalf("expected LIMIT_REACHED, got %s", check.Reason)
	}
	wantReset := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if check.ResetDate == nil || !check.ResetDate.Equal(wantReset) {
		t.Fatalf("reset date = %v, want %v", check.ResetDate, wantReset)
	}
	wantMsg := "You've reached your monthly limit of 1 for this feature. Upgrade your plan or wait until June 1, 2025."
	if check.Message != wantMsg {
		t.Fatalf("message = %q, want %q", check.Message, wantMsg)
	}
}

func TestCheckFeatureUnlimitedSkipsLedger(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	usage := &usageStub{counts: map[tier.Feature]int64{tier.FeatureAnalyze: 5000}}
	service := newCheckService(t, tier.Executive, usage, now)

	check, err := service.CheckFeature(context.Background(), "user_abc", tier.FeatureAnalyze)
	if err != nil {
		t.Fatalf("check feature: %v", err)
	}
	if !check.Allowed || !check.Unlimited {
		t.Fatalf("expected unlimited allow, got %+v", check)
	}
	if usage.countCalls != 0 {
		t.Fatalf("expected no ledger read, got %d", usage.countCalls)
	}
}

func TestCheckFeatureUnknownStoredTier(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	service := newCheckService(t, tier.ID("legacy"), &usageStub{}, now)

	check, err := service.CheckFeature(context.Background(), "user_abc", tier.FeatureAnalyze)
	if err != nil {
		t.Fatalf("check feature: %v", err)
	}
	if check.Allowed || check.Reason != domain.ReasonInvalidTier {
		t.Fatalf("expected INVALID_TIER denial, got %+v", check)
	}
}

func TestCheckFeatureDeniesAnonymousCaller(t *testing.T) {
	service := newCheckService(t, tier.Free, &usageStub{}, time.Now().UTC())

	check, err := service.CheckFeature(context.Background(), "", tier.FeatureAnalyze)
	if err != nil {
		t.Fatalf("check feature: %v", err)
	}
	if check.Allowed || check.Reason != domain.ReasonNotSignedIn {
		t.Fatalf("expected NOT_SIGNED_IN denial, got %+v", check)
	}
}

func TestCheckFeatureRejectsUnknownFeature(t *testing.T) {
	service := newCheckService(t, tier.Free, &usageStub{}, time.Now().UTC())
	if _, err := service.CheckFeature(context.Background(), "user_abc", tier.Feature("export")); !errors.Is(err, tier.ErrInvalidFeature) {
		t.Fatalf("expected ErrInvalidFeature, got %v", err)
	}
}

func TestCheckFileSize(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	service := newCheckService(t, tier.Free, &usageStub{}, now)
	ctx := context.Background()

	ok, err := service.CheckFileSize(ctx, "user_abc", 2<<20)
	if err != nil {
		t.Fatalf("check file size: %v", err)
	}
	if !ok.Allowed {
		t.Fatalf("expected exactly-at-limit upload allowed, got %+v", ok)
	}

	tooBig, err := service.CheckFileSize(ctx, "user_abc", 3<<20)
	if err != nil {
		t.Fatalf("check file size: %v", err)
	}
	if tooBig.Allowed || tooBig.Reason != domain.ReasonFileTooLarge {
		t.Fatalf("expected FILE_TOO_LARGE, got %+v", tooBig)
	}
	if tooBig.Tier != tier.Free || tooBig.MaxBytes != 2<<20 || tooBig.CurrentBytes != 3<<20 {
		t.Fatalf("verdict missing size context: %+v", tooBig)
	}
	if tooBig.Message != "File size (3.00MB) exceeds the 2MB limit for Free tier" {
		t.Fatalf("unexpected message %q", tooBig.Message)
	}
}

func TestCheckFileSizeBoundary(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	service := newCheckService(t, tier.Free, &usageStub{}, now)
	ctx := context.Background()

	atLimit, err := service.CheckFileSize(ctx, "user_abc", 2<<20)
	if err != nil {
		t.Fatalf("check file size: %v", err)
	}
	if !atLimit.Allowed || atLimit.CurrentBytes != 2<<20 {
		t.Fatalf("expected exactly-at-limit upload allowed, got %+v", atLimit)
	}

	oneOver, err := service.CheckFileSize(ctx, "user_abc", 2<<20+1)
	if err != nil {
		t.Fatalf("check file size: %v", err)
	}
	if oneOver.Allowed || oneOver.Reason != domain.ReasonFileTooLarge {
		t.Fatalf("expected one-byte-over denial, got %+v", oneOver)
	}
}

func TestRecordSurfacesLedgerError(t *testing.T) {
	usage := &usageStub{incErr: errors.New("db down")}
	service := newCheckService(t, tier.Free, usage, time.Now().UTC())

	err := service.Record(context.Background(), domain.RecordRequest{
		UserID:  "user_abc",
		Feature: tier.FeatureAnalyze,
	})
	if err == nil {
		t.Fatal("expected error from ledger")
	}
}

func TestRecordIncrements(t *testing.T) {
	usage := &usageStub{}
	service := newCheckService(t, tier.Free, usage, time.Now().UTC())

	if err := service.Record(context.Background(), domain.RecordRequest{
		UserID:  "user_abc",
		Feature: tier.FeatureImprove,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if usage.counts[tier.FeatureImprove] != 1 {
		t.Fatalf("expected count 1, got %d", usage.counts[tier.FeatureImprove])
	}
}
