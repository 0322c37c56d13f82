package server

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analysisdomain "github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/cache"
	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	entitlementdomain "github.com/DevVaradPatil/resume-analyzer/internal/entitlement/domain"
	paymentdomain "github.com/DevVaradPatil/resume-analyzer/internal/payment/domain"
	resumedomain "github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	usagedomain "github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	userdomain "github.com/DevVaradPatil/resume-analyzer/internal/user/domain"
)

type fakeEntitlementService struct {
	featureCheck  *entitlementdomain.FeatureCheck
	featureErr    error
	sizeCheck     *entitlementdomain.FileSizeCheck
	sizeErr       error
	recordErr     error
	recordedReqs  []entitlementdomain.RecordRequest
	featureChecks int
}

func (f *fakeEntitlementService) CheckFeature(ctx context.Context, userID string, feature tier.Feature) (*entitlementdomain.FeatureCheck, error) {
	_ = ctx
	_ = userID
	_ = feature
	f.featureChecks++
	if f.featureErr != nil {
		return nil, f.featureErr
	}
	if f.featureCheck != nil {
		return f.featureCheck, nil
	}
	return &entitlementdomain.FeatureCheck{Allowed: true, Limit: 50}, nil
}

func (f *fakeEntitlementService) CheckFileSize(ctx context.Context, userID string, sizeBytes int64) (*entitlementdomain.FileSizeCheck, error) {
	_ = ctx
	_ = userID
	_ = sizeBytes
	if f.sizeErr != nil {
		return nil, f.sizeErr
	}
	if f.sizeCheck != nil {
		return f.sizeCheck, nil
	}
	return &entitlementdomain.FileSizeCheck{Allowed: true, MaxBytes: 2 << 20}, nil
}

func (f *fakeEntitlementService) Record(ctx context.Context, req entitlementdomain.RecordRequest) error {
	_ = ctx
	f.recordedReqs = append(f.recordedReqs, req)
	return f.recordErr
}

type fakeEngine struct {
	report     analysisdomain.Report
	err        error
	lastMatch  *analysisdomain.MatchRequest
	lastResume string
	lastSect   *analysisdomain.ImproveRequest
}

func (f *fakeEngine) AnalyzeMatch(ctx context.Context, req analysisdomain.MatchRequest) (analysisdomain.Report, error) {
	_ = ctx
	f.lastMatch = &req
	return f.report, f.err
}

func (f *fakeEngine) AnalyzeResume(ctx context.Context, resumeText string) (analysisdomain.Report, error) {
	_ = ctx
	f.lastResume = resumeText
	return f.report, f.err
}

func (f *fakeEngine) ImproveSection(ctx context.Context, req analysisdomain.ImproveRequest) (analysisdomain.Report, error) {
	_ = ctx
	f.lastSect = &req
	return f.report, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	_ = ctx
	_ = data
	return f.text, f.err
}

type fakeResumeService struct {
	saved      []resumedomain.SaveRequest
	logs       []resumedomain.LogRequest
	list       []resumedomain.ResumeSummary
	listReq    *resumedomain.ListRequest
	row        *resumedomain.Resume
	getErr     error
	deleteErr  error
	stats      *resumedomain.Stats
	statsCalls int
}

func (f *fakeResumeService) SaveAnalysis(ctx context.Context, req resumedomain.SaveRequest) (*resumedomain.Resume, error) {
	_ = ctx
	f.saved = append(f.saved, req)
	return &resumedomain.Resume{ID: 42, UserID: req.UserID, FileName: req.FileName}, nil
}

func (f *fakeResumeService) LogAnalysis(ctx context.Context, req resumedomain.LogRequest) error {
	_ = ctx
	f.logs = append(f.logs, req)
	return nil
}

func (f *fakeResumeService) List(ctx context.Context, req resumedomain.ListRequest) ([]resumedomain.ResumeSummary, error) {
	_ = ctx
	f.listReq = &req
	return f.list, nil
}

func (f *fakeResumeService) GetByID(ctx context.Context, userID string, id int64) (*resumedomain.Resume, error) {
	_ = ctx
	_ = userID
	_ = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.row, nil
}

func (f *fakeResumeService) Delete(ctx context.Context, userID string, id int64) error {
	_ = ctx
	_ = userID
	_ = id
	return f.deleteErr
}

func (f *fakeResumeService) UserStats(ctx context.Context, userID string) (*resumedomain.Stats, error) {
	_ = ctx
	_ = userID
	f.statsCalls++
	return f.stats, nil
}

type fakeSubscriptionService struct {
	sub    *subscriptiondomain.Subscription
	getErr error
}

func (f *fakeSubscriptionService) GetOrCreate(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error) {
	_ = ctx
	_ = userID
	return f.sub, nil
}

func (f *fakeSubscriptionService) Get(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error) {
	_ = ctx
	_ = userID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sub, nil
}

func (f *fakeSubscriptionService) SetTier(ctx context.Context, userID string, id tier.ID) (*subscriptiondomain.Subscription, error) {
	_ = ctx
	_ = userID
	f.sub.Tier = id
	return f.sub, nil
}

type fakeUsageService struct {
	summary map[tier.Feature]int64
}

func (f *fakeUsageService) Increment(ctx context.Context, req usagedomain.IncrementRequest) (*usagedomain.FeatureUsage, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakeUsageService) Count(ctx context.Context, userID string, feature tier.Feature, periodKey string) (int64, error) {
	_ = ctx
	_ = userID
	_ = periodKey
	return f.summary[feature], nil
}

func (f *fakeUsageService) Summary(ctx context.Context, userID string, periodKey string) (map[tier.Feature]int64, error) {
	_ = ctx
	_ = userID
	_ = periodKey
	return f.summary, nil
}

type fakePaymentService struct {
	order     *paymentdomain.CreateOrderResponse
	orderErr  error
	verify    *paymentdomain.VerifyResponse
	verifyErr error
	lastOrder *paymentdomain.CreateOrderRequest
}

func (f *fakePaymentService) CreateOrder(ctx context.Context, req paymentdomain.CreateOrderRequest) (*paymentdomain.CreateOrderResponse, error) {
	_ = ctx
	f.lastOrder = &req
	return f.order, f.orderErr
}

func (f *fakePaymentService) VerifyAndApply(ctx context.Context, req paymentdomain.VerifyRequest) (*paymentdomain.VerifyResponse, error) {
	_ = ctx
	return f.verify, f.verifyErr
}

type fakeUserService struct {
	synced    []userdomain.IdentityUser
	deleted   []string
	deleteErr error
}

func (f *fakeUserService) Sync(ctx context.Context, identity userdomain.IdentityUser) (*userdomain.User, error) {
	_ = ctx
	f.synced = append(f.synced, identity)
	return &userdomain.User{ExternalID: identity.ExternalID, Email: identity.Email}, nil
}

func (f *fakeUserService) GetByExternalID(ctx context.Context, externalID string) (*userdomain.User, error) {
	_ = ctx
	_ = externalID
	return nil, userdomain.ErrNotFound
}

func (f *fakeUserService) Delete(ctx context.Context, externalID string) error {
	_ = ctx
	f.deleted = append(f.deleted, externalID)
	return f.deleteErr
}

func testNow() time.Time {
	return time.Date(2025, time.May, 14, 9, 30, 0, 0, time.UTC)
}

func mustCatalog(t *testing.T) *tier.Catalog {
	t.Helper()
	catalog, err := tier.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return catalog
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := mustCatalog(t)
	return &Server{
		cfg:            config.Config{AuthJWTSecret: "test-secret", Gemini: config.GeminiConfig{Model: "gemini-2.5-flash"}},
		log:            zap.NewNop(),
		clock:          clock.NewFakeClock(testNow()),
		catalog:        catalog,
		dashboardCache: cache.NewDashboardCache(),
	}
}

// authedRouter wires a route the way registerAPIRoutes does, but with
// the user id injected directly instead of a signed token.
func authedRouter(userID string, register func(*gin.Engine)) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.Use(ErrorHandlingMiddleware())
	register(router)
	return router
}
