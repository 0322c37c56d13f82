package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DevVaradPatil/resume-analyzer/internal/analysis"
	analysisdomain "github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/cache"
	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"github.com/DevVaradPatil/resume-analyzer/internal/entitlement"
	entitlementdomain "github.com/DevVaradPatil/resume-analyzer/internal/entitlement/domain"
	obslogger "github.com/DevVaradPatil/resume-analyzer/internal/observability/logger"
	obsmetrics "github.com/DevVaradPatil/resume-analyzer/internal/observability/metrics"
	obstracing "github.com/DevVaradPatil/resume-analyzer/internal/observability/tracing"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment"
	paymentdomain "github.com/DevVaradPatil/resume-analyzer/internal/payment/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/pdf"
	"github.com/DevVaradPatil/resume-analyzer/internal/ratelimit"
	"github.com/DevVaradPatil/resume-analyzer/internal/resume"
	resumedomain "github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/subscription"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"github.com/DevVaradPatil/resume-analyzer/internal/usage"
	usagedomain "github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/user"
	userdomain "github.com/DevVaradPatil/resume-analyzer/internal/user/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/user/webhook"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tier.Module,
	user.Module,
	subscription.Module,
	usage.Module,
	entitlement.Module,
	payment.Module,
	analysis.Module,
	pdf.Module,
	resume.Module,
	ratelimit.Module,
	cache.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB
	genID  *snowflake.Node
	clock  clock.Clock

	catalog         *tier.Catalog
	userSvc         userdomain.Service
	subscriptionSvc subscriptiondomain.Service
	usageSvc        usagedomain.Service
	entitlementSvc  entitlementdomain.Service
	paymentSvc      paymentdomain.Service
	resumeSvc       resumedomain.Service
	analysisEngine  analysisdomain.Engine
	extractor       pdf.Extractor

	webhookVerifier *webhook.Verifier
	analysisLimiter *ratelimit.AnalysisLimiter
	dashboardCache  cache.DashboardCache
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	GenID *snowflake.Node
	Clock clock.Clock

	Catalog         *tier.Catalog
	UserSvc         userdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	UsageSvc        usagedomain.Service
	EntitlementSvc  entitlementdomain.Service
	PaymentSvc      paymentdomain.Service
	ResumeSvc       resumedomain.Service
	AnalysisEngine  analysisdomain.Engine
	Extractor       pdf.Extractor

	WebhookVerifier *webhook.Verifier          `optional:"true"`
	AnalysisLimiter *ratelimit.AnalysisLimiter `optional:"true"`
	DashboardCache  cache.DashboardCache
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		db:              p.DB,
		genID:           p.GenID,
		clock:           p.Clock,
		catalog:         p.Catalog,
		userSvc:         p.UserSvc,
		subscriptionSvc: p.SubscriptionSvc,
		usageSvc:        p.UsageSvc,
		entitlementSvc:  p.EntitlementSvc,
		paymentSvc:      p.PaymentSvc,
		resumeSvc:       p.ResumeSvc,
		analysisEngine:  p.AnalysisEngine,
		extractor:       p.Extractor,
		webhookVerifier: p.WebhookVerifier,
		analysisLimiter: p.AnalysisLimiter,
		dashboardCache:  p.DashboardCache,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerWebhookRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	s.engine.GET("/api/tiers", s.ListTiers)

	api := s.engine.Group("/api")
	api.Use(s.AuthMiddleware())
	{
		api.GET("/subscription/status", s.GetSubscription)
		api.GET("/subscription/init", s.Init)
		api.POST("/subscription/init", s.Init)
		api.POST("/subscription/check-access", s.CheckAccess)
		api.POST("/subscription/create-order", s.CreatePaymentOrder)
		api.POST("/subscription/verify-payment", s.VerifyPayment)

		api.POST("/analyze", s.AnalyzeMatch)
		api.POST("/analyze-overall", s.AnalyzeOverall)
		api.POST("/improve-section", s.ImproveSection)

		api.GET("/dashboard/stats", s.DashboardStats)
		api.GET("/dashboard/analysis/:id", s.GetResume)
		api.GET("/resumes", s.ListResumes)
		api.DELETE("/resumes/:id", s.DeleteResume)
	}
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/api/webhooks/identity", s.IdentityWebhook)
}
