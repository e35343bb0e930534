// Package main Inkpress API
// @title Inkpress API
// @version 1.0
// @description Publishing platform with premium articles, comments, newsletters and analytics
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@inkpress.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/inkpress/inkpress/docs"
	"github.com/inkpress/inkpress/internal/analytics"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/email"
	"github.com/inkpress/inkpress/internal/objstore"
	"github.com/inkpress/inkpress/internal/payments"
	"github.com/inkpress/inkpress/internal/pdf"
	"github.com/inkpress/inkpress/internal/related"
	"github.com/inkpress/inkpress/internal/router"
	"github.com/inkpress/inkpress/internal/scheduler"
	"github.com/inkpress/inkpress/internal/search"
	"github.com/inkpress/inkpress/internal/server"
	"github.com/inkpress/inkpress/internal/storage/factory"
	"github.com/inkpress/inkpress/internal/storage/pg"
	pkgserver "github.com/inkpress/inkpress/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := pg.NewStore(pool)

	searcher, err := factory.NewSearcher(cfg.StorageType, store, cfg.ES)
	if err != nil {
		slog.Error("Failed to create search backend", "error", err)
		os.Exit(1)
	}
	indexer, err := factory.NewIndexer(ctx, cfg.StorageType, cfg.ES)
	if err != nil {
		slog.Error("Failed to create search indexer", "error", err)
		os.Exit(1)
	}

	bucket, err := objstore.NewClient(cfg.S3)
	if err != nil {
		slog.Error("Failed to create object storage client", "error", err)
		os.Exit(1)
	}
	if err := bucket.EnsureBucket(ctx); err != nil {
		slog.Error("Failed to prepare bucket", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	mailer := email.NewMailer(cfg.SMTP)
	mail := email.NewService(store, mailer, cfg.BaseURL)
	payment := payments.NewService(cfg.Stripe, store, mail)
	recalc := related.NewRecalculator(store)
	capture := analytics.NewCapture(store)
	aggregator := analytics.NewAggregator(store)
	searches := search.NewService(searcher, store)
	pdfs := pdf.NewGenerator("Inkpress")

	schedules, err := scheduler.LoadSchedules(cfg.SchedulesPath)
	if err != nil {
		slog.Error("Failed to load schedules", "error", err)
		os.Exit(1)
	}
	jobs, err := scheduler.New(schedules, aggregator, mail)
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

	e := echo.New()
	s := server.NewServer(e, cfg)
	s.BindHealth(pkgserver.NewPingHealthChecker(pool))
	s.SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Inkpress API is running")
	})

	router.NewAuthRouter(e, store, tokens).Bind()
	router.NewArticleRouter(e, store, tokens, indexer, recalc, mail).Bind()
	router.NewCommentRouter(e, store, tokens, mail).Bind()
	router.NewEngagementRouter(e, store, tokens).Bind()
	router.NewCollectionRouter(e, store, tokens).Bind()
	router.NewNewsletterRouter(e, store, tokens, mail).Bind()
	router.NewNotificationRouter(e, store, tokens).Bind()
	router.NewProgressRouter(e, store, tokens).Bind()
	router.NewCitationRouter(e, store, tokens).Bind()
	router.NewMediaRouter(e, store, tokens, bucket, pdfs).Bind()
	router.NewSearchRouter(e, searches, tokens, store).Bind()
	router.NewAnalyticsRouter(e, store, tokens, capture).Bind()
	router.NewPaymentRouter(e, store, tokens, payment).Bind()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
