package bootstrap

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/primer-realty/internal/api/router"
	"github.com/wolfman30/primer-realty/internal/blog"
	"github.com/wolfman30/primer-realty/internal/booking"
	"github.com/wolfman30/primer-realty/internal/catalog"
	appconfig "github.com/wolfman30/primer-realty/internal/config"
	"github.com/wolfman30/primer-realty/internal/favorites"
	"github.com/wolfman30/primer-realty/internal/fixtures"
	httpmiddleware "github.com/wolfman30/primer-realty/internal/http/middleware"
	"github.com/wolfman30/primer-realty/internal/inquiry"
	"github.com/wolfman30/primer-realty/internal/newsletter"
	"github.com/wolfman30/primer-realty/internal/observability/metrics"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// App is the assembled HTTP service.
type App struct {
	Handler http.Handler

	Properties *catalog.Repository
	Posts      *fixtures.Collection[blog.Post]
	Wizard     *booking.Wizard

	closers []func()
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Build wires every component from configuration. awsCfg may be nil when no
// AWS-backed backend is selected. The returned App owns its connections;
// the context only bounds startup.
func Build(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	app := &App{}
	fail := func(err error) (*App, error) {
		app.Close()
		return nil, err
	}

	var (
		reg            prometheus.Registerer
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		reg = registry
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}
	var (
		catalogMetrics *metrics.CatalogMetrics
		fixtureMetrics *metrics.FixtureMetrics
		bookingMetrics *metrics.BookingMetrics
	)
	if reg != nil {
		catalogMetrics = metrics.NewCatalogMetrics(reg)
		fixtureMetrics = metrics.NewFixtureMetrics(reg)
		bookingMetrics = metrics.NewBookingMetrics(reg)
	}

	kv, err := BuildKVStore(ctx, cfg, awsCfg, logger)
	if err != nil {
		return fail(err)
	}
	app.closers = append(app.closers, kv.Close)
	logger.Info("visitor state backend", "backend", kv.Backend)

	checks := map[string]router.Check{}
	if kv.Check != nil {
		checks["kv"] = kv.Check
	}

	var submissions *booking.SubmissionLog
	db, err := OpenDatabase(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Warn("submission log disabled", "error", err)
	} else if db != nil {
		app.closers = append(app.closers, func() { _ = db.Close() })
		submissions = booking.NewSubmissionLog(db)
		checks["database"] = dbCheck(db)
	}

	validator, err := fixtures.NewValidator()
	if err != nil {
		return fail(err)
	}
	propSource, postSource, err := FixtureSources(cfg, awsCfg)
	if err != nil {
		return fail(err)
	}
	propColl := fixtures.NewCollection(fixtures.Options[catalog.Property]{
		Name:      "properties",
		Source:    propSource,
		Validator: validator,
		Schema:    fixtures.SchemaProperties,
		Decode:    catalog.DecodeDocument,
		Observer:  fixtureMetrics,
		Logger:    logger,
	})
	app.Posts = fixtures.NewCollection(fixtures.Options[blog.Post]{
		Name:      "blog",
		Source:    postSource,
		Validator: validator,
		Schema:    fixtures.SchemaBlog,
		Decode:    blog.DecodeDocument,
		Observer:  fixtureMetrics,
		Logger:    logger,
	})
	app.Properties = catalog.NewRepository(propColl)
	// An empty catalog still serves; operators can retry via /admin reload.
	_ = LoadFixtures(ctx, logger, map[string]Reloader{
		"properties": propColl,
		"blog":       app.Posts,
	})

	sender, err := BuildEmailSender(cfg, awsCfg, logger)
	if err != nil {
		return fail(err)
	}
	formRelay, err := BuildRelay(cfg, sender, bookingMetrics, logger)
	if err != nil {
		return fail(err)
	}

	opts := []booking.WizardOption{}
	if submissions != nil {
		opts = append(opts, booking.WithRecorder(submissions))
	}
	app.Wizard = booking.NewWizard(booking.NewSessionStore(kv.Store), formRelay, bookingMetrics, logger, opts...)

	favs := favorites.NewService(kv.Store)

	var lister booking.SubmissionLister
	if submissions != nil {
		lister = submissions
	}

	// Limiter cleanup lives as long as the process.
	limiter := httpmiddleware.NewRateLimiter(context.Background(), cfg.RateLimitRPS, cfg.RateLimitBurst)

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		Catalog:            catalog.NewHandler(app.Properties, favs, catalogMetrics, logger),
		Blog:               blog.NewHandler(app.Posts, blog.NewReadTracker(kv.Store), catalogMetrics, logger),
		Favorites:          favorites.NewHandler(favs, app.Properties, logger),
		Booking:            booking.NewHandler(app.Wizard, lister, logger),
		Newsletter:         newsletter.NewHandler(newsletter.NewService(kv.Store, sender, logger), logger),
		Inquiries:          inquiry.NewHandler(inquiry.NewService(kv.Store, formRelay, app.Properties, logger), logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		SecureCookies:      !cfg.IsDevelopment(),
		Checks:             checks,
	})
	return app, nil
}

func dbCheck(db *sql.DB) router.Check {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}
