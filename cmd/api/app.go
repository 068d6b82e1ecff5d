package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"viewminder/internal/config"
	"viewminder/internal/database"
	"viewminder/internal/middleware"
	"viewminder/internal/modules/admin"
	"viewminder/internal/modules/booking"
	"viewminder/internal/modules/checkout"
	"viewminder/internal/modules/payment"
	"viewminder/internal/modules/relay"
	"viewminder/internal/modules/status"
	"viewminder/internal/pkg/changefeed"
	jwtsvc "viewminder/internal/pkg/jwt"
	"viewminder/internal/pkg/logger"
	"viewminder/internal/pkg/metrics"
	"viewminder/internal/pkg/response"
	"viewminder/internal/repository"
	"viewminder/internal/storage"
)

type app struct {
	router    *gin.Engine
	statusHub *status.Hub
	closers   []func() error
	log       *zap.Logger
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
}

// deps are the collaborators that differ between production and tests.
type deps struct {
	store    repository.BookingStore
	sessions checkout.SessionCreator
	verifier payment.EventVerifier
	registry *prometheus.Registry
	ping     func(ctx context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{log: log}

	d := deps{
		sessions: checkout.NewStripeSessions(cfg.StripeSecretKey),
		verifier: payment.NewStripeVerifier(cfg.StripeWebhookSecret),
		registry: prometheus.NewRegistry(),
	}
	d.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	switch cfg.StoreDriver {
	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		d.store = repository.NewFirestoreBookingRepository(client, cfg.AppID)
		d.ping = func(context.Context) error { return nil }
	default:
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := database.Migrate(db, repository.Models()...); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		d.store = repository.NewBookingRepository(db, cfg.AppID)
		d.ping = sqlDB.PingContext
	}

	if logger.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	router, hub, err := buildRouter(cfg, log, d)
	if err != nil {
		return nil, err
	}
	a.router = router
	a.statusHub = hub
	return a, nil
}

func buildRouter(cfg *config.Config, log *zap.Logger, d deps) (*gin.Engine, *status.Hub, error) {
	m := metrics.New(d.registry)
	feed := changefeed.New()
	store := repository.WithChangeFeed(d.store, feed)
	objects := storage.NewLocalStore(cfg.UploadsDir, cfg.UploadsURLBase, cfg.MaxUploadSize())
	tokens := jwtsvc.New(cfg.AdminSessionSecret, cfg.AdminSessionTTL)

	checkoutHandler := checkout.NewHandler(
		checkout.NewService(d.sessions, cfg.FrontendURL, cfg.CheckoutCurrency, log.Named("checkout"), m),
	)

	bookingService := booking.NewService(store, log.Named("booking"), m)
	bookingHandler := booking.NewHandler(bookingService)

	paymentHandler := payment.NewHandler(
		payment.NewService(d.verifier, bookingService, cfg.WebhookPersistBookings, log.Named("payment"), m),
	)

	hub := status.NewHub()
	statusHandler := status.NewHandler(
		status.NewService(store, feed, cfg.StatusPollInterval, log.Named("status"), m),
		hub, cfg.CORSAllowedOrigins, log.Named("status"),
	)

	authenticator, err := admin.NewAuthenticator(cfg.AdminPassword, tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("admin auth: %w", err)
	}
	adminHandler := admin.NewHandler(
		admin.NewService(store, objects, log.Named("admin"), m),
		authenticator, log.Named("admin"),
	)

	relayHandler := relay.NewHandler(relay.NewService(cfg.RelayAllowedHosts, log.Named("relay")))

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = 8 << 20
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", err.Error())
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))
	r.Static(cfg.UploadsURLBase, cfg.UploadsDir)

	api := r.Group("/api")
	{
		checkoutHandler.RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)
		bookingHandler.RegisterRoutes(api, middleware.InternalTokenAuth(cfg.PersistToken, log.Named("auth")))
		statusHandler.RegisterRoutes(api)
		relayHandler.RegisterRoutes(api)
		adminHandler.RegisterPublicRoutes(api)

		protected := api.Group("/admin")
		protected.Use(middleware.AdminAuth(tokens), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(protected)
		}
	}

	return r, hub, nil
}
