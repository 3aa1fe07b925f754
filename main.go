package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediastore/domain/repository"
	"mediastore/infrastructure/cache"
	"mediastore/infrastructure/captcha"
	"mediastore/infrastructure/clients/identity"
	"mediastore/infrastructure/configuration"
	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/persistence"
	"mediastore/infrastructure/pubsub"
	"mediastore/infrastructure/realtime"
	"mediastore/infrastructure/servicebus"
	"mediastore/infrastructure/storage"
	"mediastore/infrastructure/tenant"
	"mediastore/infrastructure/token"
	httpHandler "mediastore/interfaces/http"
	"mediastore/interfaces/middleware"
	"mediastore/server"
	"mediastore/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// OS env keeps precedence over these files.
	loaded := configuration.LoadEnvFromFile("config.env", ".env")
	logger.GetLogger().WithField("files", loaded).Info("Environment files loaded")

	cfg := configuration.C
	if err := cfg.Validate(); err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Invalid configuration")
	}

	issuer, err := token.NewIssuer(cfg.Jwt.Secret, cfg.Jwt.AccessTTL(), cfg.Jwt.RefreshTTL())
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot create token issuer")
	}

	mongoClient, err := persistence.NewMongoDb(cfg.Database.Mongo)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot connect to MongoDB")
	}
	mongoDb := mongoClient.Database(cfg.Database.Mongo.Name)
	if err := persistence.EnsureMongoIndexes(ctx, mongoDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring mongo indexes")
	}
	userRepository := persistence.NewUserRepository(mongoDb)
	entryRepository := persistence.NewEntryRepository(mongoDb)
	assetRepository := persistence.NewAssetRepository(mongoDb)

	ledgerDb, entitlementRepository, err := InitiateLedger()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Entitlement ledger initialization failed")
	}

	checks := map[string]httpHandler.Pinger{
		"mongo":  func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		"ledger": ledgerDb.PingContext,
	}

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
		cfg.RedisClient.Username,
		cfg.RedisClient.Password,
	)
	var cleanupLock repository.ILock
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - scheduled cleanup runs without a lock")
	} else {
		cleanupLock = cache.NewRedisLock(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var presigner repository.IPresigner
	if cfg.R2.Enabled() {
		r2, err := storage.NewR2Presigner(ctx, cfg.R2)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot create R2 presigner - uploads disabled")
		} else {
			presigner = r2
		}
	} else {
		logger.GetLogger().Info("R2 not configured - uploads disabled")
	}

	events := InitiateEvents(ctx, cfg)

	hub := realtime.NewEntryHub()
	entryUsecase := usecase.NewEntryUsecase(entryRepository, assetRepository, userRepository, presigner, events).
		WithBroadcaster(hub.BroadcastEntryStatus)
	authUsecase := usecase.NewAuthUsecase(userRepository)
	sessionUsecase := usecase.NewSessionUsecase(authUsecase, issuer)
	entitlementUsecase := usecase.NewEntitlementUsecase(entryRepository, assetRepository, entitlementRepository)
	cleanupUsecase := usecase.NewCleanupUsecase(entryRepository, assetRepository, cleanupLock)
	publicEntryUsecase := usecase.NewPublicEntryUsecase(entryRepository)

	handlers := server.Handlers{
		Auth:        httpHandler.NewAuthHandler(sessionUsecase, cfg.Cookie, issuer.RefreshTTL()),
		Entry:       httpHandler.NewEntryHandler(entryUsecase, hub),
		Entitlement: httpHandler.NewEntitlementHandler(entitlementUsecase),
		Cleanup:     httpHandler.NewCleanupHandler(cleanupUsecase),
		PublicEntry: httpHandler.NewPublicEntryHandler(publicEntryUsecase),
		Health:      httpHandler.NewHealthHandler(checks),
	}

	if providers := identity.FromConfig(cfg.OAuth); len(providers) > 0 {
		handlers.OAuth = httpHandler.NewOAuthHandler(providers, authUsecase, cfg.Frontend.BaseURI, cfg.Cookie.Secure)
	} else {
		logger.GetLogger().Warn("No OAuth provider configured - sign in disabled")
	}

	if cfg.Database.MySql.Host != "" {
		gormDb, err := persistence.NewGormMySQL(cfg.Database.MySql)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MySQL - waitlist disabled")
		} else {
			waitlist := usecase.NewWaitlistUsecase(
				persistence.NewWaitlistRepository(gormDb),
				captcha.NewHCaptcha(cfg.Captcha.Secret, cfg.Captcha.VerifyURL),
			)
			handlers.Waitlist = httpHandler.NewWaitlistHandler(waitlist)
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				limiter.Prune()
			}
		}
	})

	router := server.InitiateRouter(handlers, server.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		Resolver:       tenant.NewResolver(cfg.Tenant.Default, cfg.Tenant.RootDomain, cfg.Tenant.Domains),
		Header:         middleware.HeaderPipeline(issuer),
		Cookie:         middleware.CookiePipeline(issuer, cfg.Cookie.Name),
		InternalSecret: cfg.Cleanup.Secret,
		Limiter:        limiter,
	})

	if interval := cfg.Cleanup.Interval(); interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					sweepCtx, cancelSweep := context.WithTimeout(ctx, cfg.Cleanup.LockTTL())
					report, err := cleanupUsecase.ScheduledSweep(sweepCtx, cfg.Cleanup.LockTTL())
					cancelSweep()
					if err != nil {
						logger.GetLogger().WithField("error", err).Error("Scheduled draft cleanup failed")
					} else if report != nil {
						logger.GetLogger().WithField("deleted", report.DeletedCount).Info("Scheduled draft cleanup finished")
					}
				}
			}
		})
	}

	app := cfg.App
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		var err error
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			if app.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	_ = mongoClient.Disconnect(shutdownCtx)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateLedger opens the entitlement store: Azure SQL in production or
// when DB_VENDOR=mssql, PostgreSQL otherwise.
func InitiateLedger() (*sql.DB, repository.IEntitlement, error) {
	env := os.Getenv("ENV")
	if os.Getenv("DB_VENDOR") == "mssql" || env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB(configuration.C.Database.Mssql)
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureEntitlementSchemaMSSQL(db); err != nil {
			return nil, nil, err
		}
		return db, persistence.NewEntitlementRepositoryMSSQL(db), nil
	}

	db, err := persistence.NewPostgreSQLDB(configuration.C.Database.Psql)
	if err != nil {
		return nil, nil, err
	}
	if err := persistence.EnsureEntitlementSchema(db); err != nil {
		return nil, nil, err
	}
	return db, persistence.NewEntitlementRepository(db), nil
}

// InitiateEvents returns the configured asset-uploaded publisher, or nil when
// notifications are off or the broker is unreachable.
func InitiateEvents(ctx context.Context, cfg configuration.Config) repository.IAssetEvents {
	switch cfg.Events.Backend {
	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
			return nil
		}
		return pubsub.NewAssetEvents(client, cfg.Events.Topic)
	case "servicebus":
		client, err := servicebus.NewServiceBus(cfg.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without asset events")
			return nil
		}
		return servicebus.NewAssetEvents(client, cfg.Events.Topic)
	}
	return nil
}
