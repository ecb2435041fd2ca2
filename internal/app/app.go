package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/database"
	"travelbook/internal/handlers"
	"travelbook/internal/middleware"
	"travelbook/internal/observability"
	"travelbook/internal/repositories"
	"travelbook/internal/security"
	"travelbook/internal/services"
	"travelbook/internal/validation"
	"travelbook/pkg/mailer"
	"travelbook/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

// NotFoundMessage is the body of every response to an unknown route.
const NotFoundMessage = "OOPS!!! 404 Page Not Found"

// App is the assembled HTTP service.
type App struct {
	Fiber *fiber.App
	Prom  *observability.Prom

	cfg     config.Config
	logger  *zap.Logger
	storage *storage
	events  *rabbitmq.Client
}

// Option customises New.
type Option func(*options)

type options struct {
	mail mailer.Sender
}

// WithMailer replaces the sender chosen from the SMTP settings.
func WithMailer(s mailer.Sender) Option {
	return func(o *options) { o.mail = s }
}

// New connects storage and messaging and builds the fiber app.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Prom:    observability.NewProm(),
		cfg:     cfg,
		logger:  logger,
		storage: store,
	}

	var events services.EventPublisher = services.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			_ = store.close()
			return nil, err
		}
		a.events = client
		events = client
	} else {
		logger.Info("RABBITMQ_URL not set, domain events are not published")
	}

	mail := o.mail
	if mail == nil {
		if cfg.SMTPHost != "" {
			mail = mailer.NewSMTPSender(mailer.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFromEmail,
			}, logger)
		} else if cfg.IsProduction() {
			a.closeOnError()
			return nil, errors.New("SMTP_HOST is required in production")
		} else {
			logger.Warn("SMTP_HOST not set, password reset emails are only logged")
			mail = mailer.NewLogSender(logger)
		}
	}

	validate := validation.New()
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	resets := security.NewResetTokenManager(cfg.ResetTokenTTL)

	authService := services.NewAuthService(store.users, hasher, tokens, validate, events, logger)
	passwordService := services.NewPasswordService(store.users, hasher, resets, mail, cfg.FrontendURL, validate, events, logger)
	guard := services.NewSessionGuard(store.users, tokens, logger)
	packageService := services.NewTravelPackageService(store.packages, validate, logger)
	bookingService := services.NewBookingService(store.bookings, store.packages, validate, events, logger)

	authRequired := middleware.AuthRequired(guard, services.SessionCookieName)

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "travelbook",
		Immutable:    true,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		ErrorHandler: a.errorHandler,
	})

	a.Fiber.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recover(logger),
		a.Prom.FiberMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigin,
			AllowCredentials: cfg.CORSOrigin != "*",
		}),
		middleware.Timeout(cfg.RequestTimeout),
	)

	a.Fiber.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("Pong") })
	a.Fiber.Get("/health", a.handleHealth)
	a.Fiber.Get("/metrics", a.Prom.Handler())

	apiV1 := a.Fiber.Group("/api/v1")
	handlers.NewAuthHandler(authService, passwordService, authRequired, cfg.IsProduction(), a.Prom, logger).RegisterRoutes(apiV1)
	handlers.NewTravelPackageHandler(packageService, authRequired, logger).RegisterRoutes(apiV1)
	handlers.NewBookingHandler(bookingService, authRequired, logger).RegisterRoutes(apiV1)

	a.Fiber.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString(NotFoundMessage)
	})

	return a, nil
}

func (a *App) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong, please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	}
	if status == fiber.StatusNotFound {
		return c.Status(status).SendString(NotFoundMessage)
	}
	if status >= fiber.StatusInternalServerError {
		a.logger.Error("unhandled error", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	body := fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": a.cfg.DBDriver,
		"events":   "disabled",
	}
	if a.events != nil {
		body["events"] = "connected"
	}
	if err := a.storage.ping(ctx); err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		body["status"] = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return c.JSON(body)
}

// StartConsumers logs every domain event until ctx is cancelled. It is a
// no-op when messaging is disabled.
func (a *App) StartConsumers(ctx context.Context) error {
	if a.events == nil {
		return nil
	}
	return a.events.ConsumeEvents(ctx, rabbitmq.LogHandler(a.logger))
}

// Listen serves HTTP on the configured port until Shutdown.
func (a *App) Listen() error {
	return a.Fiber.Listen(a.cfg.Port)
}

// Shutdown stops the HTTP server and releases storage and messaging.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases storage and messaging without touching the HTTP server.
func (a *App) Close() error {
	var errs []error
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			errs = append(errs, err)
		}
		a.events = nil
	}
	if err := a.storage.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeOnError() {
	if err := a.Close(); err != nil {
		a.logger.Warn("failed to release resources", zap.Error(err))
	}
}

// storage holds the repositories of one backend plus its lifecycle hooks.
type storage struct {
	users    repositories.UserRepository
	packages repositories.TravelPackageRepository
	bookings repositories.BookingRepository
	ping     func(context.Context) error
	close    func() error
}

func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return &storage{
			users:    repositories.NewMemoryUserRepository(),
			packages: repositories.NewMemoryTravelPackageRepository(),
			bookings: repositories.NewMemoryBookingRepository(),
			ping:     func(context.Context) error { return nil },
			close:    func() error { return nil },
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			_ = database.CloseGORM(db)
			return nil, err
		}
		logger.Info("database connected", zap.String("driver", cfg.DBDriver))
		return &storage{
			users:    repositories.NewGORMUserRepository(db),
			packages: repositories.NewGORMTravelPackageRepository(db),
			bookings: repositories.NewGORMBookingRepository(db),
			ping: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			close: func() error { return database.CloseGORM(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		users := repositories.NewMongoUserRepository(db)
		packages := repositories.NewMongoTravelPackageRepository(db)
		bookings := repositories.NewMongoBookingRepository(db)
		for _, ensure := range []func(context.Context) error{users.EnsureIndexes, packages.EnsureIndexes, bookings.EnsureIndexes} {
			if err := ensure(ctx); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, err
			}
		}
		logger.Info("database connected", zap.String("driver", cfg.DBDriver), zap.String("database", cfg.MongoDatabase))
		return &storage{
			users:    users,
			packages: packages,
			bookings: bookings,
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    func() error { return client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
