package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/senyabanana/sme-tenders/internal/cache"
	"github.com/senyabanana/sme-tenders/internal/db"
	"github.com/senyabanana/sme-tenders/internal/events"
	"github.com/senyabanana/sme-tenders/internal/gateway"
	"github.com/senyabanana/sme-tenders/internal/handlers"
	"github.com/senyabanana/sme-tenders/internal/middleware"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/repository"
	"github.com/senyabanana/sme-tenders/internal/router"
	"github.com/senyabanana/sme-tenders/internal/router/config"
	"github.com/senyabanana/sme-tenders/internal/services"
	"github.com/senyabanana/sme-tenders/internal/tracing"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "sme-tenders",
		Short:         "SME tender marketplace with mobile-money payments",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing app.env")

	load := func() (config.Config, *slog.Logger, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, nil, fmt.Errorf("cannot load config: %w", err)
		}
		return cfg, newLogger(cfg.LogLevel), nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Apply migrations and run the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				return serve(cmd.Context(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				return migrateUp(cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "expire-payments",
			Short: "Mark PENDING payments older than the expiry window as TIMEOUT",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				return expirePayments(cmd.Context(), cfg, logger)
			},
		},
		newTokenCmd(load),
	)

	return root
}

func newTokenCmd(load func() (config.Config, *slog.Logger, error)) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			actor := models.Actor{ID: subject, Role: models.Role(strings.ToUpper(role))}
			if actor.ID == "" || !actor.Role.Valid() {
				return errors.New("--sub and a valid --role (CONSUMER, BROKER, SME, ADMIN) are required")
			}

			token, err := middleware.NewAuthenticator(cfg.JWTSecret).IssueToken(actor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "user id")
	cmd.Flags().StringVar(&role, "role", "", "user role")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func migrateUp(cfg config.Config, logger *slog.Logger) error {
	conn, err := db.ConnString(cfg)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(cfg.MigrationURL, conn); err != nil {
		return err
	}
	logger.Info("db migrated successfully")
	return nil
}

func expirePayments(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	paymentService := services.NewPaymentService(
		repository.NewPostgresPaymentRepository(dbPool),
		repository.NewPostgresBusinessRepository(dbPool),
		nil,
		cache.NewInMemoryCache(),
		events.NewManager(false, logger),
		logger,
		services.PaymentConfig{ExpiryWindow: cfg.PaymentExpiryWindow, PushTimeout: cfg.PaymentPushTimeout},
	)

	_, err = paymentService.ExpirePending(ctx)
	return err
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	if err := migrateUp(cfg, logger); err != nil {
		return err
	}

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer dbPool.Close()

	shutdownTracing, err := tracing.Init(tracing.Config{Enabled: cfg.TracingEnabled, Endpoint: cfg.TracingEndpoint})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", slog.Any("error", err))
		}
	}()

	snapshots := newCache(ctx, cfg, logger)

	eventManager := events.NewManager(true, logger)
	eventManager.SubscribeAll(events.NewLogHandler(logger))
	if cfg.SQSQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("unable to load AWS SDK config: %w", err)
		}
		eventManager.SubscribeAll(events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL).Handle)
		logger.Info("publishing events to SQS", slog.String("queue_url", cfg.SQSQueueURL))
	}
	defer eventManager.Shutdown()

	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	bidRepo := repository.NewPostgresBidRepository(dbPool)
	businessRepo := repository.NewPostgresBusinessRepository(dbPool)
	paymentRepo := repository.NewPostgresPaymentRepository(dbPool)

	var (
		paymentGateway gateway.Gateway
		sandbox        *gateway.SandboxGateway
	)
	switch cfg.PaymentGateway {
	case config.GatewayDaraja:
		paymentGateway = gateway.NewDarajaGateway(gateway.DarajaConfig{
			BaseURL:        cfg.DarajaBaseURL,
			ConsumerKey:    cfg.DarajaConsumerKey,
			ConsumerSecret: cfg.DarajaConsumerSecret,
			ShortCode:      cfg.DarajaShortCode,
			PassKey:        cfg.DarajaPassKey,
			CallbackURL:    cfg.DarajaCallbackURL,
		}, nil)
	default:
		sandbox = gateway.NewSandboxGateway(gateway.SandboxConfig{
			Delay:       cfg.SandboxCallbackDelay,
			FailureRate: cfg.SandboxFailureRate,
		}, logger)
		paymentGateway = sandbox
		logger.Warn("payment gateway runs in sandbox mode, no real money is moved")
	}

	tenderService := services.NewTenderService(tenderRepo, bidRepo, eventManager, logger)
	bidService := services.NewBidService(bidRepo, tenderRepo, businessRepo, logger)
	paymentService := services.NewPaymentService(paymentRepo, businessRepo, paymentGateway, snapshots, eventManager, logger,
		services.PaymentConfig{ExpiryWindow: cfg.PaymentExpiryWindow, PushTimeout: cfg.PaymentPushTimeout})

	if sandbox != nil {
		if cfg.DarajaCallbackURL != "" {
			sandbox.SetSink(gateway.NewHTTPSink(&http.Client{Timeout: 10 * time.Second}, cfg.DarajaCallbackURL, logger))
		} else {
			sandbox.SetSink(func(ctx context.Context, payload []byte) {
				if _, err := paymentService.HandleCallback(ctx, payload); err != nil {
					logger.Error("failed to process sandbox callback", slog.Any("error", err))
				}
			})
		}
		defer sandbox.Wait()
	}

	routes := router.InitRoutes(router.Handlers{
		Tender:  handlers.NewTenderHandler(tenderService, logger, cfg.RequestTimeout),
		Bid:     handlers.NewBidHandler(bidService, logger, cfg.RequestTimeout),
		Payment: handlers.NewPaymentHandler(paymentService, logger, cfg.RequestTimeout),
	}, middleware.NewAuthenticator(cfg.JWTSecret), cfg.CORSAllowedOrigins, logger)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is listening", slog.String("address", cfg.ServerAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCache(ctx context.Context, cfg config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewInMemoryCache()
	}
	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory payment cache", slog.Any("error", err))
		return cache.NewInMemoryCache()
	}
	go func() {
		<-ctx.Done()
		_ = redisCache.Close()
	}()
	return redisCache
}
