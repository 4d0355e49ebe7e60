package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/senyabanana/sme-tenders/internal/cache"
	"github.com/senyabanana/sme-tenders/internal/db"
	"github.com/senyabanana/sme-tenders/internal/events"
	"github.com/senyabanana/sme-tenders/internal/repository"
	"github.com/senyabanana/sme-tenders/internal/router/config"
	"github.com/senyabanana/sme-tenders/internal/services"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	logger         *slog.Logger
	dbPool         *pgxpool.Pool
	paymentService *services.PaymentService
)

func init() {
	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("cannot load config", slog.Any("error", err))
		os.Exit(1)
	}

	dbPool, err = db.InitDb(context.Background(), cfg)
	if err != nil {
		logger.Error("error initializing database", slog.Any("error", err))
		os.Exit(1)
	}

	paymentService = services.NewPaymentService(
		repository.NewPostgresPaymentRepository(dbPool),
		repository.NewPostgresBusinessRepository(dbPool),
		nil,
		cache.NewInMemoryCache(),
		events.NewManager(false, logger),
		logger,
		services.PaymentConfig{ExpiryWindow: cfg.PaymentExpiryWindow, PushTimeout: cfg.PaymentPushTimeout},
	)
}

// ExpiryResult - итог одного запуска.
type ExpiryResult struct {
	Expired int64 `json:"expired"`
}

// HandleRequest запускается по расписанию EventBridge и переводит
// зависшие PENDING платежи в TIMEOUT.
func HandleRequest(ctx context.Context) (ExpiryResult, error) {
	n, err := paymentService.ExpirePending(ctx)
	if err != nil {
		logger.Error("failed to expire pending payments", slog.Any("error", err))
		return ExpiryResult{}, err
	}
	return ExpiryResult{Expired: n}, nil
}

func main() {
	defer dbPool.Close()
	lambda.Start(HandleRequest)
}
