package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/senyabanana/sme-tenders/internal/cache"
	"github.com/senyabanana/sme-tenders/internal/events"
	"github.com/senyabanana/sme-tenders/internal/gateway"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/repository"
	"github.com/senyabanana/sme-tenders/internal/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// snapshotTTL - время хранения терминального снимка в кэше.
const snapshotTTL = 24 * time.Hour

// PaymentConfig - параметры сверки платежей.
type PaymentConfig struct {
	ExpiryWindow time.Duration // PENDING дольше окна считается TIMEOUT
	PushTimeout  time.Duration
}

// PaymentService инициирует STK push и сверяет транзакции по callback провайдера.
type PaymentService struct {
	Repo         repository.PaymentRepository
	BusinessRepo repository.BusinessRepository
	Gateway      gateway.Gateway
	Cache        cache.Cache
	Events       *events.Manager
	Logger       *slog.Logger
	cfg          PaymentConfig
	now          func() time.Time
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(
	repo repository.PaymentRepository,
	businessRepo repository.BusinessRepository,
	gw gateway.Gateway,
	c cache.Cache,
	ev *events.Manager,
	logger *slog.Logger,
	cfg PaymentConfig,
) *PaymentService {
	return &PaymentService{
		Repo:         repo,
		BusinessRepo: businessRepo,
		Gateway:      gw,
		Cache:        c,
		Events:       ev,
		Logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

func snapshotKey(checkoutRequestId string) string {
	return "payment:" + checkoutRequestId
}

// Initiate сохраняет PENDING транзакцию и отправляет STK push.
// Ответ возвращается сразу, результат оплаты приходит позже через callback.
func (s *PaymentService) Initiate(ctx context.Context, req models.InitiatePaymentRequest) (resp *models.InitiatePaymentResponse, err error) {
	ctx, span := tracing.Start(ctx, "PaymentService.Initiate")
	defer func() { tracing.End(span, err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	payment, err := s.Repo.CreatePayment(ctx, models.PaymentTransaction{
		ID:                uuid.NewString(),
		MerchantRequestID: "MR-" + uuid.NewString(),
		CheckoutRequestID: "CR-" + uuid.NewString(),
		PhoneNumber:       models.NormalizePhoneNumber(req.PhoneNumber),
		Amount:            req.Amount,
		AccountReference:  req.AccountReference,
		Description:       req.Description,
		UserID:            req.UserID,
		BusinessID:        req.BusinessID,
		OrderID:           req.OrderID,
		TenderID:          req.TenderID,
		Status:            models.PendingPayment,
		Metadata:          req.Metadata,
		IsSimulation:      s.Gateway.IsSimulation(),
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("payment.checkout_request_id", payment.CheckoutRequestID))

	pushCtx, cancel := context.WithTimeout(ctx, s.cfg.PushTimeout)
	defer cancel()

	pushed, err := s.Gateway.Push(pushCtx, gateway.PushRequest{
		MerchantRequestID: payment.MerchantRequestID,
		CheckoutRequestID: payment.CheckoutRequestID,
		PhoneNumber:       payment.PhoneNumber,
		Amount:            payment.Amount,
		AccountReference:  payment.AccountReference,
		Description:       payment.Description,
	})
	if err != nil {
		if failErr := s.Repo.FailPending(context.WithoutCancel(ctx), payment.ID, err.Error()); failErr != nil {
			s.Logger.Error("failed to mark payment as failed", slog.String("payment_id", payment.ID), slog.Any("error", failErr))
		}
		s.Logger.Warn("payment gateway refused push", slog.String("payment_id", payment.ID), slog.Any("error", err))
		return nil, models.Errorf(models.ErrGateway, "payment gateway refused the request: %v", err)
	}

	if pushed.CheckoutRequestID != "" && pushed.CheckoutRequestID != payment.CheckoutRequestID {
		merchantRequestId := pushed.MerchantRequestID
		if merchantRequestId == "" {
			merchantRequestId = payment.MerchantRequestID
		}
		payment, err = s.Repo.RebindRequestIDs(ctx, payment.ID, merchantRequestId, pushed.CheckoutRequestID)
		if err != nil {
			return nil, err
		}
	}

	s.Logger.Info("payment initiated",
		slog.String("checkout_request_id", payment.CheckoutRequestID),
		slog.Bool("simulation", payment.IsSimulation))

	return &models.InitiatePaymentResponse{
		MerchantRequestID:   payment.MerchantRequestID,
		CheckoutRequestID:   payment.CheckoutRequestID,
		ResponseCode:        pushed.ResponseCode,
		ResponseDescription: pushed.ResponseDescription,
		CustomerMessage:     pushed.CustomerMessage,
	}, nil
}

// HandleCallback применяет callback провайдера к ожидающей транзакции.
// Каждый callback записывается в журнал. Ошибка возвращается только при сбое хранилища,
// на ответ вызывающему webhook она не влияет.
func (s *PaymentService) HandleCallback(ctx context.Context, payload []byte) (outcome models.CallbackOutcome, err error) {
	ctx, span := tracing.Start(ctx, "PaymentService.HandleCallback")
	defer func() {
		span.SetAttributes(attribute.String("callback.outcome", string(outcome)))
		tracing.End(span, err)
	}()

	res, parseErr := gateway.ParseCallback(payload)
	if parseErr != nil {
		s.Logger.Warn("malformed payment callback", slog.Any("error", parseErr))
		reason := parseErr.Error()
		s.record(ctx, models.CallbackRecord{Outcome: models.CallbackMalformed, ParseError: &reason, Payload: payload})
		return models.CallbackMalformed, nil
	}

	status := models.FailedPayment
	if res.Success {
		status = models.SuccessPayment
	}

	rec := models.CallbackRecord{
		CheckoutRequestID: &res.CheckoutRequestID,
		MerchantRequestID: &res.MerchantRequestID,
		ResultCode:        &res.ResultCode,
		Payload:           payload,
	}

	tx, applied, err := s.Repo.Settle(ctx, res.CheckoutRequestID, status, models.Settlement{
		ResultCode:      strconv.Itoa(res.ResultCode),
		ResultDesc:      res.ResultDesc,
		ReceiptNumber:   res.ReceiptNumber,
		PaidAmount:      res.PaidAmount,
		TransactionDate: res.TransactionDate,
		Raw:             payload,
	})
	if err != nil {
		return "", err
	}

	log := s.Logger.With(slog.String("checkout_request_id", res.CheckoutRequestID), slog.Int("result_code", res.ResultCode))
	switch {
	case applied:
		outcome = models.CallbackApplied
		log.Info("payment settled", slog.String("status", string(tx.Status)))
		if err := cache.SetJSON(ctx, s.Cache, snapshotKey(tx.CheckoutRequestID), tx.Snapshot(), snapshotTTL); err != nil {
			log.Warn("failed to cache payment snapshot", slog.Any("error", err))
		}
		s.Events.PublishPaymentSettled(ctx, *tx)
	default:
		_, lookupErr := s.Repo.GetByCheckoutID(ctx, res.CheckoutRequestID)
		switch {
		case errors.Is(lookupErr, models.ErrNotFound):
			outcome = models.CallbackUnmatched
			log.Warn("payment callback does not match any transaction")
		case lookupErr != nil:
			return "", lookupErr
		default:
			outcome = models.CallbackDuplicate
			log.Warn("payment callback for already finalized transaction ignored")
		}
	}

	rec.Outcome = outcome
	s.record(ctx, rec)
	return outcome, nil
}

func (s *PaymentService) record(ctx context.Context, rec models.CallbackRecord) {
	if err := s.Repo.RecordCallback(ctx, rec); err != nil {
		s.Logger.Error("failed to record payment callback", slog.String("outcome", string(rec.Outcome)), slog.Any("error", err))
	}
}

// QueryStatus возвращает снимок транзакции. Просроченная PENDING транзакция
// сначала переводится в TIMEOUT.
func (s *PaymentService) QueryStatus(ctx context.Context, checkoutRequestId string) (*models.PaymentStatusSnapshot, error) {
	key := snapshotKey(checkoutRequestId)

	var cached models.PaymentStatusSnapshot
	err := cache.GetJSON(ctx, s.Cache, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.Logger.Warn("payment snapshot cache unavailable", slog.Any("error", err))
	}

	payment, err := s.Repo.GetByCheckoutID(ctx, checkoutRequestId)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PendingPayment {
		cutoff := s.now().Add(-s.cfg.ExpiryWindow)
		if payment.CreatedAt.Before(cutoff) {
			expired, applied, err := s.Repo.ExpireStale(ctx, checkoutRequestId, cutoff)
			if err != nil {
				return nil, err
			}
			if applied {
				payment = expired
				s.Logger.Info("payment timed out", slog.String("checkout_request_id", checkoutRequestId))
			} else if payment, err = s.Repo.GetByCheckoutID(ctx, checkoutRequestId); err != nil {
				return nil, err
			}
		}
	}

	snapshot := payment.Snapshot()
	if snapshot.Status.IsTerminal() {
		if err := cache.SetJSON(ctx, s.Cache, key, snapshot, snapshotTTL); err != nil {
			s.Logger.Warn("failed to cache payment snapshot", slog.Any("error", err))
		}
	}
	return &snapshot, nil
}

// ExpirePending переводит в TIMEOUT все транзакции старше окна ожидания.
func (s *PaymentService) ExpirePending(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.ExpiryWindow)
	n, err := s.Repo.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("expired pending payments", slog.Int64("count", n), slog.Time("cutoff", cutoff))
	return n, nil
}

// MyPayments возвращает транзакции, инициированные actor.
func (s *PaymentService) MyPayments(ctx context.Context, actor models.Actor, limit, offset int) (*models.ListResult[models.PaymentTransaction], error) {
	payments, total, err := s.Repo.ListUserPayments(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[models.PaymentTransaction]{
		Results:    payments,
		Pagination: models.Pagination{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// BusinessPayments возвращает транзакции бизнеса и сводку выручки. Доступно только владельцу.
func (s *PaymentService) BusinessPayments(ctx context.Context, actor models.Actor, businessId string, limit, offset int) (*models.BusinessPayments, error) {
	business, err := s.BusinessRepo.GetBusinessByID(ctx, businessId)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != actor.ID {
		return nil, models.NewErrorResponse(models.ErrForbidden, "only the business owner can view its payments")
	}

	payments, total, err := s.Repo.ListBusinessPayments(ctx, businessId, limit, offset)
	if err != nil {
		return nil, err
	}
	summary, err := s.Repo.BusinessSummary(ctx, businessId)
	if err != nil {
		return nil, err
	}

	return &models.BusinessPayments{
		ListResult: models.ListResult[models.PaymentTransaction]{
			Results:    payments,
			Pagination: models.Pagination{Limit: limit, Offset: offset, Total: total},
		},
		Summary: *summary,
	}, nil
}
