package gateway

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Код и описание отмены запроса пользователем.
const (
	CancelledResultCode = 1032
	cancelledResultDesc = "Request cancelled by user"
	successResultDesc   = "The service request is processed successfully."
)

// CallbackSink доставляет тело callback обработчику.
type CallbackSink func(ctx context.Context, payload []byte)

// SandboxConfig - параметры песочницы.
type SandboxConfig struct {
	Delay       time.Duration
	FailureRate float64
}

// SandboxGateway принимает любой запрос и через Delay доставляет callback:
// успешный или с кодом 1032 с вероятностью FailureRate.
type SandboxGateway struct {
	cfg    SandboxConfig
	logger *slog.Logger
	random func() float64
	now    func() time.Time

	mu   sync.RWMutex
	sink CallbackSink
	wg   sync.WaitGroup
}

// NewSandboxGateway создает песочницу без получателя callback.
func NewSandboxGateway(cfg SandboxConfig, logger *slog.Logger) *SandboxGateway {
	return &SandboxGateway{
		cfg:    cfg,
		logger: logger,
		random: rand.Float64,
		now:    time.Now,
	}
}

var _ Gateway = (*SandboxGateway)(nil)

// SetSink задает получателя callback.
func (g *SandboxGateway) SetSink(sink CallbackSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sink = sink
}

// IsSimulation всегда true.
func (g *SandboxGateway) IsSimulation() bool { return true }

// Push подтверждает запрос и планирует callback.
func (g *SandboxGateway) Push(_ context.Context, req PushRequest) (*PushResponse, error) {
	res := CallbackResult{
		MerchantRequestID: req.MerchantRequestID,
		CheckoutRequestID: req.CheckoutRequestID,
		ResultCode:        SuccessResultCode,
		ResultDesc:        successResultDesc,
		Success:           true,
	}
	if g.random() < g.cfg.FailureRate {
		res.ResultCode = CancelledResultCode
		res.ResultDesc = cancelledResultDesc
		res.Success = false
	} else {
		amount := req.Amount
		receipt := newReceiptNumber()
		date := g.now().In(EAT).Truncate(time.Second)
		phone := req.PhoneNumber
		res.PaidAmount = &amount
		res.ReceiptNumber = &receipt
		res.TransactionDate = &date
		res.PhoneNumber = &phone
	}

	payload, err := BuildCallback(res)
	if err != nil {
		return nil, err
	}

	g.wg.Add(1)
	time.AfterFunc(g.cfg.Delay, func() {
		defer g.wg.Done()
		g.deliver(req.CheckoutRequestID, payload)
	})

	return &PushResponse{
		MerchantRequestID:   req.MerchantRequestID,
		CheckoutRequestID:   req.CheckoutRequestID,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}

func (g *SandboxGateway) deliver(checkoutRequestId string, payload []byte) {
	g.mu.RLock()
	sink := g.sink
	g.mu.RUnlock()

	if sink == nil {
		g.logger.Warn("sandbox callback dropped, no sink configured", slog.String("checkout_request_id", checkoutRequestId))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sink(ctx, payload)
	g.logger.Info("sandbox callback delivered", slog.String("checkout_request_id", checkoutRequestId))
}

// newReceiptNumber выдает уникальный номер квитанции песочницы.
func newReceiptNumber() string {
	return "SIM" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Wait блокируется, пока не будут доставлены все запланированные callback.
func (g *SandboxGateway) Wait() {
	g.wg.Wait()
}

// NewHTTPSink отправляет callback POST запросом на url.
func NewHTTPSink(client *http.Client, url string, logger *slog.Logger) CallbackSink {
	return func(ctx context.Context, payload []byte) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			logger.Error("failed to build sandbox callback request", slog.Any("error", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := client.Do(req)
		if err != nil {
			logger.Error("failed to post sandbox callback", slog.Any("error", err))
			return
		}
		res.Body.Close()
	}
}
