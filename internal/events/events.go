// Package events рассылает уведомления о событиях тендеров и платежей подписчикам.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/senyabanana/sme-tenders/internal/models"
)

// EventType - тип события.
type EventType string

const (
	EventTenderAwarded    EventType = "tender.awarded"
	EventBidsRejected     EventType = "bids.rejected"
	EventPaymentSucceeded EventType = "payment.succeeded"
	EventPaymentFailed    EventType = "payment.failed"
)

// Event - событие с полезной нагрузкой.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// TenderAwardedData - тендер присужден бизнесу.
type TenderAwardedData struct {
	TenderID   string `json:"tenderId"`
	BidID      string `json:"bidId"`
	BusinessID string `json:"businessId"`
	PostedBy   string `json:"postedBy"`
}

// BidsRejectedData - предложения отклонены при присуждении тендера.
type BidsRejectedData struct {
	TenderID string   `json:"tenderId"`
	BidIDs   []string `json:"bidIds"`
}

// PaymentSettledData - транзакция получила терминальный статус по callback.
type PaymentSettledData struct {
	CheckoutRequestID string               `json:"checkoutRequestID"`
	Status            models.PaymentStatus `json:"status"`
	ReceiptNumber     *string              `json:"mpesaReceiptNumber,omitempty"`
	BusinessID        *string              `json:"businessId,omitempty"`
	UserID            *string              `json:"userId,omitempty"`
	ResultDesc        *string              `json:"resultDesc,omitempty"`
}

// Handler обрабатывает событие.
type Handler func(ctx context.Context, event Event) error

// Manager хранит подписчиков и рассылает им события асинхронно.
type Manager struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	enabled  bool
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewManager создает новый менеджер событий.
func NewManager(enabled bool, logger *slog.Logger) *Manager {
	return &Manager{
		handlers: make(map[EventType][]Handler),
		enabled:  enabled,
		logger:   logger,
	}
}

// Subscribe подписывает обработчик на тип события.
func (m *Manager) Subscribe(eventType EventType, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// SubscribeAll подписывает обработчик на все типы событий.
func (m *Manager) SubscribeAll(handler Handler) {
	for _, t := range []EventType{EventTenderAwarded, EventBidsRejected, EventPaymentSucceeded, EventPaymentFailed} {
		m.Subscribe(t, handler)
	}
}

// Publish рассылает событие подписчикам. Отмена ctx запроса не прерывает доставку.
// После Shutdown события отбрасываются.
func (m *Manager) Publish(ctx context.Context, eventType EventType, data any) {
	m.mu.RLock()
	if !m.enabled || len(m.handlers[eventType]) == 0 {
		m.mu.RUnlock()
		return
	}
	handlers := m.handlers[eventType]
	// Add под блокировкой, чтобы Shutdown дождался уже запущенной рассылки.
	m.wg.Add(len(handlers))
	m.mu.RUnlock()

	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	ctx = context.WithoutCancel(ctx)
	for _, handler := range handlers {
		go func(h Handler) {
			defer m.wg.Done()
			if err := h(ctx, event); err != nil {
				m.logger.Error("event handler failed", slog.String("event", string(eventType)), slog.Any("error", err))
			}
		}(handler)
	}
}

// PublishTenderAwarded публикует присуждение тендера и отклонение остальных предложений.
func (m *Manager) PublishTenderAwarded(ctx context.Context, result models.AwardResult) {
	m.Publish(ctx, EventTenderAwarded, TenderAwardedData{
		TenderID:   result.Tender.ID,
		BidID:      result.AcceptedBid.ID,
		BusinessID: result.AcceptedBid.BusinessID,
		PostedBy:   result.Tender.PostedBy,
	})
	if len(result.RejectedIDs) > 0 {
		m.Publish(ctx, EventBidsRejected, BidsRejectedData{
			TenderID: result.Tender.ID,
			BidIDs:   result.RejectedIDs,
		})
	}
}

// PublishPaymentSettled публикует результат оплаты.
func (m *Manager) PublishPaymentSettled(ctx context.Context, p models.PaymentTransaction) {
	eventType := EventPaymentFailed
	if p.Status == models.SuccessPayment {
		eventType = EventPaymentSucceeded
	}
	m.Publish(ctx, eventType, PaymentSettledData{
		CheckoutRequestID: p.CheckoutRequestID,
		Status:            p.Status,
		ReceiptNumber:     p.ReceiptNumber,
		BusinessID:        p.BusinessID,
		UserID:            p.UserID,
		ResultDesc:        p.ResultDesc,
	})
}

// Wait ожидает завершения запущенных обработчиков.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Shutdown отключает менеджер и ожидает запущенные обработчики.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.enabled = false
	m.handlers = make(map[EventType][]Handler)
	m.mu.Unlock()

	m.wg.Wait()
}

// NewLogHandler возвращает обработчик, который пишет события в лог.
func NewLogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.Info("event published", slog.String("event", string(event.Type)), slog.Any("data", event.Data))
		return nil
	}
}
