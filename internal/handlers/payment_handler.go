package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/sme-tenders/internal/middleware"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/services"
	"github.com/senyabanana/sme-tenders/internal/utils"

	"github.com/go-chi/chi/v5"
)

const maxCallbackBody = 1 << 20

// PaymentHandler - структура для обработки HTTP-запросов по платежам.
type PaymentHandler struct {
	Service *services.PaymentService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewPaymentHandler создаёт новый экземпляр PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, logger *slog.Logger, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// InitiatePayment обрабатывает запросы на STK push.
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	var req models.InitiatePaymentRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Logger, err, "invalid request body")
		return
	}
	req.UserID = &actor.ID
	req.Metadata = models.PaymentMetadata{InitiatedFrom: "web", IPAddress: r.RemoteAddr}

	resp, err := h.Service.Initiate(ctx, req)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to initiate payment")
		return
	}
	utils.SendJSON(w, http.StatusOK, resp)
}

// GetPaymentStatus обрабатывает запросы статуса транзакции.
func (h *PaymentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	snapshot, err := h.Service.QueryStatus(ctx, chi.URLParam(r, "checkoutRequestId"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to query payment status")
		return
	}
	utils.SendJSON(w, http.StatusOK, snapshot)
}

// Callback принимает результат оплаты от провайдера.
// Провайдер всегда получает подтверждение, даже если callback не применен.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		h.Logger.Warn("failed to read payment callback body", slog.Any("error", err))
	}

	outcome, err := h.Service.HandleCallback(ctx, payload)
	if err != nil {
		h.Logger.Error("failed to process payment callback", slog.Any("error", err))
	} else {
		h.Logger.Debug("payment callback processed", slog.String("outcome", string(outcome)))
	}
	utils.SendJSON(w, http.StatusOK, models.AcceptedCallback)
}

// GetMyPayments обрабатывает запросы списка транзакций пользователя.
func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "invalid pagination")
		return
	}

	page, err := h.Service.MyPayments(ctx, actor, limit, offset)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch payments")
		return
	}
	utils.SendJSON(w, http.StatusOK, page)
}

// GetBusinessPayments обрабатывает запросы списка транзакций бизнеса со сводкой.
func (h *PaymentHandler) GetBusinessPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "invalid pagination")
		return
	}

	payments, err := h.Service.BusinessPayments(ctx, actor, chi.URLParam(r, "businessId"), limit, offset)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch business payments")
		return
	}
	utils.SendJSON(w, http.StatusOK, payments)
}
