package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/sme-tenders/internal/middleware"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/services"
	"github.com/senyabanana/sme-tenders/internal/utils"

	"github.com/go-chi/chi/v5"
)

// BidHandler - структура для обработки HTTP-запросов по предложениям.
type BidHandler struct {
	Service *services.BidService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewBidHandler создаёт новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, logger *slog.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateBid обрабатывает запросы для создания предложения по тендеру.
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	var bidReq models.BidRequest
	if err := utils.DecodeAndValidate(r, &bidReq); err != nil {
		utils.WriteError(w, h.Logger, err, "invalid request body")
		return
	}

	bid, err := h.Service.CreateBid(ctx, actor, chi.URLParam(r, "tenderId"), bidReq)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to create bid")
		return
	}
	utils.SendJSON(w, http.StatusCreated, bid)
}

// GetTenderBids обрабатывает запросы для получения предложений по тендеру.
func (h *BidHandler) GetTenderBids(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	bids, err := h.Service.ListTenderBids(ctx, chi.URLParam(r, "tenderId"), queryList(r.URL.Query()["status"]))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch tender bids")
		return
	}
	utils.SendJSON(w, http.StatusOK, bids)
}

// GetBusinessBids обрабатывает запросы для получения предложений бизнеса.
func (h *BidHandler) GetBusinessBids(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "invalid pagination")
		return
	}

	page, err := h.Service.ListBusinessBids(ctx, chi.URLParam(r, "businessId"), limit, offset)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch business bids")
		return
	}
	utils.SendJSON(w, http.StatusOK, page)
}

// GetMyBids обрабатывает запросы для получения предложений пользователя.
func (h *BidHandler) GetMyBids(w http.ResponseWriter, r *http.Request) {
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

	page, err := h.Service.MyBids(ctx, actor, limit, offset)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch user bids")
		return
	}
	utils.SendJSON(w, http.StatusOK, page)
}

// GetBid обрабатывает запросы для получения предложения.
func (h *BidHandler) GetBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	bid, err := h.Service.GetBid(ctx, chi.URLParam(r, "bidId"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch bid")
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}

// EditBid обрабатывает запросы для редактирования предложения.
func (h *BidHandler) EditBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	var patch models.BidPatch
	if err := utils.DecodeAndValidate(r, &patch); err != nil {
		utils.WriteError(w, h.Logger, err, "invalid request body")
		return
	}

	bid, err := h.Service.UpdateBid(ctx, actor, chi.URLParam(r, "bidId"), patch)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to update bid")
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}

// WithdrawBid обрабатывает запросы на отзыв предложения.
func (h *BidHandler) WithdrawBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	bid, err := h.Service.WithdrawBid(ctx, actor, chi.URLParam(r, "bidId"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to withdraw bid")
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}
