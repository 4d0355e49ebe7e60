package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/senyabanana/sme-tenders/internal/middleware"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/services"
	"github.com/senyabanana/sme-tenders/internal/utils"

	"github.com/go-chi/chi/v5"
)

// TenderHandler - структура для обработки HTTP-запросов по тендерам.
type TenderHandler struct {
	Service *services.TenderService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, logger *slog.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// AwardRequest - тело запроса на присуждение тендера.
type AwardRequest struct {
	BidID string `json:"bidId" validate:"required"`
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	limit, offset, err := utils.ParseLimitOffset(query.Get("limit"), query.Get("offset"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "invalid pagination")
		return
	}

	page, err := h.Service.ListTenders(ctx, models.TenderFilter{
		Statuses: queryList(query["status"]),
		Category: strings.TrimSpace(query.Get("category")),
		County:   strings.TrimSpace(query.Get("county")),
		Query:    query.Get("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch tenders")
		return
	}
	utils.SendJSON(w, http.StatusOK, page)
}

// GetMyTenders обрабатывает запросы для получения тендеров пользователя.
func (h *TenderHandler) GetMyTenders(w http.ResponseWriter, r *http.Request) {
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

	page, err := h.Service.MyTenders(ctx, actor, limit, offset)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch user tenders")
		return
	}
	utils.SendJSON(w, http.StatusOK, page)
}

// CreateTender обрабатывает запросы для создания тендера.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	var tenderReq models.TenderRequest
	if err := utils.DecodeAndValidate(r, &tenderReq); err != nil {
		utils.WriteError(w, h.Logger, err, "invalid request body")
		return
	}

	tender, err := h.Service.CreateTender(ctx, actor, tenderReq)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to create tender")
		return
	}
	utils.SendJSON(w, http.StatusCreated, tender)
}

// GetTender обрабатывает запросы для получения тендера с предложениями.
func (h *TenderHandler) GetTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	details, err := h.Service.GetTenderDetails(ctx, chi.URLParam(r, "tenderId"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to fetch tender")
		return
	}
	utils.SendJSON(w, http.StatusOK, details)
}

// EditTender обрабатывает запросы для редактирования тендера.
func (h *TenderHandler) EditTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	var patch models.TenderPatch
	if err := utils.DecodeAndValidate(r, &patch); err != nil {
		utils.WriteError(w, h.Logger, err, "invalid request body")
		return
	}

	tender, err := h.Service.UpdateTender(ctx, actor, chi.URLParam(r, "tenderId"), patch)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to update tender")
		return
	}
	utils.SendJSON(w, http.StatusOK, tender)
}

// CloseTender обрабатывает запросы на закрытие тендера.
func (h *TenderHandler) CloseTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	tender, err := h.Service.CloseTender(ctx, actor, chi.URLParam(r, "tenderId"))
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to close tender")
		return
	}
	utils.SendJSON(w, http.StatusOK, tender)
}

// AwardTender обрабатывает запросы на присуждение тендера предложению.
func (h *TenderHandler) AwardTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	var awardReq AwardRequest
	if err := utils.DecodeAndValidate(r, &awardReq); err != nil {
		utils.WriteError(w, h.Logger, err, "invalid request body")
		return
	}

	result, err := h.Service.AwardTender(ctx, actor, chi.URLParam(r, "tenderId"), awardReq.BidID)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "failed to award tender")
		return
	}
	utils.SendJSON(w, http.StatusOK, result)
}

// DeleteTender обрабатывает запросы на удаление тендера.
func (h *TenderHandler) DeleteTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		utils.WriteError(w, h.Logger, err, "authentication required")
		return
	}

	if err := h.Service.DeleteTender(ctx, actor, chi.URLParam(r, "tenderId")); err != nil {
		utils.WriteError(w, h.Logger, err, "failed to delete tender")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryList разбирает повторяющийся и перечисленный через запятую параметр.
func queryList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
