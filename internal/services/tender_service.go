package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/senyabanana/sme-tenders/internal/events"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/repository"
	"github.com/senyabanana/sme-tenders/internal/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// TenderService - координатор жизненного цикла тендера.
type TenderService struct {
	Repo    repository.TenderRepository
	BidRepo repository.BidRepository
	Events  *events.Manager
	Logger  *slog.Logger
	now     func() time.Time
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, bidRepo repository.BidRepository, ev *events.Manager, logger *slog.Logger) *TenderService {
	return &TenderService{
		Repo:    repo,
		BidRepo: bidRepo,
		Events:  ev,
		Logger:  logger,
		now:     time.Now,
	}
}

// CreateTender создает новый открытый тендер от имени actor.
func (s *TenderService) CreateTender(ctx context.Context, actor models.Actor, req models.TenderRequest) (*models.Tender, error) {
	if !actor.Role.CanPostTenders() {
		return nil, models.NewErrorResponse(models.ErrForbidden, "only consumers and brokers can post tenders")
	}
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Budget.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	tender := models.Tender{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Budget: models.Budget{
			Min:      req.Budget.Min,
			Max:      req.Budget.Max,
			Currency: currency,
		},
		Deadline:     req.Deadline,
		Location:     req.Location,
		Requirements: req.Requirements,
		Attachments:  req.Attachments,
		PostedBy:     actor.ID,
		PostedByRole: actor.Role,
		Status:       models.OpenTender,
	}

	created, err := s.Repo.CreateTender(ctx, tender)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("tender created", slog.String("tender_id", created.ID), slog.String("posted_by", actor.ID))
	return created, nil
}

// ListTenders возвращает страницу тендеров. Без фильтра статуса показываются только открытые.
func (s *TenderService) ListTenders(ctx context.Context, filter models.TenderFilter) (*models.ListResult[models.Tender], error) {
	if len(filter.Statuses) == 0 {
		filter.Statuses = []string{string(models.OpenTender)}
	}
	for _, status := range filter.Statuses {
		if _, ok := models.TenderTransitions[models.TenderStatus(status)]; !ok {
			return nil, models.Errorf(models.ErrValidation, "unsupported tender status: %s", status)
		}
	}
	return s.list(ctx, filter)
}

// MyTenders возвращает тендеры, опубликованные actor, в любом статусе.
func (s *TenderService) MyTenders(ctx context.Context, actor models.Actor, limit, offset int) (*models.ListResult[models.Tender], error) {
	return s.list(ctx, models.TenderFilter{PostedBy: actor.ID, Limit: limit, Offset: offset})
}

func (s *TenderService) list(ctx context.Context, filter models.TenderFilter) (*models.ListResult[models.Tender], error) {
	tenders, total, err := s.Repo.ListTenders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[models.Tender]{
		Results:    tenders,
		Pagination: models.Pagination{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// GetTenderDetails возвращает тендер вместе с предложениями, новые первыми.
func (s *TenderService) GetTenderDetails(ctx context.Context, tenderId string) (*models.TenderDetails, error) {
	tender, err := s.Repo.GetTenderByID(ctx, tenderId)
	if err != nil {
		return nil, err
	}
	bids, err := s.BidRepo.ListTenderBids(ctx, tenderId, nil)
	if err != nil {
		return nil, err
	}
	return &models.TenderDetails{Tender: *tender, Bids: bids}, nil
}

// UpdateTender частично обновляет открытый тендер владельца.
func (s *TenderService) UpdateTender(ctx context.Context, actor models.Actor, tenderId string, patch models.TenderPatch) (*models.Tender, error) {
	tender, err := s.owned(ctx, actor, tenderId)
	if err != nil {
		return nil, err
	}
	if tender.Status != models.OpenTender {
		return nil, models.Errorf(models.ErrInvalidState, "tender is %s, only OPEN tenders can be updated", tender.Status)
	}
	if patch.Empty() {
		return tender, nil
	}

	updated, err := patch.Apply(*tender)
	if err != nil {
		return nil, err
	}
	return s.Repo.UpdateTender(ctx, updated)
}

// CloseTender закрывает открытый тендер без победителя.
func (s *TenderService) CloseTender(ctx context.Context, actor models.Actor, tenderId string) (*models.Tender, error) {
	tender, err := s.owned(ctx, actor, tenderId)
	if err != nil {
		return nil, err
	}
	if tender.Status != models.OpenTender {
		return nil, models.Errorf(models.ErrInvalidState, "tender is %s, only OPEN tenders can be closed", tender.Status)
	}
	return s.Repo.UpdateTenderStatus(ctx, tenderId, models.ClosedTender)
}

// AwardTender присуждает тендер предложению и отклоняет остальные ожидающие предложения.
func (s *TenderService) AwardTender(ctx context.Context, actor models.Actor, tenderId, bidId string) (result *models.AwardResult, err error) {
	ctx, span := tracing.Start(ctx, "TenderService.AwardTender",
		attribute.String("tender.id", tenderId), attribute.String("bid.id", bidId))
	defer func() { tracing.End(span, err) }()

	tender, err := s.owned(ctx, actor, tenderId)
	if err != nil {
		return nil, err
	}

	bid, err := s.BidRepo.GetBidByID(ctx, bidId)
	if err != nil {
		return nil, err
	}
	if bid.TenderID != tenderId {
		return nil, models.NewErrorResponse(models.ErrInvalidState, "bid does not belong to this tender")
	}
	if tender.Status != models.OpenTender {
		return nil, models.Errorf(models.ErrInvalidState, "tender is %s, only OPEN tenders can be awarded", tender.Status)
	}
	if bid.Status != models.PendingBid {
		return nil, models.Errorf(models.ErrInvalidState, "bid is %s, only PENDING bids can be accepted", bid.Status)
	}

	result, err = s.Repo.AwardTender(ctx, tenderId, bidId)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("tender awarded",
		slog.String("tender_id", tenderId),
		slog.String("bid_id", bidId),
		slog.Int("rejected", len(result.RejectedIDs)))
	s.Events.PublishTenderAwarded(ctx, *result)
	return result, nil
}

// DeleteTender удаляет тендер владельца, если по нему нет предложений.
func (s *TenderService) DeleteTender(ctx context.Context, actor models.Actor, tenderId string) error {
	tender, err := s.owned(ctx, actor, tenderId)
	if err != nil {
		return err
	}
	if tender.BidsCount > 0 {
		return models.Errorf(models.ErrConflict, "tender has %d bids and cannot be deleted", tender.BidsCount)
	}
	return s.Repo.DeleteTender(ctx, tenderId)
}

// owned загружает тендер и проверяет, что actor его опубликовал.
func (s *TenderService) owned(ctx context.Context, actor models.Actor, tenderId string) (*models.Tender, error) {
	tender, err := s.Repo.GetTenderByID(ctx, tenderId)
	if err != nil {
		return nil, err
	}
	if tender.PostedBy != actor.ID {
		return nil, models.NewErrorResponse(models.ErrForbidden, "only the tender owner can perform this action")
	}
	return tender, nil
}
