package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/repository"
	"github.com/senyabanana/sme-tenders/internal/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// BidService - операции над предложениями.
type BidService struct {
	Repo         repository.BidRepository
	TenderRepo   repository.TenderRepository
	BusinessRepo repository.BusinessRepository
	Logger       *slog.Logger
	now          func() time.Time
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, tenderRepo repository.TenderRepository, businessRepo repository.BusinessRepository, logger *slog.Logger) *BidService {
	return &BidService{
		Repo:         repo,
		TenderRepo:   tenderRepo,
		BusinessRepo: businessRepo,
		Logger:       logger,
		now:          time.Now,
	}
}

// CreateBid подает предложение бизнеса actor на открытый тендер.
func (s *BidService) CreateBid(ctx context.Context, actor models.Actor, tenderId string, req models.BidRequest) (bid *models.Bid, err error) {
	ctx, span := tracing.Start(ctx, "BidService.CreateBid",
		attribute.String("tender.id", tenderId), attribute.String("business.id", req.BusinessID))
	defer func() { tracing.End(span, err) }()

	if !actor.Role.CanBid() {
		return nil, models.NewErrorResponse(models.ErrForbidden, "only SME accounts can place bids")
	}
	if err = req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	tender, err := s.TenderRepo.GetTenderByID(ctx, tenderId)
	if err != nil {
		return nil, err
	}
	if !tender.AcceptsBids(now) {
		return nil, models.Errorf(models.ErrInvalidState, "tender is %s or past its deadline and is not accepting bids", tender.Status)
	}

	business, err := s.BusinessRepo.GetBusinessByID(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != actor.ID {
		return nil, models.NewErrorResponse(models.ErrForbidden, "you can only bid on behalf of your own business")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	bid, err = s.Repo.CreateBid(ctx, models.Bid{
		ID:           uuid.NewString(),
		TenderID:     tenderId,
		BusinessID:   business.ID,
		Amount:       req.Amount,
		Currency:     currency,
		Proposal:     strings.TrimSpace(req.Proposal),
		DeliveryTime: req.DeliveryTime,
		Attachments:  req.Attachments,
		Status:       models.PendingBid,
	}, now)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("bid placed", slog.String("bid_id", bid.ID), slog.String("tender_id", tenderId), slog.String("business_id", business.ID))
	return bid, nil
}

// GetBid возвращает предложение по ID.
func (s *BidService) GetBid(ctx context.Context, bidId string) (*models.Bid, error) {
	return s.Repo.GetBidByID(ctx, bidId)
}

// ListTenderBids возвращает предложения по тендеру, новые первыми.
func (s *BidService) ListTenderBids(ctx context.Context, tenderId string, statuses []string) ([]models.Bid, error) {
	for _, status := range statuses {
		if _, ok := models.BidTransitions[models.BidStatus(status)]; !ok {
			return nil, models.Errorf(models.ErrValidation, "unsupported bid status: %s", status)
		}
	}
	if _, err := s.TenderRepo.GetTenderByID(ctx, tenderId); err != nil {
		return nil, err
	}
	return s.Repo.ListTenderBids(ctx, tenderId, statuses)
}

// ListBusinessBids возвращает страницу предложений бизнеса.
func (s *BidService) ListBusinessBids(ctx context.Context, businessId string, limit, offset int) (*models.ListResult[models.Bid], error) {
	if _, err := s.BusinessRepo.GetBusinessByID(ctx, businessId); err != nil {
		return nil, err
	}
	bids, total, err := s.Repo.ListBusinessBids(ctx, businessId, limit, offset)
	if err != nil {
		return nil, err
	}
	return bidPage(bids, total, limit, offset), nil
}

// MyBids возвращает предложения всех бизнесов, которыми владеет actor.
func (s *BidService) MyBids(ctx context.Context, actor models.Actor, limit, offset int) (*models.ListResult[models.Bid], error) {
	bids, total, err := s.Repo.ListOwnerBids(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return bidPage(bids, total, limit, offset), nil
}

// UpdateBid частично обновляет ожидающее предложение владельца.
func (s *BidService) UpdateBid(ctx context.Context, actor models.Actor, bidId string, patch models.BidPatch) (*models.Bid, error) {
	bid, err := s.owned(ctx, actor, bidId)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.PendingBid {
		return nil, models.Errorf(models.ErrInvalidState, "bid is %s, only PENDING bids can be updated", bid.Status)
	}
	if patch.Empty() {
		return bid, nil
	}

	updated, err := patch.Apply(*bid)
	if err != nil {
		return nil, err
	}
	return s.Repo.UpdateBid(ctx, updated)
}

// WithdrawBid отзывает ожидающее предложение владельца.
func (s *BidService) WithdrawBid(ctx context.Context, actor models.Actor, bidId string) (*models.Bid, error) {
	bid, err := s.owned(ctx, actor, bidId)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.PendingBid {
		return nil, models.Errorf(models.ErrInvalidState, "bid is %s, only PENDING bids can be withdrawn", bid.Status)
	}

	withdrawn, err := s.Repo.WithdrawBid(ctx, bidId)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("bid withdrawn", slog.String("bid_id", bidId))
	return withdrawn, nil
}

// owned загружает предложение и проверяет, что actor владеет бизнесом-автором.
func (s *BidService) owned(ctx context.Context, actor models.Actor, bidId string) (*models.Bid, error) {
	bid, err := s.Repo.GetBidByID(ctx, bidId)
	if err != nil {
		return nil, err
	}
	business, err := s.BusinessRepo.GetBusinessByID(ctx, bid.BusinessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != actor.ID {
		return nil, models.NewErrorResponse(models.ErrForbidden, "only the business owner can change this bid")
	}
	return bid, nil
}

func bidPage(bids []models.Bid, total, limit, offset int) *models.ListResult[models.Bid] {
	return &models.ListResult[models.Bid]{
		Results:    bids,
		Pagination: models.Pagination{Limit: limit, Offset: offset, Total: total},
	}
}
