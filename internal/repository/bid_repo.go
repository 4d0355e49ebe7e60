package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const bidColumns = `id, tender_id, business_id, amount, currency, proposal, delivery_time, attachments,
	status, created_at, updated_at`

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	CreateBid(ctx context.Context, bid models.Bid, now time.Time) (*models.Bid, error)
	GetBidByID(ctx context.Context, bidId string) (*models.Bid, error)
	ListTenderBids(ctx context.Context, tenderId string, statuses []string) ([]models.Bid, error)
	ListBusinessBids(ctx context.Context, businessId string, limit, offset int) ([]models.Bid, int, error)
	ListOwnerBids(ctx context.Context, ownerId string, limit, offset int) ([]models.Bid, int, error)
	UpdateBid(ctx context.Context, bid models.Bid) (*models.Bid, error)
	WithdrawBid(ctx context.Context, bidId string) (*models.Bid, error)
}

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBidRepository создает новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

func scanBid(row pgx.Row) (*models.Bid, error) {
	var b models.Bid
	err := row.Scan(
		&b.ID,
		&b.TenderID,
		&b.BusinessID,
		&b.Amount,
		&b.Currency,
		&b.Proposal,
		&b.DeliveryTime,
		&b.Attachments,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBids(rows pgx.Rows) ([]models.Bid, error) {
	defer rows.Close()

	bids := []models.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *b)
	}
	return bids, rows.Err()
}

// CreateBid в одной транзакции увеличивает счетчик предложений тендера
// и вставляет предложение. Повторное предложение того же бизнеса
// откатывает увеличение счетчика.
func (r *PostgresBidRepository) CreateBid(ctx context.Context, bid models.Bid, now time.Time) (*models.Bid, error) {
	var created *models.Bid

	err := pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE tender SET bids_count = bids_count + 1, updated_at = now()
			WHERE id = $1 AND status = 'OPEN' AND deadline >= $2`, bid.TenderID, now)
		if err != nil {
			return fmt.Errorf("failed to reserve bid slot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.NewErrorResponse(models.ErrInvalidState, "tender is not accepting bids")
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO bid (id, tender_id, business_id, amount, currency, proposal, delivery_time, attachments, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (tender_id, business_id) DO NOTHING
			RETURNING `+bidColumns,
			bid.ID,
			bid.TenderID,
			bid.BusinessID,
			bid.Amount,
			bid.Currency,
			bid.Proposal,
			bid.DeliveryTime,
			nonNil(bid.Attachments),
			models.PendingBid)
		created, err = scanBid(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewErrorResponse(models.ErrConflict, "business has already placed a bid on this tender")
		}
		return err
	})
	if err != nil {
		return nil, mapError(err, "tender not found")
	}
	return created, nil
}

// GetBidByID возвращает предложение по ID.
func (r *PostgresBidRepository) GetBidByID(ctx context.Context, bidId string) (*models.Bid, error) {
	return getBid(ctx, r.DB, bidId, false)
}

func getBid(ctx context.Context, q querier, bidId string, forUpdate bool) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	b, err := scanBid(q.QueryRow(ctx, query, bidId))
	if err != nil {
		return nil, mapError(err, "bid not found")
	}
	return b, nil
}

// ListTenderBids возвращает предложения по тендеру, новые первыми.
func (r *PostgresBidRepository) ListTenderBids(ctx context.Context, tenderId string, statuses []string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE tender_id = $1`
	args := []interface{}{tenderId}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statuses))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBids(rows)
}

// ListBusinessBids возвращает страницу предложений бизнеса.
func (r *PostgresBidRepository) ListBusinessBids(ctx context.Context, businessId string, limit, offset int) ([]models.Bid, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM bid WHERE business_id = $1`, businessId).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bids: %w", err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+bidColumns+` FROM bid WHERE business_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, businessId, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	bids, err := collectBids(rows)
	return bids, total, err
}

// ListOwnerBids возвращает страницу предложений всех бизнесов владельца.
func (r *PostgresBidRepository) ListOwnerBids(ctx context.Context, ownerId string, limit, offset int) ([]models.Bid, int, error) {
	const owned = `business_id IN (SELECT id FROM business WHERE owner_id = $1)`

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM bid WHERE `+owned, ownerId).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bids: %w", err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+bidColumns+` FROM bid WHERE `+owned+`
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, ownerId, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	bids, err := collectBids(rows)
	return bids, total, err
}

// UpdateBid сохраняет измененные поля ожидающего предложения.
func (r *PostgresBidRepository) UpdateBid(ctx context.Context, bid models.Bid) (*models.Bid, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE bid SET amount = $2, proposal = $3, delivery_time = $4, attachments = $5, updated_at = now()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+bidColumns,
		bid.ID,
		bid.Amount,
		bid.Proposal,
		bid.DeliveryTime,
		nonNil(bid.Attachments))
	return r.conditional(ctx, bid.ID, row)
}

// WithdrawBid отзывает ожидающее предложение.
func (r *PostgresBidRepository) WithdrawBid(ctx context.Context, bidId string) (*models.Bid, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE bid SET status = 'WITHDRAWN', updated_at = now()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+bidColumns, bidId)
	return r.conditional(ctx, bidId, row)
}

// conditional читает результат условного обновления предложения.
func (r *PostgresBidRepository) conditional(ctx context.Context, bidId string, row pgx.Row) (*models.Bid, error) {
	b, err := scanBid(row)
	if errors.Is(err, pgx.ErrNoRows) {
		current, err := r.GetBidByID(ctx, bidId)
		if err != nil {
			return nil, err
		}
		return nil, models.Errorf(models.ErrInvalidState, "bid is %s, only PENDING bids can be changed", current.Status)
	}
	if err != nil {
		return nil, mapError(err, "bid not found")
	}
	return b, nil
}
