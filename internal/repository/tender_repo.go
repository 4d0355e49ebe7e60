package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const tenderColumns = `id, title, description, category, budget_min, budget_max, currency, deadline,
	county, sub_county, requirements, attachments, posted_by, posted_by_role, status, bids_count,
	awarded_to, version, created_at, updated_at`

// TenderRepository - интерфейс для работы с тендерами.
type TenderRepository interface {
	CreateTender(ctx context.Context, tender models.Tender) (*models.Tender, error)
	GetTenderByID(ctx context.Context, tenderId string) (*models.Tender, error)
	ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, int, error)
	UpdateTender(ctx context.Context, tender models.Tender) (*models.Tender, error)
	UpdateTenderStatus(ctx context.Context, tenderId string, status models.TenderStatus) (*models.Tender, error)
	AwardTender(ctx context.Context, tenderId, bidId string) (*models.AwardResult, error)
	DeleteTender(ctx context.Context, tenderId string) error
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

func scanTender(row pgx.Row) (*models.Tender, error) {
	var t models.Tender
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.Budget.Min,
		&t.Budget.Max,
		&t.Budget.Currency,
		&t.Deadline,
		&t.Location.County,
		&t.Location.SubCounty,
		&t.Requirements,
		&t.Attachments,
		&t.PostedBy,
		&t.PostedByRole,
		&t.Status,
		&t.BidsCount,
		&t.AwardedTo,
		&t.Version,
		&t.CreatedAt,
		&t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTender сохраняет новый тендер.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, t models.Tender) (*models.Tender, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO tender (id, title, description, category, budget_min, budget_max, currency, deadline,
		                    county, sub_county, requirements, attachments, posted_by, posted_by_role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+tenderColumns,
		t.ID,
		t.Title,
		t.Description,
		t.Category,
		t.Budget.Min,
		t.Budget.Max,
		t.Budget.Currency,
		t.Deadline,
		t.Location.County,
		t.Location.SubCounty,
		nonNil(t.Requirements),
		nonNil(t.Attachments),
		t.PostedBy,
		t.PostedByRole,
		models.OpenTender)
	created, err := scanTender(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tender: %w", mapError(err, "tender not found"))
	}
	return created, nil
}

// GetTenderByID возвращает тендер по ID.
func (r *PostgresTenderRepository) GetTenderByID(ctx context.Context, tenderId string) (*models.Tender, error) {
	return getTender(ctx, r.DB, tenderId, false)
}

func getTender(ctx context.Context, q querier, tenderId string, forUpdate bool) (*models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	t, err := scanTender(q.QueryRow(ctx, query, tenderId))
	if err != nil {
		return nil, mapError(err, "tender not found")
	}
	return t, nil
}

// ListTenders возвращает страницу тендеров по фильтрам, новые первыми, и общее число найденных.
func (r *PostgresTenderRepository) ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, int, error) {
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(filter.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Statuses))
		argIndex++
	}
	if filter.Category != "" {
		filters = append(filters, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}
	if filter.County != "" {
		filters = append(filters, fmt.Sprintf("lower(county) = lower($%d)", argIndex))
		args = append(args, filter.County)
		argIndex++
	}
	if filter.PostedBy != "" {
		filters = append(filters, fmt.Sprintf("posted_by = $%d", argIndex))
		args = append(args, filter.PostedBy)
		argIndex++
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		filters = append(filters, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(q)+"%")
		argIndex++
	}

	where := ""
	if len(filters) > 0 {
		where = " WHERE " + strings.Join(filters, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM tender`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tenders: %w", err)
	}

	query := `SELECT ` + tenderColumns + ` FROM tender` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tenders := make([]models.Tender, 0, filter.Limit)
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, 0, err
		}
		tenders = append(tenders, *t)
	}
	return tenders, total, rows.Err()
}

// UpdateTender сохраняет измененные поля тендера, пока он открыт, и увеличивает версию.
func (r *PostgresTenderRepository) UpdateTender(ctx context.Context, t models.Tender) (*models.Tender, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE tender
		SET title = $2, description = $3, category = $4, budget_min = $5, budget_max = $6,
		    county = $7, sub_county = $8, requirements = $9, attachments = $10,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+tenderColumns,
		t.ID,
		t.Title,
		t.Description,
		t.Category,
		t.Budget.Min,
		t.Budget.Max,
		t.Location.County,
		t.Location.SubCounty,
		nonNil(t.Requirements),
		nonNil(t.Attachments))
	updated, err := scanTender(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.notOpen(ctx, t.ID)
	}
	if err != nil {
		return nil, mapError(err, "tender not found")
	}
	return updated, nil
}

// UpdateTenderStatus переводит открытый тендер в новый статус.
func (r *PostgresTenderRepository) UpdateTenderStatus(ctx context.Context, tenderId string, status models.TenderStatus) (*models.Tender, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE tender SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+tenderColumns, tenderId, status)
	updated, err := scanTender(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.notOpen(ctx, tenderId)
	}
	if err != nil {
		return nil, mapError(err, "tender not found")
	}
	return updated, nil
}

// notOpen объясняет, почему условное обновление не затронуло тендер.
func (r *PostgresTenderRepository) notOpen(ctx context.Context, tenderId string) error {
	t, err := r.GetTenderByID(ctx, tenderId)
	if err != nil {
		return err
	}
	return models.Errorf(models.ErrInvalidState, "tender is %s, only OPEN tenders can be changed", t.Status)
}

// AwardTender в одной транзакции присуждает тендер предложению,
// отклоняет остальные ожидающие предложения и записывает победителя.
func (r *PostgresTenderRepository) AwardTender(ctx context.Context, tenderId, bidId string) (*models.AwardResult, error) {
	var result models.AwardResult

	err := pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		tender, err := getTender(ctx, tx, tenderId, true)
		if err != nil {
			return err
		}
		if !utils.Contains(models.TenderTransitions[tender.Status], models.AwardedTender) {
			return models.Errorf(models.ErrInvalidState, "tender is %s, only OPEN tenders can be awarded", tender.Status)
		}

		bid, err := getBid(ctx, tx, bidId, true)
		if err != nil {
			return err
		}
		if bid.TenderID != tenderId {
			return models.NewErrorResponse(models.ErrInvalidState, "bid does not belong to this tender")
		}
		if bid.Status != models.PendingBid {
			return models.Errorf(models.ErrInvalidState, "bid is %s, only PENDING bids can be accepted", bid.Status)
		}

		accepted, err := scanBid(tx.QueryRow(ctx, `
			UPDATE bid SET status = 'ACCEPTED', updated_at = now()
			WHERE id = $1
			RETURNING `+bidColumns, bidId))
		if err != nil {
			return fmt.Errorf("failed to accept bid: %w", err)
		}

		rows, err := tx.Query(ctx, `
			UPDATE bid SET status = 'REJECTED', updated_at = now()
			WHERE tender_id = $1 AND id <> $2 AND status = 'PENDING'
			RETURNING id`, tenderId, bidId)
		if err != nil {
			return fmt.Errorf("failed to reject bids: %w", err)
		}
		rejected, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("failed to reject bids: %w", err)
		}

		awarded, err := scanTender(tx.QueryRow(ctx, `
			UPDATE tender SET status = 'AWARDED', awarded_to = $2, updated_at = now()
			WHERE id = $1
			RETURNING `+tenderColumns, tenderId, bid.BusinessID))
		if err != nil {
			return fmt.Errorf("failed to award tender: %w", err)
		}

		result = models.AwardResult{Tender: *awarded, AcceptedBid: *accepted, RejectedIDs: rejected}
		return nil
	})
	if err != nil {
		return nil, mapError(err, "tender not found")
	}
	return &result, nil
}

// DeleteTender удаляет тендер без предложений.
func (r *PostgresTenderRepository) DeleteTender(ctx context.Context, tenderId string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM tender WHERE id = $1 AND bids_count = 0`, tenderId)
	if err != nil {
		return mapError(err, "tender not found")
	}
	if tag.RowsAffected() == 0 {
		t, err := r.GetTenderByID(ctx, tenderId)
		if err != nil {
			return err
		}
		return models.Errorf(models.ErrConflict, "tender has %d bids and cannot be deleted", t.BidsCount)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
