package repository

import (
	"context"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BusinessRepository - доступ к реестру бизнесов только на чтение.
type BusinessRepository interface {
	GetBusinessByID(ctx context.Context, businessId string) (*models.Business, error)
}

// PostgresBusinessRepository - реализация BusinessRepository для базы данных.
type PostgresBusinessRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBusinessRepository создает новый экземпляр PostgresBusinessRepository.
func NewPostgresBusinessRepository(db *pgxpool.Pool) *PostgresBusinessRepository {
	return &PostgresBusinessRepository{DB: db}
}

// GetBusinessByID возвращает бизнес по ID.
func (r *PostgresBusinessRepository) GetBusinessByID(ctx context.Context, businessId string) (*models.Business, error) {
	var b models.Business
	err := r.DB.QueryRow(ctx, `SELECT id, business_name, owner_id FROM business WHERE id = $1`, businessId).
		Scan(&b.ID, &b.Name, &b.OwnerID)
	if err != nil {
		return nil, mapError(err, "business not found")
	}
	return &b, nil
}
