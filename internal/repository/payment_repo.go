package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, merchant_request_id, checkout_request_id, receipt_number, phone_number, amount,
	account_reference, description, user_id, business_id, order_id, tender_id, status, result_code,
	result_desc, transaction_date, paid_amount, callback_received, callback_data, metadata,
	is_simulation, created_at, updated_at`

// PaymentRepository - интерфейс для работы с платежными транзакциями.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.PaymentTransaction) (*models.PaymentTransaction, error)
	GetByCheckoutID(ctx context.Context, checkoutRequestId string) (*models.PaymentTransaction, error)
	RebindRequestIDs(ctx context.Context, id, merchantRequestId, checkoutRequestId string) (*models.PaymentTransaction, error)
	FailPending(ctx context.Context, id, reason string) error
	Settle(ctx context.Context, checkoutRequestId string, status models.PaymentStatus, s models.Settlement) (*models.PaymentTransaction, bool, error)
	ExpireStale(ctx context.Context, checkoutRequestId string, cutoff time.Time) (*models.PaymentTransaction, bool, error)
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
	RecordCallback(ctx context.Context, rec models.CallbackRecord) error
	ListUserPayments(ctx context.Context, userId string, limit, offset int) ([]models.PaymentTransaction, int, error)
	ListBusinessPayments(ctx context.Context, businessId string, limit, offset int) ([]models.PaymentTransaction, int, error)
	BusinessSummary(ctx context.Context, businessId string) (*models.PaymentSummary, error)
}

// PostgresPaymentRepository - реализация PaymentRepository для базы данных.
type PostgresPaymentRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPaymentRepository создает новый экземпляр PostgresPaymentRepository.
func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{DB: db}
}

func scanPayment(row pgx.Row) (*models.PaymentTransaction, error) {
	var (
		p        models.PaymentTransaction
		paid     decimal.NullDecimal
		callback []byte
		metadata []byte
	)
	err := row.Scan(
		&p.ID,
		&p.MerchantRequestID,
		&p.CheckoutRequestID,
		&p.ReceiptNumber,
		&p.PhoneNumber,
		&p.Amount,
		&p.AccountReference,
		&p.Description,
		&p.UserID,
		&p.BusinessID,
		&p.OrderID,
		&p.TenderID,
		&p.Status,
		&p.ResultCode,
		&p.ResultDesc,
		&p.TransactionDate,
		&paid,
		&p.CallbackReceived,
		&callback,
		&metadata,
		&p.IsSimulation,
		&p.CreatedAt,
		&p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if paid.Valid {
		p.PaidAmount = &paid.Decimal
	}
	if len(callback) > 0 {
		p.CallbackData = json.RawMessage(callback)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode payment metadata: %w", err)
		}
	}
	return &p, nil
}

func collectPayments(rows pgx.Rows) ([]models.PaymentTransaction, error) {
	defer rows.Close()

	payments := []models.PaymentTransaction{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// CreatePayment сохраняет новую транзакцию в статусе PENDING.
func (r *PostgresPaymentRepository) CreatePayment(ctx context.Context, p models.PaymentTransaction) (*models.PaymentTransaction, error) {
	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment metadata: %w", err)
	}

	row := r.DB.QueryRow(ctx, `
		INSERT INTO payment_transaction (id, merchant_request_id, checkout_request_id, phone_number, amount,
		                                 account_reference, description, user_id, business_id, order_id, tender_id,
		                                 status, metadata, is_simulation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+paymentColumns,
		p.ID,
		p.MerchantRequestID,
		p.CheckoutRequestID,
		p.PhoneNumber,
		p.Amount,
		p.AccountReference,
		p.Description,
		p.UserID,
		p.BusinessID,
		p.OrderID,
		p.TenderID,
		models.PendingPayment,
		metadata,
		p.IsSimulation)
	created, err := scanPayment(row)
	if err != nil {
		if refErr := missingPaymentReference(err); refErr != nil {
			return nil, refErr
		}
		return nil, fmt.Errorf("failed to insert payment: %w", mapError(err, "payment not found"))
	}
	return created, nil
}

// missingPaymentReference переводит нарушение внешнего ключа при создании
// платежа в NotFound для ссылки на неизвестный бизнес или тендер.
func missingPaymentReference(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "payment_transaction_business_id_fkey":
		return models.NewErrorResponse(models.ErrNotFound, "business not found")
	case "payment_transaction_tender_id_fkey":
		return models.NewErrorResponse(models.ErrNotFound, "tender not found")
	default:
		return models.Errorf(models.ErrNotFound, "referenced record not found (%s)", pgErr.ConstraintName)
	}
}

// GetByCheckoutID возвращает транзакцию по checkoutRequestID.
func (r *PostgresPaymentRepository) GetByCheckoutID(ctx context.Context, checkoutRequestId string) (*models.PaymentTransaction, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_transaction WHERE checkout_request_id = $1`, checkoutRequestId))
	if err != nil {
		return nil, mapError(err, "transaction not found")
	}
	return p, nil
}

// RebindRequestIDs заменяет идентификаторы запроса на выданные провайдером.
func (r *PostgresPaymentRepository) RebindRequestIDs(ctx context.Context, id, merchantRequestId, checkoutRequestId string) (*models.PaymentTransaction, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx, `
		UPDATE payment_transaction
		SET merchant_request_id = $2, checkout_request_id = $3, updated_at = now()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+paymentColumns, id, merchantRequestId, checkoutRequestId))
	if err != nil {
		return nil, mapError(err, "pending transaction not found")
	}
	return p, nil
}

// FailPending помечает ожидающую транзакцию как FAILED.
func (r *PostgresPaymentRepository) FailPending(ctx context.Context, id, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payment_transaction SET status = 'FAILED', result_desc = $2, updated_at = now()
		WHERE id = $1 AND status = 'PENDING'`, id, reason)
	return mapError(err, "transaction not found")
}

// Settle применяет результат callback к транзакции, если она еще ожидает оплаты.
// Второе значение сообщает, была ли транзакция изменена.
func (r *PostgresPaymentRepository) Settle(ctx context.Context, checkoutRequestId string, status models.PaymentStatus, s models.Settlement) (*models.PaymentTransaction, bool, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx, `
		UPDATE payment_transaction
		SET status = $2,
		    result_code = $3,
		    result_desc = $4,
		    receipt_number = CASE WHEN $8::boolean THEN $5 ELSE receipt_number END,
		    paid_amount = CASE WHEN $8::boolean THEN COALESCE($6, amount) ELSE paid_amount END,
		    transaction_date = CASE WHEN $8::boolean THEN COALESCE($7, now()) ELSE transaction_date END,
		    callback_received = TRUE,
		    callback_data = $9,
		    updated_at = now()
		WHERE checkout_request_id = $1 AND status = 'PENDING'
		RETURNING `+paymentColumns,
		checkoutRequestId,
		status,
		s.ResultCode,
		s.ResultDesc,
		s.ReceiptNumber,
		s.PaidAmount,
		s.TransactionDate,
		status == models.SuccessPayment,
		[]byte(s.Raw)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mapError(err, "transaction not found")
	}
	return p, true, nil
}

// ExpireStale переводит транзакцию в TIMEOUT, если она ожидает оплаты дольше cutoff.
func (r *PostgresPaymentRepository) ExpireStale(ctx context.Context, checkoutRequestId string, cutoff time.Time) (*models.PaymentTransaction, bool, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx, `
		UPDATE payment_transaction
		SET status = 'TIMEOUT', result_desc = 'Transaction timed out', updated_at = now()
		WHERE checkout_request_id = $1 AND status = 'PENDING' AND created_at < $2
		RETURNING `+paymentColumns, checkoutRequestId, cutoff))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mapError(err, "transaction not found")
	}
	return p, true, nil
}

// ExpirePending переводит в TIMEOUT все транзакции, ожидающие оплаты дольше cutoff.
func (r *PostgresPaymentRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payment_transaction
		SET status = 'TIMEOUT', result_desc = 'Transaction timed out', updated_at = now()
		WHERE status = 'PENDING' AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RecordCallback сохраняет входящий callback в журнал.
func (r *PostgresPaymentRepository) RecordCallback(ctx context.Context, rec models.CallbackRecord) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO payment_callback (checkout_request_id, merchant_request_id, result_code, outcome, parse_error, payload)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.CheckoutRequestID,
		rec.MerchantRequestID,
		rec.ResultCode,
		rec.Outcome,
		rec.ParseError,
		string(rec.Payload))
	if err != nil {
		return fmt.Errorf("failed to record callback: %w", err)
	}
	return nil
}

// ListUserPayments возвращает страницу транзакций пользователя.
func (r *PostgresPaymentRepository) ListUserPayments(ctx context.Context, userId string, limit, offset int) ([]models.PaymentTransaction, int, error) {
	return r.list(ctx, "user_id", userId, limit, offset)
}

// ListBusinessPayments возвращает страницу транзакций бизнеса.
func (r *PostgresPaymentRepository) ListBusinessPayments(ctx context.Context, businessId string, limit, offset int) ([]models.PaymentTransaction, int, error) {
	return r.list(ctx, "business_id", businessId, limit, offset)
}

// list выбирает страницу транзакций по колонке column ("user_id" или "business_id").
func (r *PostgresPaymentRepository) list(ctx context.Context, column, value string, limit, offset int) ([]models.PaymentTransaction, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_transaction WHERE `+column+` = $1`, value).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+paymentColumns+` FROM payment_transaction WHERE `+column+` = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, value, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	payments, err := collectPayments(rows)
	return payments, total, err
}

// BusinessSummary считает выручку бизнеса по успешным транзакциям.
func (r *PostgresPaymentRepository) BusinessSummary(ctx context.Context, businessId string) (*models.PaymentSummary, error) {
	var s models.PaymentSummary
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'SUCCESS'),
		       COALESCE(SUM(paid_amount) FILTER (WHERE status = 'SUCCESS'), 0)
		FROM payment_transaction WHERE business_id = $1`, businessId).
		Scan(&s.TotalTransactions, &s.SuccessfulTransactions, &s.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize payments: %w", err)
	}
	return &s, nil
}
