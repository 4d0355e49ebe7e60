package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus - статус платежной транзакции.
type PaymentStatus string

const (
	PendingPayment   PaymentStatus = "PENDING"
	SuccessPayment   PaymentStatus = "SUCCESS"
	FailedPayment    PaymentStatus = "FAILED"
	CancelledPayment PaymentStatus = "CANCELLED"
	TimeoutPayment   PaymentStatus = "TIMEOUT"
)

// IsTerminal сообщает, что статус больше не изменится.
func (s PaymentStatus) IsTerminal() bool {
	return s != PendingPayment
}

var phonePattern = regexp.MustCompile(`^(\+?254|0)[17]\d{8}$`)

// PaymentMetadata - сведения об источнике платежа.
type PaymentMetadata struct {
	InitiatedFrom string `json:"initiatedFrom,omitempty"`
	IPAddress     string `json:"ipAddress,omitempty"`
}

// PaymentTransaction представляет модель платежной транзакции.
type PaymentTransaction struct {
	ID                string           `json:"id"`
	MerchantRequestID string           `json:"merchantRequestID"`
	CheckoutRequestID string           `json:"checkoutRequestID"`
	ReceiptNumber     *string          `json:"mpesaReceiptNumber,omitempty"`
	PhoneNumber       string           `json:"phoneNumber"`
	Amount            decimal.Decimal  `json:"amount"`
	AccountReference  string           `json:"accountReference"`
	Description       string           `json:"transactionDesc"`
	UserID            *string          `json:"user,omitempty"`
	BusinessID        *string          `json:"business,omitempty"`
	OrderID           *string          `json:"order,omitempty"`
	TenderID          *string          `json:"tender,omitempty"`
	Status            PaymentStatus    `json:"status"`
	ResultCode        *string          `json:"resultCode,omitempty"`
	ResultDesc        *string          `json:"resultDesc,omitempty"`
	TransactionDate   *time.Time       `json:"transactionDate,omitempty"`
	PaidAmount        *decimal.Decimal `json:"paidAmount,omitempty"`
	CallbackReceived  bool             `json:"callbackReceived"`
	CallbackData      json.RawMessage  `json:"callbackData,omitempty"`
	Metadata          PaymentMetadata  `json:"metadata"`
	IsSimulation      bool             `json:"isSimulation"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// InitiatePaymentRequest - запрос на STK push.
type InitiatePaymentRequest struct {
	PhoneNumber      string          `json:"phoneNumber" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	AccountReference string          `json:"accountReference" validate:"required,max=64"`
	Description      string          `json:"transactionDesc" validate:"required,max=255"`
	BusinessID       *string         `json:"businessId,omitempty"`
	OrderID          *string         `json:"orderId,omitempty"`
	TenderID         *string         `json:"tenderId,omitempty"`
	UserID           *string         `json:"-"`
	Metadata         PaymentMetadata `json:"-"`
}

// InitiatePaymentResponse - ответ на запрос STK push.
type InitiatePaymentResponse struct {
	MerchantRequestID   string `json:"merchantRequestID"`
	CheckoutRequestID   string `json:"checkoutRequestID"`
	ResponseCode        string `json:"responseCode"`
	ResponseDescription string `json:"responseDescription"`
	CustomerMessage     string `json:"customerMessage"`
}

// PaymentStatusSnapshot - состояние транзакции для опроса клиентом.
type PaymentStatusSnapshot struct {
	CheckoutRequestID string           `json:"checkoutRequestID"`
	Status            PaymentStatus    `json:"status"`
	ResultCode        *string          `json:"resultCode,omitempty"`
	ResultDesc        *string          `json:"resultDesc,omitempty"`
	ReceiptNumber     *string          `json:"mpesaReceiptNumber,omitempty"`
	TransactionDate   *time.Time       `json:"transactionDate,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
}

// Snapshot возвращает состояние транзакции для опроса.
func (p *PaymentTransaction) Snapshot() PaymentStatusSnapshot {
	return PaymentStatusSnapshot{
		CheckoutRequestID: p.CheckoutRequestID,
		Status:            p.Status,
		ResultCode:        p.ResultCode,
		ResultDesc:        p.ResultDesc,
		ReceiptNumber:     p.ReceiptNumber,
		TransactionDate:   p.TransactionDate,
		Amount:            p.PaidAmount,
	}
}

// PaymentSummary - выручка бизнеса по успешным платежам.
type PaymentSummary struct {
	TotalRevenue           decimal.Decimal `json:"totalRevenue"`
	TotalTransactions      int             `json:"totalTransactions"`
	SuccessfulTransactions int             `json:"successfulTransactions"`
}

// BusinessPayments - страница транзакций бизнеса со сводкой.
type BusinessPayments struct {
	ListResult[PaymentTransaction]
	Summary PaymentSummary `json:"summary"`
}

// CallbackAck - подтверждение, которое всегда получает вызывающий webhook.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// AcceptedCallback - стандартный ответ на callback.
var AcceptedCallback = CallbackAck{ResultCode: 0, ResultDesc: "Success"}

// Settlement - результат оплаты, применяемый к транзакции.
type Settlement struct {
	ResultCode      string
	ResultDesc      string
	ReceiptNumber   *string
	PaidAmount      *decimal.Decimal
	TransactionDate *time.Time
	Raw             json.RawMessage
}

// ValidPhoneNumber проверяет кенийский формат номера.
func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}

// NormalizePhoneNumber приводит номер к формату 2547XXXXXXXX.
func NormalizePhoneNumber(phone string) string {
	p := strings.ReplaceAll(phone, " ", "")
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		p = "254" + p[1:]
	}
	return p
}

// Validate проверяет номер телефона и сумму платежа.
func (r *InitiatePaymentRequest) Validate() error {
	if !ValidPhoneNumber(r.PhoneNumber) {
		return NewErrorResponse(ErrValidation, "invalid phone number format, use +254XXXXXXXXX")
	}
	if r.Amount.LessThan(decimal.NewFromInt(1)) {
		return NewErrorResponse(ErrValidation, "amount must be at least KES 1")
	}
	if strings.TrimSpace(r.AccountReference) == "" || strings.TrimSpace(r.Description) == "" {
		return NewErrorResponse(ErrValidation, "accountReference and transactionDesc are required")
	}
	return nil
}

// CallbackOutcome - результат обработки callback для журнала.
type CallbackOutcome string

const (
	CallbackApplied   CallbackOutcome = "APPLIED"   // Транзакция финализирована этим callback
	CallbackDuplicate CallbackOutcome = "DUPLICATE" // Транзакция уже была в терминальном статусе
	CallbackUnmatched CallbackOutcome = "UNMATCHED" // Транзакция с таким checkoutRequestID не найдена
	CallbackMalformed CallbackOutcome = "MALFORMED" // Тело не удалось разобрать
)

// CallbackRecord - запись журнала входящих callback.
type CallbackRecord struct {
	CheckoutRequestID *string
	MerchantRequestID *string
	ResultCode        *int
	Outcome           CallbackOutcome
	ParseError        *string
	Payload           []byte
}
