// Package gateway описывает контракт STK push провайдера мобильных платежей,
// его HTTP реализацию для Daraja и песочницу для разработки.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrRejected возвращается, когда провайдер отказал в приеме запроса.
var ErrRejected = errors.New("gateway rejected request")

// EAT - часовой пояс, в котором провайдер передает TransactionDate.
var EAT = time.FixedZone("EAT", 3*60*60)

// TimestampLayout - формат времени провайдера (YYYYMMDDHHmmss).
const TimestampLayout = "20060102150405"

// PushRequest - запрос на STK push. Идентификаторы сгенерированы локально.
type PushRequest struct {
	MerchantRequestID string
	CheckoutRequestID string
	PhoneNumber       string
	Amount            decimal.Decimal
	AccountReference  string
	Description       string
}

// PushResponse - ответ провайдера. Реальный провайдер выдает собственные идентификаторы.
type PushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// Gateway - адаптер провайдера мобильных платежей.
type Gateway interface {
	Push(ctx context.Context, req PushRequest) (*PushResponse, error)
	IsSimulation() bool
}
