package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BidStatus - статус предложения.
type BidStatus string

const (
	PendingBid   BidStatus = "PENDING"   // Предложение ожидает решения
	AcceptedBid  BidStatus = "ACCEPTED"  // Предложение выиграло тендер
	RejectedBid  BidStatus = "REJECTED"  // Тендер присужден другому предложению
	WithdrawnBid BidStatus = "WITHDRAWN" // Предложение отозвано владельцем
)

// BidTransitions - допустимые переходы статусов предложения.
var BidTransitions = map[BidStatus][]BidStatus{
	PendingBid:   {AcceptedBid, RejectedBid, WithdrawnBid},
	AcceptedBid:  {},
	RejectedBid:  {},
	WithdrawnBid: {},
}

// Bid представляет модель предложения.
type Bid struct {
	ID           string          `json:"id"`
	TenderID     string          `json:"tender"`
	BusinessID   string          `json:"business"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Proposal     string          `json:"proposal"`
	DeliveryTime int             `json:"deliveryTime"`
	Attachments  []string        `json:"attachments"`
	Status       BidStatus       `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BidRequest представляет структуру запроса для создания предложения.
type BidRequest struct {
	BusinessID   string          `json:"businessId" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	Proposal     string          `json:"proposal" validate:"required"`
	DeliveryTime int             `json:"deliveryTime" validate:"gte=1"`
	Attachments  []string        `json:"attachments"`
}

// BidPatch - частичное обновление предложения.
type BidPatch struct {
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Proposal     *string          `json:"proposal,omitempty"`
	DeliveryTime *int             `json:"deliveryTime,omitempty"`
	Attachments  *[]string        `json:"attachments,omitempty"`
}

// BidFilter - фильтры списков предложений.
type BidFilter struct {
	Statuses []string
	Limit    int
	Offset   int
}

// Validate проверяет инварианты нового предложения.
func (r *BidRequest) Validate() error {
	if strings.TrimSpace(r.BusinessID) == "" {
		return NewErrorResponse(ErrValidation, "business is required")
	}
	if r.Amount.IsNegative() {
		return NewErrorResponse(ErrValidation, "amount cannot be negative")
	}
	if strings.TrimSpace(r.Proposal) == "" {
		return NewErrorResponse(ErrValidation, "proposal is required")
	}
	if r.DeliveryTime < 1 {
		return NewErrorResponse(ErrValidation, "deliveryTime must be at least 1 day")
	}
	return nil
}

// Apply применяет патч к копии предложения и проверяет результат.
func (p *BidPatch) Apply(b Bid) (Bid, error) {
	if p.Amount != nil {
		if p.Amount.IsNegative() {
			return b, NewErrorResponse(ErrValidation, "amount cannot be negative")
		}
		b.Amount = *p.Amount
	}
	if p.Proposal != nil {
		if strings.TrimSpace(*p.Proposal) == "" {
			return b, NewErrorResponse(ErrValidation, "proposal cannot be empty")
		}
		b.Proposal = *p.Proposal
	}
	if p.DeliveryTime != nil {
		if *p.DeliveryTime < 1 {
			return b, NewErrorResponse(ErrValidation, "deliveryTime must be at least 1 day")
		}
		b.DeliveryTime = *p.DeliveryTime
	}
	if p.Attachments != nil {
		b.Attachments = *p.Attachments
	}
	return b, nil
}

// Empty сообщает, что патч ничего не меняет.
func (p *BidPatch) Empty() bool {
	return p.Amount == nil && p.Proposal == nil && p.DeliveryTime == nil && p.Attachments == nil
}
