package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TenderStatus - статус тендера.
type TenderStatus string

const (
	OpenTender      TenderStatus = "OPEN"      // Тендер принимает предложения
	ClosedTender    TenderStatus = "CLOSED"    // Тендер закрыт без победителя
	AwardedTender   TenderStatus = "AWARDED"   // Победитель выбран
	CancelledTender TenderStatus = "CANCELLED" // Тендер отменен
)

// DefaultCurrency - валюта по умолчанию для бюджетов и предложений.
const DefaultCurrency = "KES"

// TenderTransitions - допустимые переходы статусов тендера.
var TenderTransitions = map[TenderStatus][]TenderStatus{
	OpenTender:      {ClosedTender, AwardedTender, CancelledTender},
	ClosedTender:    {},
	AwardedTender:   {},
	CancelledTender: {},
}

// Budget - диапазон бюджета тендера.
type Budget struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency"`
}

// Location - место оказания услуги.
type Location struct {
	County    string  `json:"county" validate:"required"`
	SubCounty *string `json:"subCounty,omitempty"`
}

// Tender представляет модель тендера.
type Tender struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	Budget       Budget       `json:"budget"`
	Deadline     time.Time    `json:"deadline"`
	Location     Location     `json:"location"`
	Requirements []string     `json:"requirements"`
	Attachments  []string     `json:"attachments"`
	PostedBy     string       `json:"postedBy"`
	PostedByRole Role         `json:"postedByRole"`
	Status       TenderStatus `json:"status"`
	BidsCount    int          `json:"bidsCount"`
	AwardedTo    *string      `json:"awardedTo,omitempty"`
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TenderDetails - тендер вместе с предложениями по нему.
type TenderDetails struct {
	Tender
	Bids []Bid `json:"bids"`
}

// TenderRequest представляет структуру запроса для создания тендера.
type TenderRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	Budget       Budget    `json:"budget"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	Location     Location  `json:"location"`
	Requirements []string  `json:"requirements"`
	Attachments  []string  `json:"attachments"`
}

// TenderPatch - частичное обновление тендера. nil означает "не менять".
type TenderPatch struct {
	Title        *string      `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string      `json:"description,omitempty"`
	Category     *string      `json:"category,omitempty"`
	Budget       *BudgetPatch `json:"budget,omitempty"`
	Location     *Location    `json:"location,omitempty"`
	Requirements *[]string    `json:"requirements,omitempty"`
	Attachments  *[]string    `json:"attachments,omitempty"`
}

// BudgetPatch - частичное обновление бюджета.
type BudgetPatch struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// TenderFilter - фильтры списка тендеров.
type TenderFilter struct {
	Statuses []string
	Category string
	County   string
	Query    string
	PostedBy string
	Limit    int
	Offset   int
}

// ValidateBudget проверяет упорядоченность и неотрицательность бюджета.
func ValidateBudget(min, max decimal.Decimal) error {
	if min.IsNegative() {
		return NewErrorResponse(ErrValidation, "minimum budget cannot be negative")
	}
	if max.IsNegative() {
		return NewErrorResponse(ErrValidation, "maximum budget cannot be negative")
	}
	if max.LessThan(min) {
		return NewErrorResponse(ErrValidation, "maximum budget must not be less than minimum budget")
	}
	return nil
}

// Validate проверяет инварианты нового тендера на момент now.
func (r *TenderRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Description) == "" || strings.TrimSpace(r.Category) == "" {
		return NewErrorResponse(ErrValidation, "title, description and category are required")
	}
	if err := ValidateBudget(r.Budget.Min, r.Budget.Max); err != nil {
		return err
	}
	if !r.Deadline.After(now) {
		return NewErrorResponse(ErrValidation, "deadline must be in the future")
	}
	if !IsKnownCounty(r.Location.County) {
		return Errorf(ErrValidation, "unknown county: %s", r.Location.County)
	}
	return nil
}

// Apply применяет патч к копии тендера и проверяет результат.
func (p *TenderPatch) Apply(t Tender) (Tender, error) {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return t, NewErrorResponse(ErrValidation, "title cannot be empty")
		}
		t.Title = *p.Title
	}
	if p.Description != nil {
		if strings.TrimSpace(*p.Description) == "" {
			return t, NewErrorResponse(ErrValidation, "description cannot be empty")
		}
		t.Description = *p.Description
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return t, NewErrorResponse(ErrValidation, "category cannot be empty")
		}
		t.Category = *p.Category
	}
	if p.Budget != nil {
		if p.Budget.Min != nil {
			t.Budget.Min = *p.Budget.Min
		}
		if p.Budget.Max != nil {
			t.Budget.Max = *p.Budget.Max
		}
		if err := ValidateBudget(t.Budget.Min, t.Budget.Max); err != nil {
			return t, err
		}
	}
	if p.Location != nil {
		if !IsKnownCounty(p.Location.County) {
			return t, Errorf(ErrValidation, "unknown county: %s", p.Location.County)
		}
		t.Location = *p.Location
	}
	if p.Requirements != nil {
		t.Requirements = *p.Requirements
	}
	if p.Attachments != nil {
		t.Attachments = *p.Attachments
	}
	return t, nil
}

// Empty сообщает, что патч ничего не меняет.
func (p *TenderPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Budget == nil &&
		p.Location == nil && p.Requirements == nil && p.Attachments == nil
}

// AcceptsBids сообщает, можно ли подать предложение в момент now.
func (t *Tender) AcceptsBids(now time.Time) bool {
	return t.Status == OpenTender && !now.After(t.Deadline)
}

// AwardResult - результат присуждения тендера.
type AwardResult struct {
	Tender      Tender   `json:"tender"`
	AcceptedBid Bid      `json:"acceptedBid"`
	RejectedIDs []string `json:"rejectedBids"`
}
