package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SuccessResultCode - код успешной оплаты.
const SuccessResultCode = 0

// CallbackResult - разобранный callback провайдера.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Success           bool
	ReceiptNumber     *string
	PaidAmount        *decimal.Decimal
	TransactionDate   *time.Time
	PhoneNumber       *string
}

type callbackEnvelope struct {
	Body *struct {
		StkCallback *stkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type stkCallback struct {
	MerchantRequestID string          `json:"MerchantRequestID"`
	CheckoutRequestID string          `json:"CheckoutRequestID"`
	ResultCode        json.RawMessage `json:"ResultCode"`
	ResultDesc        string          `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []metadataItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type metadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// ErrMalformedCallback возвращается для тела, не похожего на callback провайдера.
var ErrMalformedCallback = errors.New("malformed callback")

// ParseCallback разбирает тело callback в типизированный результат.
// Значения метаданных принимаются как числами, так и строками.
func ParseCallback(body []byte) (*CallbackResult, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}
	if env.Body == nil || env.Body.StkCallback == nil {
		return nil, fmt.Errorf("%w: missing Body.stkCallback", ErrMalformedCallback)
	}
	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%w: missing CheckoutRequestID", ErrMalformedCallback)
	}

	code, err := scalarInt(cb.ResultCode)
	if err != nil {
		return nil, fmt.Errorf("%w: ResultCode: %v", ErrMalformedCallback, err)
	}

	res := &CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        code,
		ResultDesc:        cb.ResultDesc,
		Success:           code == SuccessResultCode,
	}
	if cb.CallbackMetadata == nil {
		return res, nil
	}

	for _, item := range cb.CallbackMetadata.Item {
		raw, ok := scalarString(item.Value)
		if !ok || raw == "" {
			continue
		}
		switch item.Name {
		case "Amount":
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: Amount: %v", ErrMalformedCallback, err)
			}
			res.PaidAmount = &amount
		case "MpesaReceiptNumber":
			receipt := raw
			res.ReceiptNumber = &receipt
		case "TransactionDate":
			ts, err := ParseTransactionDate(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: TransactionDate: %v", ErrMalformedCallback, err)
			}
			res.TransactionDate = &ts
		case "PhoneNumber":
			phone := raw
			res.PhoneNumber = &phone
		}
	}
	return res, nil
}

// ParseTransactionDate разбирает время провайдера YYYYMMDDHHmmss в часовом поясе EAT.
func ParseTransactionDate(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, EAT)
}

// scalarString возвращает строковое представление JSON числа или строки.
func scalarString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

func scalarInt(raw json.RawMessage) (int, error) {
	s, ok := scalarString(raw)
	if !ok {
		return 0, errors.New("missing value")
	}
	return strconv.Atoi(s)
}

// BuildCallback собирает тело callback в формате провайдера.
func BuildCallback(res CallbackResult) ([]byte, error) {
	cb := map[string]any{
		"MerchantRequestID": res.MerchantRequestID,
		"CheckoutRequestID": res.CheckoutRequestID,
		"ResultCode":        res.ResultCode,
		"ResultDesc":        res.ResultDesc,
	}

	var items []map[string]any
	if res.PaidAmount != nil {
		items = append(items, map[string]any{"Name": "Amount", "Value": json.Number(res.PaidAmount.String())})
	}
	if res.ReceiptNumber != nil {
		items = append(items, map[string]any{"Name": "MpesaReceiptNumber", "Value": *res.ReceiptNumber})
	}
	if res.TransactionDate != nil {
		date, _ := strconv.ParseInt(res.TransactionDate.In(EAT).Format(TimestampLayout), 10, 64)
		items = append(items, map[string]any{"Name": "TransactionDate", "Value": date})
	}
	if res.PhoneNumber != nil {
		phone, err := strconv.ParseInt(*res.PhoneNumber, 10, 64)
		if err != nil {
			items = append(items, map[string]any{"Name": "PhoneNumber", "Value": *res.PhoneNumber})
		} else {
			items = append(items, map[string]any{"Name": "PhoneNumber", "Value": phone})
		}
	}
	if len(items) > 0 {
		cb["CallbackMetadata"] = map[string]any{"Item": items}
	}

	return json.Marshal(map[string]any{"Body": map[string]any{"stkCallback": cb}})
}
