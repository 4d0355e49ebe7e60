package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/senyabanana/sme-tenders/internal/cache"
	"github.com/senyabanana/sme-tenders/internal/events"
	"github.com/senyabanana/sme-tenders/internal/gateway"
	"github.com/senyabanana/sme-tenders/internal/handlers"
	"github.com/senyabanana/sme-tenders/internal/middleware"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/repository/mocks"
	"github.com/senyabanana/sme-tenders/internal/router"
	"github.com/senyabanana/sme-tenders/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	consumer = models.Actor{ID: "user-consumer", Role: models.Consumer}
	smeOwner = models.Actor{ID: "user-sme", Role: models.SME}
)

type testServer struct {
	handler    http.Handler
	auth       *middleware.Authenticator
	tenders    *mocks.TenderRepository
	bids       *mocks.BidRepository
	businesses *mocks.BusinessRepository
	payments   *mocks.PaymentRepository
	sandbox    *gateway.SandboxGateway
}

func newTestServer(t *testing.T) *testServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{
		auth:       middleware.NewAuthenticator("handler-test-secret"),
		tenders:    mocks.NewTenderRepository(t),
		bids:       mocks.NewBidRepository(t),
		businesses: mocks.NewBusinessRepository(t),
		payments:   mocks.NewPaymentRepository(t),
		sandbox:    gateway.NewSandboxGateway(gateway.SandboxConfig{Delay: time.Hour}, logger),
	}

	ev := events.NewManager(false, logger)
	tenderService := services.NewTenderService(ts.tenders, ts.bids, ev, logger)
	bidService := services.NewBidService(ts.bids, ts.tenders, ts.businesses, logger)
	paymentService := services.NewPaymentService(ts.payments, ts.businesses, ts.sandbox, cache.NewInMemoryCache(), ev, logger,
		services.PaymentConfig{ExpiryWindow: 5 * time.Minute, PushTimeout: time.Second})

	ts.handler = router.InitRoutes(router.Handlers{
		Tender:  handlers.NewTenderHandler(tenderService, logger, time.Second),
		Bid:     handlers.NewBidHandler(bidService, logger, time.Second),
		Payment: handlers.NewPaymentHandler(paymentService, logger, time.Second),
	}, ts.auth, []string{"*"}, logger)
	return ts
}

func (ts *testServer) do(t *testing.T, actor *models.Actor, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		token, err := ts.auth.IssueToken(*actor, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func sampleTender() *models.Tender {
	return &models.Tender{
		ID:       "tender-1",
		Title:    "Office cleaning",
		Budget:   models.Budget{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(500), Currency: "KES"},
		Deadline: time.Now().Add(24 * time.Hour),
		Location: models.Location{County: "Nairobi"},
		PostedBy: consumer.ID,
		Status:   models.OpenTender,
	}
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, nil, http.MethodGet, "/api/ping", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestTenders_RequireToken(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, nil, http.MethodGet, "/api/tenders/my", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeError(t, rec)["kind"])
}

func TestCreateTender(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("CreateTender", mock.Anything, mock.AnythingOfType("models.Tender")).
		Return(func(_ context.Context, tn models.Tender) (*models.Tender, error) { return &tn, nil })

	rec := ts.do(t, &consumer, http.MethodPost, "/api/tenders", map[string]any{
		"title":       "Office cleaning",
		"description": "Weekly cleaning of a 3 floor office",
		"category":    "cleaning",
		"budget":      map[string]any{"min": 1000, "max": 5000},
		"deadline":    time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"location":    map[string]any{"county": "Kisumu"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tender models.Tender
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tender))
	assert.Equal(t, models.OpenTender, tender.Status)
	assert.Equal(t, consumer.ID, tender.PostedBy)
	assert.Equal(t, "KES", tender.Budget.Currency)
}

func TestCreateTender_Errors(t *testing.T) {
	ts := newTestServer(t)

	t.Run("sme is forbidden", func(t *testing.T) {
		rec := ts.do(t, &smeOwner, http.MethodPost, "/api/tenders", map[string]any{
			"title": "x", "description": "y", "category": "z",
			"deadline": time.Now().Add(time.Hour).Format(time.RFC3339),
			"location": map[string]any{"county": "Nairobi"},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("broken json", func(t *testing.T) {
		rec := ts.do(t, &consumer, http.MethodPost, "/api/tenders", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ValidationError", decodeError(t, rec)["kind"])
	})

	t.Run("missing county", func(t *testing.T) {
		rec := ts.do(t, &consumer, http.MethodPost, "/api/tenders", map[string]any{
			"title": "x", "description": "y", "category": "z",
			"deadline": time.Now().Add(time.Hour).Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTenders_Filters(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("ListTenders", mock.Anything, models.TenderFilter{
		Statuses: []string{"OPEN", "AWARDED"},
		County:   "Nairobi",
		Query:    "clean",
		Limit:    5,
		Offset:   10,
	}).Return([]models.Tender{*sampleTender()}, 11, nil)

	rec := ts.do(t, &smeOwner, http.MethodGet, "/api/tenders?status=open,awarded&county=Nairobi&q=clean&limit=5&offset=10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page models.ListResult[models.Tender]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 11, page.Pagination.Total)
	assert.Len(t, page.Results, 1)
}

func TestGetTenders_BadLimit(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, &smeOwner, http.MethodGet, "/api/tenders?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTender_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("GetTenderByID", mock.Anything, "missing").
		Return(nil, models.NewErrorResponse(models.ErrNotFound, "tender not found"))

	rec := ts.do(t, &consumer, http.MethodGet, "/api/tenders/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]string{"kind": "NotFound", "reason": "tender not found"}, decodeError(t, rec))
}

func TestAwardTender(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("GetTenderByID", mock.Anything, "tender-1").Return(sampleTender(), nil)
	ts.bids.On("GetBidByID", mock.Anything, "bid-1").
		Return(&models.Bid{ID: "bid-1", TenderID: "tender-1", BusinessID: "biz-1", Status: models.PendingBid}, nil)

	awarded := sampleTender()
	awarded.Status = models.AwardedTender
	ts.tenders.On("AwardTender", mock.Anything, "tender-1", "bid-1").Return(&models.AwardResult{
		Tender:      *awarded,
		AcceptedBid: models.Bid{ID: "bid-1", Status: models.AcceptedBid},
		RejectedIDs: []string{"bid-2"},
	}, nil)

	rec := ts.do(t, &consumer, http.MethodPost, "/api/tenders/tender-1/award", map[string]string{"bidId": "bid-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.AwardResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, models.AwardedTender, result.Tender.Status)
	assert.Equal(t, []string{"bid-2"}, result.RejectedIDs)
}

func TestAwardTender_MissingBidId(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, &consumer, http.MethodPost, "/api/tenders/tender-1/award", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTender_WithBids(t *testing.T) {
	ts := newTestServer(t)
	tn := sampleTender()
	tn.BidsCount = 1
	ts.tenders.On("GetTenderByID", mock.Anything, "tender-1").Return(tn, nil)

	rec := ts.do(t, &consumer, http.MethodDelete, "/api/tenders/tender-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", decodeError(t, rec)["kind"])
}

func TestDeleteTender(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("GetTenderByID", mock.Anything, "tender-1").Return(sampleTender(), nil)
	ts.tenders.On("DeleteTender", mock.Anything, "tender-1").Return(nil)

	rec := ts.do(t, &consumer, http.MethodDelete, "/api/tenders/tender-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateBid_Duplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("GetTenderByID", mock.Anything, "tender-1").Return(sampleTender(), nil)
	ts.businesses.On("GetBusinessByID", mock.Anything, "biz-1").
		Return(&models.Business{ID: "biz-1", OwnerID: smeOwner.ID}, nil)
	ts.bids.On("CreateBid", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, models.NewErrorResponse(models.ErrConflict, "business has already placed a bid on this tender"))

	rec := ts.do(t, &smeOwner, http.MethodPost, "/api/bids/tender/tender-1", map[string]any{
		"businessId":   "biz-1",
		"amount":       "4500.00",
		"proposal":     "Two cleaners",
		"deliveryTime": 3,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateBid(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("GetTenderByID", mock.Anything, "tender-1").Return(sampleTender(), nil)
	ts.businesses.On("GetBusinessByID", mock.Anything, "biz-1").
		Return(&models.Business{ID: "biz-1", OwnerID: smeOwner.ID}, nil)
	ts.bids.On("CreateBid", mock.Anything, mock.MatchedBy(func(b models.Bid) bool {
		return b.TenderID == "tender-1" && b.BusinessID == "biz-1" && b.DeliveryTime == 10
	}), mock.Anything).Return(func(_ context.Context, b models.Bid, _ time.Time) (*models.Bid, error) {
		return &b, nil
	})

	rec := ts.do(t, &smeOwner, http.MethodPost, "/api/bids/tender/tender-1", map[string]any{
		"businessId":   "biz-1",
		"amount":       "3000",
		"proposal":     "Two cleaners",
		"deliveryTime": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var bid models.Bid
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&bid))
	assert.Equal(t, "biz-1", bid.BusinessID)
	assert.Equal(t, models.PendingBid, bid.Status)
	assert.True(t, bid.Amount.Equal(decimal.NewFromInt(3000)))
}

func TestPublicReads_NoToken(t *testing.T) {
	ts := newTestServer(t)
	ts.tenders.On("ListTenders", mock.Anything, mock.Anything).Return([]models.Tender{}, 0, nil)
	ts.tenders.On("GetTenderByID", mock.Anything, "tender-1").Return(sampleTender(), nil)
	ts.bids.On("ListTenderBids", mock.Anything, "tender-1", []string(nil)).Return([]models.Bid{}, nil)
	ts.businesses.On("GetBusinessByID", mock.Anything, "biz-1").
		Return(&models.Business{ID: "biz-1", OwnerID: smeOwner.ID}, nil)
	ts.bids.On("ListBusinessBids", mock.Anything, "biz-1", 20, 0).Return([]models.Bid{}, 0, nil)
	ts.bids.On("GetBidByID", mock.Anything, "bid-1").
		Return(&models.Bid{ID: "bid-1", TenderID: "tender-1", BusinessID: "biz-1", Status: models.PendingBid}, nil)

	for _, path := range []string{
		"/api/tenders",
		"/api/tenders/tender-1",
		"/api/bids/tender/tender-1",
		"/api/bids/business/biz-1",
		"/api/bids/bid-1",
	} {
		rec := ts.do(t, nil, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "%s: %s", path, rec.Body.String())
	}
}

func TestWrites_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/tenders/my"},
		{http.MethodPost, "/api/tenders"},
		{http.MethodPost, "/api/tenders/tender-1/award"},
		{http.MethodPost, "/api/bids/tender/tender-1"},
		{http.MethodGet, "/api/bids/my"},
		{http.MethodPut, "/api/bids/bid-1"},
	} {
		rec := ts.do(t, nil, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestWithdrawBid_NotPending(t *testing.T) {
	ts := newTestServer(t)
	ts.bids.On("GetBidByID", mock.Anything, "bid-1").
		Return(&models.Bid{ID: "bid-1", BusinessID: "biz-1", Status: models.AcceptedBid}, nil)
	ts.businesses.On("GetBusinessByID", mock.Anything, "biz-1").
		Return(&models.Business{ID: "biz-1", OwnerID: smeOwner.ID}, nil)

	rec := ts.do(t, &smeOwner, http.MethodPost, "/api/bids/bid-1/withdraw", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "InvalidState", decodeError(t, rec)["kind"])
}

func TestGetMyBids(t *testing.T) {
	ts := newTestServer(t)
	ts.bids.On("ListOwnerBids", mock.Anything, smeOwner.ID, 20, 0).Return([]models.Bid{}, 0, nil)

	rec := ts.do(t, &smeOwner, http.MethodGet, "/api/bids/my", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPaymentCallback_AlwaysAcknowledges(t *testing.T) {
	ts := newTestServer(t)
	ts.payments.On("RecordCallback", mock.Anything, mock.MatchedBy(func(rec models.CallbackRecord) bool {
		return rec.Outcome == models.CallbackMalformed
	})).Return(nil)

	rec := ts.do(t, nil, http.MethodPost, "/api/payments/callback", `not json at all`)
	require.Equal(t, http.StatusOK, rec.Code)

	var ack models.CallbackAck
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ack))
	assert.Equal(t, models.AcceptedCallback, ack)
}

func TestPaymentCallback_StorageFailureStillAcknowledges(t *testing.T) {
	ts := newTestServer(t)
	ts.payments.On("Settle", mock.Anything, "CR-1", models.FailedPayment, mock.Anything).
		Return(nil, false, assert.AnError)

	rec := ts.do(t, nil, http.MethodPost, "/api/payments/callback",
		`{"Body":{"stkCallback":{"MerchantRequestID":"MR-1","CheckoutRequestID":"CR-1","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Success"}`, rec.Body.String())
}

func TestInitiatePayment(t *testing.T) {
	ts := newTestServer(t)
	ts.payments.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.PaymentTransaction) bool {
		return p.UserID != nil && *p.UserID == smeOwner.ID &&
			p.Metadata.InitiatedFrom == "web" &&
			p.PhoneNumber == "254712345678"
	})).Return(func(_ context.Context, p models.PaymentTransaction) (*models.PaymentTransaction, error) { return &p, nil })

	rec := ts.do(t, &smeOwner, http.MethodPost, "/api/payments/initiate", map[string]any{
		"phoneNumber":      "+254712345678",
		"amount":           100,
		"accountReference": "TENDER-1",
		"transactionDesc":  "Listing fee",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.InitiatePaymentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, strings.HasPrefix(resp.CheckoutRequestID, "CR-"))
	assert.Equal(t, "0", resp.ResponseCode)
}

func TestInitiatePayment_UnknownBusiness(t *testing.T) {
	ts := newTestServer(t)
	ts.payments.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil, models.NewErrorResponse(models.ErrNotFound, "business not found"))

	rec := ts.do(t, &smeOwner, http.MethodPost, "/api/payments/initiate", map[string]any{
		"phoneNumber":      "0712345678",
		"amount":           100,
		"accountReference": "TENDER-1",
		"transactionDesc":  "Listing fee",
		"businessId":       "biz-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]string{"kind": "NotFound", "reason": "business not found"}, decodeError(t, rec))
}

func TestInitiatePayment_InvalidPhone(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, &smeOwner, http.MethodPost, "/api/payments/initiate", map[string]any{
		"phoneNumber":      "0812345678",
		"amount":           100,
		"accountReference": "TENDER-1",
		"transactionDesc":  "Listing fee",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPaymentStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.payments.On("GetByCheckoutID", mock.Anything, "CR-1").Return(&models.PaymentTransaction{
		CheckoutRequestID: "CR-1",
		Status:            models.PendingPayment,
		CreatedAt:         time.Now(),
	}, nil)

	rec := ts.do(t, &smeOwner, http.MethodGet, "/api/payments/CR-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap models.PaymentStatusSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, models.PendingPayment, snap.Status)
}

func TestGetBusinessPayments_Forbidden(t *testing.T) {
	ts := newTestServer(t)
	ts.businesses.On("GetBusinessByID", mock.Anything, "biz-1").
		Return(&models.Business{ID: "biz-1", OwnerID: "someone-else"}, nil)

	rec := ts.do(t, &smeOwner, http.MethodGet, "/api/payments/business/biz-1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
