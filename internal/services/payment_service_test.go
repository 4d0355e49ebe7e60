package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/senyabanana/sme-tenders/internal/cache"
	"github.com/senyabanana/sme-tenders/internal/events"
	"github.com/senyabanana/sme-tenders/internal/gateway"
	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	simulation bool
	response   *gateway.PushResponse
	err        error
	pushed     []gateway.PushRequest
}

func (g *stubGateway) Push(_ context.Context, req gateway.PushRequest) (*gateway.PushResponse, error) {
	g.pushed = append(g.pushed, req)
	if g.err != nil {
		return nil, g.err
	}
	if g.response != nil {
		return g.response, nil
	}
	return &gateway.PushResponse{
		MerchantRequestID:   req.MerchantRequestID,
		CheckoutRequestID:   req.CheckoutRequestID,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}

func (g *stubGateway) IsSimulation() bool { return g.simulation }

type paymentFixture struct {
	service    *PaymentService
	repo       *mocks.PaymentRepository
	businesses *mocks.BusinessRepository
	gateway    *stubGateway
	cache      *cache.InMemoryCache
	events     *eventRecorder
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	repo := mocks.NewPaymentRepository(t)
	businesses := mocks.NewBusinessRepository(t)
	gw := &stubGateway{simulation: true}
	c := cache.NewInMemoryCache()
	ev, rec := newRecordingManager()

	s := NewPaymentService(repo, businesses, gw, c, ev, discardLogger(), PaymentConfig{
		ExpiryWindow: 5 * time.Minute,
		PushTimeout:  time.Second,
	})
	s.now = func() time.Time { return fixedNow }

	return &paymentFixture{service: s, repo: repo, businesses: businesses, gateway: gw, cache: c, events: rec}
}

func validPaymentRequest() models.InitiatePaymentRequest {
	userId := owner.ID
	return models.InitiatePaymentRequest{
		PhoneNumber:      "0712345678",
		Amount:           decimal.NewFromInt(150),
		AccountReference: "ORDER-42",
		Description:      "Tender fee",
		UserID:           &userId,
	}
}

func echoCreate(_ context.Context, p models.PaymentTransaction) (*models.PaymentTransaction, error) {
	p.CreatedAt = fixedNow
	return &p, nil
}

func pendingPayment() *models.PaymentTransaction {
	return &models.PaymentTransaction{
		ID:                "pay-1",
		MerchantRequestID: "MR-1",
		CheckoutRequestID: "CR-1",
		PhoneNumber:       "254712345678",
		Amount:            decimal.NewFromInt(150),
		Status:            models.PendingPayment,
		CreatedAt:         fixedNow.Add(-time.Minute),
	}
}

const successCallback = `{"Body":{"stkCallback":{"MerchantRequestID":"MR-1","CheckoutRequestID":"CR-1",
"ResultCode":0,"ResultDesc":"The service request is processed successfully.",
"CallbackMetadata":{"Item":[{"Name":"Amount","Value":150},{"Name":"MpesaReceiptNumber","Value":"QHX1ABC2"},
{"Name":"TransactionDate","Value":20250310120501},{"Name":"PhoneNumber","Value":254712345678}]}}}}`

const cancelledCallback = `{"Body":{"stkCallback":{"MerchantRequestID":"MR-1","CheckoutRequestID":"CR-1",
"ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`

func TestPaymentService_Initiate(t *testing.T) {
	f := newPaymentFixture(t)

	f.repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.PaymentTransaction) bool {
		return p.PhoneNumber == "254712345678" &&
			strings.HasPrefix(p.MerchantRequestID, "MR-") &&
			strings.HasPrefix(p.CheckoutRequestID, "CR-") &&
			p.Status == models.PendingPayment &&
			p.IsSimulation
	})).Return(echoCreate)

	resp, err := f.service.Initiate(context.Background(), validPaymentRequest())
	require.NoError(t, err)
	assert.Equal(t, "0", resp.ResponseCode)
	assert.True(t, strings.HasPrefix(resp.CheckoutRequestID, "CR-"))

	require.Len(t, f.gateway.pushed, 1)
	assert.Equal(t, resp.CheckoutRequestID, f.gateway.pushed[0].CheckoutRequestID)
	assert.Equal(t, "254712345678", f.gateway.pushed[0].PhoneNumber)
}

func TestPaymentService_Initiate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.InitiatePaymentRequest)
	}{
		{name: "bad phone", mutate: func(r *models.InitiatePaymentRequest) { r.PhoneNumber = "12345" }},
		{name: "landline prefix", mutate: func(r *models.InitiatePaymentRequest) { r.PhoneNumber = "0212345678" }},
		{name: "amount below one", mutate: func(r *models.InitiatePaymentRequest) { r.Amount = decimal.RequireFromString("0.5") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture(t)
			req := validPaymentRequest()
			tt.mutate(&req)

			_, err := f.service.Initiate(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Empty(t, f.gateway.pushed)
		})
	}
}

func TestPaymentService_Initiate_GatewayRefusal(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.err = errors.New("gateway rejected request: invalid shortcode")

	var paymentId string
	f.repo.On("CreatePayment", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, p models.PaymentTransaction) (*models.PaymentTransaction, error) {
			paymentId = p.ID
			return echoCreate(ctx, p)
		})
	f.repo.On("FailPending", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(reason string) bool {
		return strings.Contains(reason, "invalid shortcode")
	})).Return(nil)

	_, err := f.service.Initiate(context.Background(), validPaymentRequest())
	assert.ErrorIs(t, err, models.ErrGateway)
	f.repo.AssertCalled(t, "FailPending", mock.Anything, paymentId, mock.Anything)
}

func TestPaymentService_Initiate_UnknownBusiness(t *testing.T) {
	f := newPaymentFixture(t)
	req := validPaymentRequest()
	businessId := "biz-missing"
	req.BusinessID = &businessId

	f.repo.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil, models.NewErrorResponse(models.ErrNotFound, "business not found"))

	_, err := f.service.Initiate(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, f.gateway.pushed)
}

func TestPaymentService_Initiate_RebindsProviderIDs(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.simulation = false
	f.gateway.response = &gateway.PushResponse{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: "ws_CO_191220191020363925",
		ResponseCode:      "0",
	}

	f.repo.On("CreatePayment", mock.Anything, mock.Anything).Return(echoCreate)
	f.repo.On("RebindRequestIDs", mock.Anything, mock.AnythingOfType("string"), "29115-34620561-1", "ws_CO_191220191020363925").
		Return(&models.PaymentTransaction{
			ID:                "pay-1",
			MerchantRequestID: "29115-34620561-1",
			CheckoutRequestID: "ws_CO_191220191020363925",
			Status:            models.PendingPayment,
		}, nil)

	resp, err := f.service.Initiate(context.Background(), validPaymentRequest())
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "29115-34620561-1", resp.MerchantRequestID)
}

func TestPaymentService_HandleCallback_Success(t *testing.T) {
	f := newPaymentFixture(t)

	receipt := "QHX1ABC2"
	paid := decimal.NewFromInt(150)
	settled := pendingPayment()
	settled.Status = models.SuccessPayment
	settled.ReceiptNumber = &receipt
	settled.PaidAmount = &paid
	settled.CallbackReceived = true

	f.repo.On("Settle", mock.Anything, "CR-1", models.SuccessPayment, mock.MatchedBy(func(s models.Settlement) bool {
		return s.ResultCode == "0" &&
			s.ReceiptNumber != nil && *s.ReceiptNumber == receipt &&
			s.PaidAmount != nil && s.PaidAmount.Equal(paid) &&
			s.TransactionDate != nil && s.TransactionDate.Equal(time.Date(2025, 3, 10, 9, 5, 1, 0, time.UTC))
	})).Return(settled, true, nil)
	f.repo.On("RecordCallback", mock.Anything, mock.MatchedBy(func(rec models.CallbackRecord) bool {
		return rec.Outcome == models.CallbackApplied && *rec.CheckoutRequestID == "CR-1"
	})).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), []byte(successCallback))
	require.NoError(t, err)
	assert.Equal(t, models.CallbackApplied, outcome)

	f.service.Events.Wait()
	assert.Equal(t, []events.EventType{events.EventPaymentSucceeded}, f.events.types())

	snap, err := f.service.QueryStatus(context.Background(), "CR-1")
	require.NoError(t, err)
	assert.Equal(t, models.SuccessPayment, snap.Status)
	f.repo.AssertNotCalled(t, "GetByCheckoutID", mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_Cancelled(t *testing.T) {
	f := newPaymentFixture(t)
	failed := pendingPayment()
	failed.Status = models.FailedPayment

	f.repo.On("Settle", mock.Anything, "CR-1", models.FailedPayment, mock.MatchedBy(func(s models.Settlement) bool {
		return s.ResultCode == "1032" && s.ResultDesc == "Request cancelled by user" && s.ReceiptNumber == nil
	})).Return(failed, true, nil)
	f.repo.On("RecordCallback", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), []byte(cancelledCallback))
	require.NoError(t, err)
	assert.Equal(t, models.CallbackApplied, outcome)

	f.service.Events.Wait()
	assert.Equal(t, []events.EventType{events.EventPaymentFailed}, f.events.types())
}

func TestPaymentService_HandleCallback_Duplicate(t *testing.T) {
	f := newPaymentFixture(t)
	settled := pendingPayment()
	settled.Status = models.SuccessPayment

	f.repo.On("Settle", mock.Anything, "CR-1", models.FailedPayment, mock.Anything).Return(nil, false, nil)
	f.repo.On("GetByCheckoutID", mock.Anything, "CR-1").Return(settled, nil)
	f.repo.On("RecordCallback", mock.Anything, mock.MatchedBy(func(rec models.CallbackRecord) bool {
		return rec.Outcome == models.CallbackDuplicate
	})).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), []byte(cancelledCallback))
	require.NoError(t, err)
	assert.Equal(t, models.CallbackDuplicate, outcome)

	f.service.Events.Wait()
	assert.Empty(t, f.events.types())
}

func TestPaymentService_HandleCallback_Unmatched(t *testing.T) {
	f := newPaymentFixture(t)

	f.repo.On("Settle", mock.Anything, "CR-1", models.SuccessPayment, mock.Anything).Return(nil, false, nil)
	f.repo.On("GetByCheckoutID", mock.Anything, "CR-1").
		Return(nil, models.NewErrorResponse(models.ErrNotFound, "transaction not found"))
	f.repo.On("RecordCallback", mock.Anything, mock.MatchedBy(func(rec models.CallbackRecord) bool {
		return rec.Outcome == models.CallbackUnmatched
	})).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), []byte(successCallback))
	require.NoError(t, err)
	assert.Equal(t, models.CallbackUnmatched, outcome)
}

func TestPaymentService_HandleCallback_Malformed(t *testing.T) {
	f := newPaymentFixture(t)
	f.repo.On("RecordCallback", mock.Anything, mock.MatchedBy(func(rec models.CallbackRecord) bool {
		return rec.Outcome == models.CallbackMalformed && rec.ParseError != nil && rec.CheckoutRequestID == nil
	})).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), []byte(`{"unexpected":true}`))
	require.NoError(t, err)
	assert.Equal(t, models.CallbackMalformed, outcome)
	f.repo.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_QueryStatus(t *testing.T) {
	t.Run("pending within window", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.repo.On("GetByCheckoutID", mock.Anything, "CR-1").Return(pendingPayment(), nil)

		snap, err := f.service.QueryStatus(context.Background(), "CR-1")
		require.NoError(t, err)
		assert.Equal(t, models.PendingPayment, snap.Status)

		_, err = f.cache.Get(context.Background(), snapshotKey("CR-1"))
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stale pending expires", func(t *testing.T) {
		f := newPaymentFixture(t)
		stale := pendingPayment()
		stale.CreatedAt = fixedNow.Add(-10 * time.Minute)
		expired := *stale
		expired.Status = models.TimeoutPayment

		f.repo.On("GetByCheckoutID", mock.Anything, "CR-1").Return(stale, nil).Once()
		f.repo.On("ExpireStale", mock.Anything, "CR-1", fixedNow.Add(-5*time.Minute)).Return(&expired, true, nil)

		snap, err := f.service.QueryStatus(context.Background(), "CR-1")
		require.NoError(t, err)
		assert.Equal(t, models.TimeoutPayment, snap.Status)

		snap, err = f.service.QueryStatus(context.Background(), "CR-1")
		require.NoError(t, err)
		assert.Equal(t, models.TimeoutPayment, snap.Status)
	})

	t.Run("callback wins the race", func(t *testing.T) {
		f := newPaymentFixture(t)
		stale := pendingPayment()
		stale.CreatedAt = fixedNow.Add(-10 * time.Minute)
		settled := *stale
		settled.Status = models.SuccessPayment

		f.repo.On("GetByCheckoutID", mock.Anything, "CR-1").Return(stale, nil).Once()
		f.repo.On("ExpireStale", mock.Anything, "CR-1", mock.Anything).Return(nil, false, nil)
		f.repo.On("GetByCheckoutID", mock.Anything, "CR-1").Return(&settled, nil).Once()

		snap, err := f.service.QueryStatus(context.Background(), "CR-1")
		require.NoError(t, err)
		assert.Equal(t, models.SuccessPayment, snap.Status)
	})

	t.Run("unknown", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.repo.On("GetByCheckoutID", mock.Anything, "CR-404").
			Return(nil, models.NewErrorResponse(models.ErrNotFound, "transaction not found"))

		_, err := f.service.QueryStatus(context.Background(), "CR-404")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPaymentService_ExpirePending(t *testing.T) {
	f := newPaymentFixture(t)
	f.repo.On("ExpirePending", mock.Anything, fixedNow.Add(-5*time.Minute)).Return(int64(3), nil)

	n, err := f.service.ExpirePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPaymentService_BusinessPayments(t *testing.T) {
	t.Run("owner sees summary", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.businesses.On("GetBusinessByID", mock.Anything, "biz-1").Return(ownedBusiness(), nil)
		f.repo.On("ListBusinessPayments", mock.Anything, "biz-1", 20, 0).
			Return([]models.PaymentTransaction{*pendingPayment()}, 1, nil)
		f.repo.On("BusinessSummary", mock.Anything, "biz-1").Return(&models.PaymentSummary{
			TotalRevenue:           decimal.NewFromInt(900),
			TotalTransactions:      4,
			SuccessfulTransactions: 3,
		}, nil)

		got, err := f.service.BusinessPayments(context.Background(), owner, "biz-1", 20, 0)
		require.NoError(t, err)
		assert.Len(t, got.Results, 1)
		assert.True(t, got.Summary.TotalRevenue.Equal(decimal.NewFromInt(900)))
		assert.Equal(t, 3, got.Summary.SuccessfulTransactions)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.businesses.On("GetBusinessByID", mock.Anything, "biz-1").Return(ownedBusiness(), nil)

		_, err := f.service.BusinessPayments(context.Background(), consumer, "biz-1", 20, 0)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestPaymentService_MyPayments(t *testing.T) {
	f := newPaymentFixture(t)
	f.repo.On("ListUserPayments", mock.Anything, owner.ID, 5, 0).Return([]models.PaymentTransaction{}, 0, nil)

	page, err := f.service.MyPayments(context.Background(), owner, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}
