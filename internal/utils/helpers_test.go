package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimitOffset(t *testing.T) {
	limit, offset, err := ParseLimitOffset("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, offset, err = ParseLimitOffset("100", "40")
	require.NoError(t, err)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 40, offset)

	for _, bad := range [][2]string{{"0", ""}, {"101", ""}, {"abc", ""}, {"", "-1"}} {
		_, _, err = ParseLimitOffset(bad[0], bad[1])
		assert.ErrorIs(t, err, models.ErrValidation, bad)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(models.TenderTransitions[models.OpenTender], models.AwardedTender))
	assert.False(t, Contains(models.TenderTransitions[models.ClosedTender], models.OpenTender))
	assert.True(t, Contains(models.BidTransitions[models.PendingBid], models.WithdrawnBid))
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rec := httptest.NewRecorder()
	WriteError(rec, logger, models.NewErrorResponse(models.ErrForbidden, "not your tender"), "failed")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not your tender", body["reason"])
	assert.Equal(t, "Forbidden", body["kind"])

	rec = httptest.NewRecorder()
	WriteError(rec, logger, errors.New("connection reset"), "failed to fetch tenders")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to fetch tenders")
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestDecodeAndValidate(t *testing.T) {
	var req models.BidRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"businessId":"b1","proposal":"x","deliveryTime":0}`))
	err := DecodeAndValidate(r, &req)
	assert.ErrorIs(t, err, models.ErrValidation)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"businessId":"b1","amount":"1500.50","proposal":"x","deliveryTime":5}`))
	require.NoError(t, DecodeAndValidate(r, &req))
	assert.Equal(t, "1500.5", req.Amount.String())

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, DecodeAndValidate(r, &req), models.ErrValidation)
}
