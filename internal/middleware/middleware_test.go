package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func actorEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(actor)
	})
}

func TestAuthenticator_Middleware(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	valid, err := auth.IssueToken(models.Actor{ID: "user-1", Role: models.SME}, time.Hour)
	require.NoError(t, err)

	expired, err := auth.IssueToken(models.Actor{ID: "user-1", Role: models.SME}, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewAuthenticator("other-secret").IssueToken(models.Actor{ID: "user-1", Role: models.SME}, time.Hour)
	require.NoError(t, err)

	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "ROOT",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, status: http.StatusUnauthorized},
		{name: "unknown role", header: "Bearer " + unknownRole, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tenders/my", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			auth.Middleware(actorEcho(t)).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusOK {
				var actor models.Actor
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&actor))
				assert.Equal(t, models.Actor{ID: "user-1", Role: models.SME}, actor)
			} else {
				assert.Contains(t, rec.Body.String(), `"kind":"Unauthorized"`)
			}
		})
	}
}

func TestActorFromContext_Missing(t *testing.T) {
	_, err := ActorFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestNewStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewStructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/payments/callback", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "server error", entry["msg"])

	request := entry["request"].(map[string]any)
	assert.Equal(t, "/api/payments/callback", request["path"])
	response := entry["response"].(map[string]any)
	assert.EqualValues(t, http.StatusInternalServerError, response["status"])
}
