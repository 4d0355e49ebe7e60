package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/senyabanana/sme-tenders/internal/models"
	"github.com/senyabanana/sme-tenders/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type actorKey struct{}

// Claims - содержимое токена доступа: sub - ID пользователя, role - его роль.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator проверяет bearer токены, подписанные HS256.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator создает проверку токенов с общим секретом.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// IssueToken подписывает токен для actor со сроком жизни ttl.
func (a *Authenticator) IssueToken(actor models.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ParseToken проверяет подпись и срок токена и возвращает пользователя.
func (a *Authenticator) ParseToken(tokenString string) (models.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Actor{}, err
	}

	actor := models.Actor{ID: claims.Subject, Role: claims.Role}
	if actor.ID == "" {
		return models.Actor{}, errors.New("token has no subject")
	}
	if !actor.Role.Valid() {
		return models.Actor{}, errors.New("token has unknown role")
	}
	return actor, nil
}

// Middleware пропускает запрос только с действительным токеном
// и кладет пользователя в контекст.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrUnauthorized, "missing or invalid Authorization header"))
			return
		}

		actor, err := a.ParseToken(strings.TrimSpace(tokenString))
		if err != nil {
			utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrUnauthorized, "invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor возвращает контекст с пользователем.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext достает пользователя, положенного Middleware.
func ActorFromContext(ctx context.Context) (models.Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(models.Actor)
	if !ok {
		return models.Actor{}, models.NewErrorResponse(models.ErrUnauthorized, "authentication required")
	}
	return actor, nil
}
