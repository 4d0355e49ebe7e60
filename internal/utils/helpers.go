package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SendErrorResponse отправляет ошибку в формате JSON.
func SendErrorResponse(w http.ResponseWriter, errResp *models.ErrorResponse) {
	SendJSON(w, errResp.StatusCode, errResp)
}

// SendJSON отправляет ответ в формате JSON.
func SendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// WriteError отправляет ошибку предметной области с ее кодом,
// остальные ошибки логируются и отдаются как 500 с сообщением fallback.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var errResp *models.ErrorResponse
	if errors.As(err, &errResp) {
		if errResp.StatusCode >= http.StatusInternalServerError {
			logger.Error(fallback, slog.Any("error", err))
		} else {
			logger.Debug("request rejected", slog.String("kind", errResp.KindName), slog.String("reason", errResp.Message))
		}
		SendErrorResponse(w, errResp)
		return
	}
	logger.Error(fallback, slog.Any("error", err))
	SendJSON(w, http.StatusInternalServerError, map[string]string{"reason": fallback})
}

// DecodeAndValidate разбирает тело запроса и проверяет теги validate.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewErrorResponse(models.ErrValidation, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return models.Errorf(models.ErrValidation, "field %s failed on '%s'", fe.Field(), fe.Tag())
		}
		return models.NewErrorResponse(models.ErrValidation, err.Error())
	}
	return nil
}

// ParseLimitOffset обрабатывает limit и offset.
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	limit, offset := DefaultLimit, 0
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > MaxLimit {
			return 0, 0, models.NewErrorResponse(models.ErrValidation,
				fmt.Sprintf("invalid limit parameter, must be a positive integer [1:%d]", MaxLimit))
		}
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, models.NewErrorResponse(models.ErrValidation, "invalid offset parameter, must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

// Contains проверяет, допускает ли список переходов новый статус.
func Contains[T comparable](validTransitions []T, next T) bool {
	for _, s := range validTransitions {
		if s == next {
			return true
		}
	}
	return false
}
