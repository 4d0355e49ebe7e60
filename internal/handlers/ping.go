package handlers

import (
	"log/slog"
	"net/http"
)

// PingHandler обрабатывает GET запрос к /api/ping.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Error("failed to write ping response", slog.Any("error", err))
	}
}
