package router

import (
	"log/slog"
	"net/http"

	"github.com/senyabanana/sme-tenders/internal/handlers"
	"github.com/senyabanana/sme-tenders/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - обработчики, которые монтирует роутер.
type Handlers struct {
	Tender  *handlers.TenderHandler
	Bid     *handlers.BidHandler
	Payment *handlers.PaymentHandler
}

// InitRoutes собирает маршруты /api. Чтение тендеров и предложений, callback провайдера
// и ping доступны без токена.
func InitRoutes(h Handlers, auth *middleware.Authenticator, allowedOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.PingHandler)

		r.Route("/tenders", func(r chi.Router) {
			r.Get("/", h.Tender.GetTenders)
			r.Get("/{tenderId}", h.Tender.GetTender)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)
				r.Post("/", h.Tender.CreateTender)
				r.Get("/my", h.Tender.GetMyTenders)
				r.Put("/{tenderId}", h.Tender.EditTender)
				r.Delete("/{tenderId}", h.Tender.DeleteTender)
				r.Post("/{tenderId}/close", h.Tender.CloseTender)
				r.Post("/{tenderId}/award", h.Tender.AwardTender)
			})
		})

		r.Route("/bids", func(r chi.Router) {
			r.Get("/tender/{tenderId}", h.Bid.GetTenderBids)
			r.Get("/business/{businessId}", h.Bid.GetBusinessBids)
			r.Get("/{bidId}", h.Bid.GetBid)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)
				r.Post("/tender/{tenderId}", h.Bid.CreateBid)
				r.Get("/my", h.Bid.GetMyBids)
				r.Put("/{bidId}", h.Bid.EditBid)
				r.Post("/{bidId}/withdraw", h.Bid.WithdrawBid)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/callback", h.Payment.Callback)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)
				r.Post("/initiate", h.Payment.InitiatePayment)
				r.Get("/my", h.Payment.GetMyPayments)
				r.Get("/business/{businessId}", h.Payment.GetBusinessPayments)
				r.Get("/{checkoutRequestId}", h.Payment.GetPaymentStatus)
			})
		})
	})

	return r
}
