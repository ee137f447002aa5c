package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jyotikabilling/handlers"
	"jyotikabilling/utils"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type Handlers struct {
	User    *handlers.UserHandler
	Bill    *handlers.BillHandler
	Invoice *handlers.InvoiceHandler
	Clinic  *handlers.ClinicHandler
	Tokens  *utils.TokenIssuer
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(withCORS)
	r.Use(handlers.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// User routes
		r.Post("/auth/register", h.User.Register)
		r.Post("/auth/login", h.User.Login)

		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAuth(h.Tokens))

			// Bill routes
			r.Get("/bills", h.Bill.ListBills)
			r.Post("/bills", h.Bill.CreateBill)
			r.Get("/bills/summary", h.Bill.Summary)
			r.Get("/bills/export", h.Bill.Export)
			r.Post("/bills/bulk-print", h.Bill.BulkPrint)
			r.Post("/bills/bulk-print/pdf", h.Invoice.BulkPrintPDF)
			r.Get("/bills/{id}", h.Bill.GetBill)
			r.Put("/bills/{id}", h.Bill.UpdateBill)
			r.Delete("/bills/{id}", h.Bill.DeleteBill)
			r.Get("/bills/{id}/pdf", h.Invoice.BillPDF)

			// Clinic profile
			r.Get("/clinic", h.Clinic.GetClinic)
			r.Post("/clinic", h.Clinic.SaveClinic)
		})
	})

	return r
}
