package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/expenseworks/expense-claims/internal/assistant"
	"github.com/expenseworks/expense-claims/internal/category"
	"github.com/expenseworks/expense-claims/internal/expense"
	"github.com/expenseworks/expense-claims/internal/reporting"
	"github.com/expenseworks/expense-claims/internal/transport/middleware"
	"github.com/expenseworks/expense-claims/internal/transport/swagger"
	"github.com/expenseworks/expense-claims/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins string, expenseHandler *expense.Handler, reportingHandler *reporting.Handler, categoryHandler *category.Handler, userHandler *user.Handler, chatHandler *assistant.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
		}

		if userHandler != nil {
			r.Route("/users", func(ur chi.Router) {
				ur.Get("/", userHandler.GetUsers)
				ur.Get("/{id}", userHandler.GetUser)
			})
		}

		if expenseHandler != nil && reportingHandler != nil {
			r.Route("/expenses", func(er chi.Router) {
				er.Post("/", expenseHandler.CreateExpense)
				er.Get("/", reportingHandler.ListExpenses)
				er.Get("/pending", reportingHandler.ListPending)
				er.Get("/summary", reportingHandler.Summary)
				er.Post("/bulk-approve", expenseHandler.BulkApprove)
				er.Get("/{id}", reportingHandler.GetExpense)
				er.Delete("/{id}", expenseHandler.DeleteExpense)
				er.Post("/{id}/submit", expenseHandler.SubmitExpense)
				er.Post("/{id}/approve", expenseHandler.ApproveExpense)
				er.Post("/{id}/reject", expenseHandler.RejectExpense)
			})
		}

		if chatHandler != nil {
			r.Post("/chat", chatHandler.Chat)
		}
	})
}
