package rest_test

import (
	"log/slog"
	"net/http"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/expenseworks/expense-claims/internal/assistant"
	"github.com/expenseworks/expense-claims/internal/category"
	"github.com/expenseworks/expense-claims/internal/expense"
	"github.com/expenseworks/expense-claims/internal/reporting"
	"github.com/expenseworks/expense-claims/internal/transport/rest"
	"github.com/expenseworks/expense-claims/internal/user"
	"github.com/go-chi/chi"
)

func TestRouter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Router Suite")
}

var _ = Describe("RegisterAllRoutes", func() {
	var routes map[string]bool

	BeforeEach(func() {
		router := chi.NewRouter()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		rest.RegisterAllRoutes(
			router,
			nil,
			"*",
			expense.NewHandler(nil),
			reporting.NewHandler(nil),
			category.NewHandler(nil),
			user.NewHandler(nil),
			assistant.NewHandler(nil),
			logger,
		)

		routes = make(map[string]bool)
		err := chi.Walk(router, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			routes[method+" "+route] = true
			return nil
		})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should expose the lifecycle transitions as POST", func() {
		Expect(routes).To(HaveKey("POST /api/v1/expenses/{id}/submit"))
		Expect(routes).To(HaveKey("POST /api/v1/expenses/{id}/approve"))
		Expect(routes).To(HaveKey("POST /api/v1/expenses/{id}/reject"))

		Expect(routes).ToNot(HaveKey("PATCH /api/v1/expenses/{id}/submit"))
		Expect(routes).ToNot(HaveKey("PATCH /api/v1/expenses/{id}/approve"))
		Expect(routes).ToNot(HaveKey("PATCH /api/v1/expenses/{id}/reject"))
	})

	It("should register the full expense surface", func() {
		Expect(routes).To(HaveKey("POST /api/v1/expenses/"))
		Expect(routes).To(HaveKey("GET /api/v1/expenses/"))
		Expect(routes).To(HaveKey("GET /api/v1/expenses/pending"))
		Expect(routes).To(HaveKey("GET /api/v1/expenses/summary"))
		Expect(routes).To(HaveKey("POST /api/v1/expenses/bulk-approve"))
		Expect(routes).To(HaveKey("GET /api/v1/expenses/{id}"))
		Expect(routes).To(HaveKey("DELETE /api/v1/expenses/{id}"))
	})

	It("should register the directory, chat and health routes", func() {
		Expect(routes).To(HaveKey("GET /api/v1/categories"))
		Expect(routes).To(HaveKey("GET /api/v1/users/"))
		Expect(routes).To(HaveKey("GET /api/v1/users/{id}"))
		Expect(routes).To(HaveKey("POST /api/v1/chat"))
		Expect(routes).To(HaveKey("GET /api/v1/health"))
		Expect(routes).To(HaveKey("GET /api/v1/ping"))
	})
})
