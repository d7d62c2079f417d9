package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/expenseworks/expense-claims/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("CORS", func() {
	var nextCalled bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	BeforeEach(func() {
		nextCalled = false
	})

	doRequest := func(allowedOrigins, method, origin string) *httptest.ResponseRecorder {
		handler := middleware.CORS(allowedOrigins)(next)
		req := httptest.NewRequest(method, "/api/v1/expenses/", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	Context("with a wildcard origin list", func() {
		It("should allow any origin", func() {
			rec := doRequest("*", http.MethodGet, "https://anywhere.example")

			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(nextCalled).To(BeTrue())
		})
	})

	Context("with an explicit origin list", func() {
		const origins = "https://app.example.com, https://staging.example.com"

		It("should echo back a listed origin", func() {
			rec := doRequest(origins, http.MethodGet, "https://staging.example.com")

			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://staging.example.com"))
			Expect(rec.Header().Values("Vary")).To(ContainElement("Origin"))
		})

		It("should not allow an unlisted origin", func() {
			rec := doRequest(origins, http.MethodGet, "https://evil.example.com")

			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		})
	})

	It("should treat an empty list as allow-any", func() {
		rec := doRequest("", http.MethodGet, "https://anywhere.example")

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("should answer preflight without invoking the next handler", func() {
		rec := doRequest("*", http.MethodOptions, "https://anywhere.example")

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
		Expect(nextCalled).To(BeFalse())
	})
})
