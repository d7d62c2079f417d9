package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/expenseworks/expense-claims/internal/assistant"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubChatService struct {
	lastMessage string
	reply       string
}

func (s *stubChatService) Chat(_ context.Context, message string) string {
	s.lastMessage = message
	return s.reply
}

var _ = Describe("Assistant Handler", func() {
	var (
		service *stubChatService
		handler *assistant.Handler
	)

	BeforeEach(func() {
		service = &stubChatService{reply: "Hello! How can I help?"}
		handler = assistant.NewHandler(service)
	})

	It("should handle POST /chat and return the reply", func() {
		body := strings.NewReader(`{"message": "show my expenses"}`)
		req := httptest.NewRequest(http.MethodPost, "/chat", body)
		w := httptest.NewRecorder()

		handler.Chat(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response assistant.ChatResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		Expect(err).NotTo(HaveOccurred())
		Expect(response.Response).To(Equal("Hello! How can I help?"))
		Expect(service.lastMessage).To(Equal("show my expenses"))
	})

	It("should reject an empty message", func() {
		body := strings.NewReader(`{"message": ""}`)
		req := httptest.NewRequest(http.MethodPost, "/chat", body)
		w := httptest.NewRecorder()

		handler.Chat(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(service.lastMessage).To(BeEmpty())
	})

	It("should reject a malformed body", func() {
		body := strings.NewReader(`{not json`)
		req := httptest.NewRequest(http.MethodPost, "/chat", body)
		w := httptest.NewRecorder()

		handler.Chat(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
