package assistant

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type getExpensesArgs struct {
	Status string `json:"status,omitempty"`
}

type createExpenseArgs struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
}
