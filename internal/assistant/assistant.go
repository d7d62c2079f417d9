package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/expenseworks/expense-claims/internal/category"
	"github.com/expenseworks/expense-claims/internal/expense"
	"github.com/expenseworks/expense-claims/internal/reporting"
)

// The capability set is closed; the oracle can only ask for these.
const (
	capGetExpenses       = "get_expenses"
	capCreateExpense     = "create_expense"
	capGetExpenseSummary = "get_expense_summary"
)

const systemPrompt = "You are a helpful AI assistant for an expense management system. " +
	"You can help users view expenses, create new expenses, and get summaries. " +
	"Be concise and friendly in your responses. " +
	"When showing amounts, always include the £ symbol and format as currency."

const (
	// DisabledReply is returned without contacting the oracle when the
	// assistant is switched off in configuration.
	DisabledReply = "Chat is not enabled. Please configure assistant resources and set assistant.enabled to true in configuration."

	apologyReply = "I apologize, but I encountered an error. Please try again or contact support if the problem persists."

	expenseListCap = 10
)

func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        capGetExpenses,
			Description: "Get a list of expenses, optionally filtered by status (Draft, Submitted, Approved, Rejected)",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"status": {
						"type": "string",
						"description": "Filter by expense status (optional)",
						"enum": ["Draft", "Submitted", "Approved", "Rejected"]
					}
				}
			}`),
		},
		{
			Name:        capCreateExpense,
			Description: "Create a new expense claim",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"amount": {
						"type": "number",
						"description": "The expense amount in GBP"
					},
					"category": {
						"type": "string",
						"description": "The expense category",
						"enum": ["Travel", "Meals", "Supplies", "Accommodation", "Other"]
					},
					"description": {
						"type": "string",
						"description": "Description of the expense"
					}
				},
				"required": ["amount", "category"]
			}`),
		},
		{
			Name:        capGetExpenseSummary,
			Description: "Get a summary of expenses including total amounts by status",
			Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	}
}

type ExpenseCreator interface {
	CreateExpense(dto expense.CreateExpenseDTO) (*expense.Expense, error)
}

type ExpenseReader interface {
	ListExpenses(statusFilter string, limit int) ([]reporting.ExpenseView, error)
	Summarize() (*reporting.Summary, error)
}

type CategoryResolver interface {
	GetCategoryByName(name string) (*category.Category, error)
}

// OwnerResolver supplies the owner for expenses created through chat.
// The bridge has no authenticated caller, so the installation decides
// which user stands in.
type OwnerResolver interface {
	FirstUserID() (int64, error)
}

// Service bridges the chat endpoint and the oracle: it declares the
// capability set, executes requested capabilities against the lifecycle
// engine and the query layer, and feeds results back for a final reply.
type Service struct {
	enabled    bool
	oracle     Oracle
	expenses   ExpenseCreator
	reader     ExpenseReader
	categories CategoryResolver
	owners     OwnerResolver
	logger     *slog.Logger
}

func NewService(enabled bool, oracle Oracle, expenses ExpenseCreator, reader ExpenseReader, categories CategoryResolver, owners OwnerResolver, logger *slog.Logger) *Service {
	return &Service{
		enabled:    enabled,
		oracle:     oracle,
		expenses:   expenses,
		reader:     reader,
		categories: categories,
		owners:     owners,
		logger:     logger,
	}
}

// Chat runs one user message through the oracle. At most one requested
// capability is executed per message: if the oracle asks for several,
// only the first runs and the rest are dropped. Every failure path
// degrades to text; the caller always gets a reply.
func (s *Service) Chat(ctx context.Context, message string) string {
	if !s.enabled {
		return DisabledReply
	}

	turns := []Turn{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: message},
	}

	completion, err := s.oracle.Complete(ctx, turns, toolDefinitions())
	if err != nil {
		s.logger.Error("oracle completion failed", "error", err)
		return apologyReply
	}

	if len(completion.ToolCalls) == 0 {
		return completion.Content
	}

	call := completion.ToolCalls[0]
	result := s.executeCapability(call.Name, call.Arguments)

	turns = append(turns,
		Turn{Role: RoleAssistant, Content: completion.Content, ToolCalls: completion.ToolCalls},
		Turn{Role: RoleTool, Content: result, ToolCallID: call.ID},
	)

	final, err := s.oracle.Complete(ctx, turns, toolDefinitions())
	if err != nil {
		s.logger.Error("oracle follow-up completion failed", "error", err)
		return apologyReply
	}

	return final.Content
}

func (s *Service) executeCapability(name, argumentsJSON string) string {
	var result string
	var err error

	switch name {
	case capGetExpenses:
		result, err = s.getExpenses(argumentsJSON)
	case capCreateExpense:
		result, err = s.createExpense(argumentsJSON)
	case capGetExpenseSummary:
		result, err = s.getExpenseSummary()
	default:
		return fmt.Sprintf("Unknown function: %s", name)
	}

	if err != nil {
		s.logger.Error("capability execution failed", "capability", name, "error", err)
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return result
}

type expenseListItem struct {
	ExpenseID   int64   `json:"expense_id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Description *string `json:"description,omitempty"`
	UserName    string  `json:"user_name"`
}

func (s *Service) getExpenses(argumentsJSON string) (string, error) {
	var args getExpensesArgs
	if argumentsJSON != "" {
		if err := json.Unmarshal([]byte(argumentsJSON), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}

	views, err := s.reader.ListExpenses(args.Status, expenseListCap)
	if err != nil {
		return "", err
	}

	items := make([]expenseListItem, len(views))
	for i, v := range views {
		items[i] = expenseListItem{
			ExpenseID:   v.ID,
			Date:        v.ExpenseDate.Format("02/01/2006"),
			Category:    v.Category,
			Amount:      v.Amount,
			Status:      v.Status,
			Description: v.Description,
			UserName:    v.OwnerName,
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (s *Service) createExpense(argumentsJSON string) (string, error) {
	var args createExpenseArgs
	if err := json.Unmarshal([]byte(argumentsJSON), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	ownerID, err := s.owners.FirstUserID()
	if err != nil {
		return "Error: No users found in system", nil
	}

	cat, err := s.categories.GetCategoryByName(args.Category)
	if err != nil {
		return "", err
	}
	if cat == nil {
		return fmt.Sprintf("Error: Category '%s' not found", args.Category), nil
	}

	exp, err := s.expenses.CreateExpense(expense.CreateExpenseDTO{
		UserID:      ownerID,
		CategoryID:  cat.ID,
		Amount:      args.Amount,
		ExpenseDate: time.Now(),
		Description: args.Description,
	})
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"success":    true,
		"expense_id": exp.ID,
		"amount":     exp.AmountMajor(),
		"category":   cat.Name,
		"status":     exp.Status,
		"message":    fmt.Sprintf("Expense created successfully with ID %d", exp.ID),
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (s *Service) getExpenseSummary() (string, error) {
	summary, err := s.reader.Summarize()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
