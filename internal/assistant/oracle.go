package assistant

import (
	"context"
	"encoding/json"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn is one message in the conversation with the oracle.
type Turn struct {
	Role       string
	Content    string
	ToolCallID string
	ToolCalls  []ToolCall
}

// ToolCall is the oracle's request to invoke a declared capability.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDefinition declares one capability: name, description and a JSON
// schema for its arguments.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// Oracle is the language-model collaborator: it takes conversation
// turns plus the declared capability set and returns either text or a
// request to invoke capabilities.
type Oracle interface {
	Complete(ctx context.Context, turns []Turn, tools []ToolDefinition) (*Completion, error)
}

// OpenAIOracle adapts an OpenAI-compatible chat-completions API to the
// Oracle interface.
type OpenAIOracle struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewOpenAIOracle(cfg OpenAIConfig) *OpenAIOracle {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIOracle{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}
}

func (o *OpenAIOracle) Complete(ctx context.Context, turns []Turn, tools []ToolDefinition) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, turn := range turns {
		msg := openai.ChatCompletionMessage{
			Role:       turn.Role,
			Content:    turn.Content,
			ToolCallID: turn.ToolCallID,
		}
		for _, call := range turn.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		messages[i] = msg
	}

	apiTools := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		apiTools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		Tools:    apiTools,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return &Completion{}, nil
	}

	choice := resp.Choices[0].Message
	completion := &Completion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	return completion, nil
}
