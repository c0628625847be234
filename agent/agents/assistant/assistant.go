// Package assistant runs a tool-calling chat agent: the model plans tool
// calls, the executor runs them, and results are fed back as tool messages
// until the model produces a final answer.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
	toolx "github.com/shoplite/phone-shop-agent/agent/tool"
)

const defaultMaxToolRounds = 4

type Service struct {
	agentType    contractx.AgentType
	runner       compose.Runnable[[]*schema.Message, *schema.Message]
	executor     toolx.Executor
	systemPrompt string
	allowedTools map[string]struct{}
	maxRounds    int
}

var _ contractx.Assistant = (*Service)(nil)

type Option func(*Service)

// WithMaxToolRounds bounds how many tool-call rounds one answer may take.
func WithMaxToolRounds(rounds int) Option {
	return func(s *Service) {
		if rounds > 0 {
			s.maxRounds = rounds
		}
	}
}

func New(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
	executor toolx.Executor,
	opts ...Option,
) (*Service, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: system prompt for agent=%s", contractx.ErrPromptMissing, agentType)
	}
	if executor == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrValidation)
	}

	toolModel := chatModel
	if len(tools) > 0 {
		bound, err := chatModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
		}
		toolModel = bound
	}

	runner, err := compileModelGraph(ctx, toolModel, fmt.Sprintf("assistant.%s.model_graph", agentType))
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t != nil && strings.TrimSpace(t.Name) != "" {
			allowed[t.Name] = struct{}{}
		}
	}

	s := &Service{
		agentType:    agentType,
		runner:       runner,
		executor:     executor,
		systemPrompt: systemPrompt,
		allowedTools: allowed,
		maxRounds:    defaultMaxToolRounds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Answer runs the tool loop for one user message.
func (s *Service) Answer(ctx context.Context, req contractx.AssistantRequest) (contractx.AssistantResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: user message is empty", contractx.ErrValidation)
	}

	messages := s.conversation(req)
	var toolResults []contractx.ToolResult

	for round := 0; round <= s.maxRounds; round++ {
		msg, err := s.runner.Invoke(ctx, messages)
		if err != nil {
			return contractx.AssistantResponse{}, fmt.Errorf("%w: agent=%s invoke: %v", contractx.ErrModelInvoke, s.agentType, err)
		}
		if msg == nil {
			return contractx.AssistantResponse{}, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
		}

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return contractx.AssistantResponse{}, fmt.Errorf("%w: final message is empty", contractx.ErrSchemaViolation)
			}
			return contractx.AssistantResponse{
				Message:     content,
				ToolResults: toolResults,
			}, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := s.runTool(ctx, call)
			if err != nil {
				return contractx.AssistantResponse{}, err
			}
			toolResults = append(toolResults, result)

			feedback, err := json.Marshal(result)
			if err != nil {
				return contractx.AssistantResponse{}, fmt.Errorf("%w: marshal tool result: %v", contractx.ErrValidation, err)
			}
			messages = append(messages, schema.ToolMessage(string(feedback), call.ID))
		}
	}

	return contractx.AssistantResponse{}, fmt.Errorf(
		"%w: agent=%s exceeded %d tool rounds", contractx.ErrModelInvoke, s.agentType, s.maxRounds)
}

func (s *Service) runTool(ctx context.Context, call schema.ToolCall) (contractx.ToolResult, error) {
	tool := strings.TrimSpace(call.Function.Name)
	if tool == "" {
		return contractx.ToolResult{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}
	if _, ok := s.allowedTools[tool]; !ok {
		return contractx.ToolResult{}, fmt.Errorf("%w: tool=%s is not allowed for agent=%s", contractx.ErrSchemaViolation, tool, s.agentType)
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolResult{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrMalformedInput, tool, err)
		}
	}

	log.Debug().Str("agent", string(s.agentType)).Str("tool", tool).Msg("executing tool")
	result, err := s.executor(ctx, tool, args)
	if err != nil {
		return contractx.ToolResult{}, fmt.Errorf("execute tool=%s: %w", tool, err)
	}
	return result, nil
}

func (s *Service) conversation(req contractx.AssistantRequest) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(s.systemPrompt))

	for _, turn := range req.History {
		switch strings.ToLower(strings.TrimSpace(turn.Role)) {
		case "assistant":
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Content))
		}
	}

	return append(messages, schema.UserMessage(req.UserMessage))
}
