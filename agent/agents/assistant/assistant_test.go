package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
	toolx "github.com/shoplite/phone-shop-agent/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func priceToolCall(id, name string) schema.ToolCall {
	return schema.ToolCall{
		ID: id,
		Function: schema.FunctionCall{
			Name:      toolx.ToolPhonePrice,
			Arguments: `{"phone_name":"` + name + `"}`,
		},
	}
}

func shopTools() []*schema.ToolInfo {
	infos, _ := toolx.BuildForAgent(contractx.AgentTypeShop, toolx.Deps{})
	return infos
}

func priceExecutor(t *testing.T) toolx.Executor {
	t.Helper()
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		if tool != toolx.ToolPhonePrice {
			t.Fatalf("unexpected tool: %s", tool)
		}
		return contractx.ToolResult{
			Tool:   tool,
			Result: "The price of Galaxy S24 is $799.99.",
		}, nil
	}
}

func TestAnswerDirectReply(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "Hello! How can I help you today?"},
		},
	}

	svc, err := New(context.Background(), contractx.AgentTypeShop, fake, "shop prompt", shopTools(), priceExecutor(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := svc.Answer(context.Background(), contractx.AssistantRequest{UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if out.Message != "Hello! How can I help you today?" {
		t.Fatalf("unexpected message: %s", out.Message)
	}
	if len(out.ToolResults) != 0 {
		t.Fatalf("unexpected tool results: %#v", out.ToolResults)
	}
}

func TestAnswerToolRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, ToolCalls: []schema.ToolCall{priceToolCall("call-1", "Galaxy S24")}},
			{Role: schema.Assistant, Content: "The Galaxy S24 costs $799.99."},
		},
	}

	svc, err := New(context.Background(), contractx.AgentTypeShop, fake, "shop prompt", shopTools(), priceExecutor(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := svc.Answer(context.Background(), contractx.AssistantRequest{UserMessage: "how much is the galaxy s24?"})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if out.Message != "The Galaxy S24 costs $799.99." {
		t.Fatalf("unexpected message: %s", out.Message)
	}
	if len(out.ToolResults) != 1 || out.ToolResults[0].Tool != toolx.ToolPhonePrice {
		t.Fatalf("unexpected tool results: %#v", out.ToolResults)
	}

	// Second round must see the tool feedback message.
	if len(fake.inputs) != 2 {
		t.Fatalf("expected 2 model rounds, got %d", len(fake.inputs))
	}
	last := fake.inputs[1][len(fake.inputs[1])-1]
	if last.Role != schema.Tool {
		t.Fatalf("last message role = %s, want tool", last.Role)
	}
	if !strings.Contains(last.Content, "The price of Galaxy S24 is $799.99.") {
		t.Fatalf("tool feedback missing result: %s", last.Content)
	}
}

func TestAnswerRejectsUnknownTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{
				ID:       "call-1",
				Function: schema.FunctionCall{Name: "drop_database"},
			}}},
		},
	}

	svc, err := New(context.Background(), contractx.AgentTypeShop, fake, "shop prompt", shopTools(), priceExecutor(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = svc.Answer(context.Background(), contractx.AssistantRequest{UserMessage: "hi"})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestAnswerBoundedToolRounds(t *testing.T) {
	t.Parallel()

	// The model keeps requesting tools and never finalizes.
	loop := make([]*schema.Message, 0, 8)
	for i := 0; i < 8; i++ {
		loop = append(loop, &schema.Message{
			Role:      schema.Assistant,
			ToolCalls: []schema.ToolCall{priceToolCall("call-n", "Galaxy S24")},
		})
	}
	fake := &fakeToolCallingModel{responses: loop}

	svc, err := New(context.Background(), contractx.AgentTypeShop, fake, "shop prompt", shopTools(), priceExecutor(t),
		WithMaxToolRounds(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = svc.Answer(context.Background(), contractx.AssistantRequest{UserMessage: "loop forever"})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestAnswerCarriesHistory(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "You asked about the Galaxy S24."},
		},
	}

	svc, err := New(context.Background(), contractx.AgentTypeShop, fake, "shop prompt", shopTools(), priceExecutor(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = svc.Answer(context.Background(), contractx.AssistantRequest{
		UserMessage: "what did I ask about?",
		History: []contractx.Turn{
			{Role: "user", Content: "tell me about the galaxy s24"},
			{Role: "assistant", Content: "It is a 2024 flagship."},
		},
	})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	input := fake.inputs[0]
	if len(input) != 4 {
		t.Fatalf("expected system + 2 history + user messages, got %d", len(input))
	}
	if input[0].Role != schema.System || input[2].Role != schema.Assistant {
		t.Fatalf("unexpected roles: %s, %s", input[0].Role, input[2].Role)
	}
}

func TestNewRequiresPrompt(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), contractx.AgentTypeShop, &fakeToolCallingModel{}, "  ", shopTools(), priceExecutor(t))
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}
