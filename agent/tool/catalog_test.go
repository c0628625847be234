package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
)

// stubCaller replays canned bridge responses keyed by tool name.
type stubCaller struct {
	responses map[string]map[string]any
	calls     []contractx.ToolRequest
}

func (s *stubCaller) Call(_ context.Context, tool string, args map[string]any) map[string]any {
	s.calls = append(s.calls, contractx.ToolRequest{Tool: tool, Args: args})
	if resp, ok := s.responses[tool]; ok {
		return resp
	}
	return map[string]any{"error": "unknown tool"}
}

func galaxyDetails() map[string]any {
	return map[string]any{
		"model_name":        "Galaxy S24",
		"year":              float64(2024),
		"price":             799.99,
		"chipset_name":      "Snapdragon 8 Gen 3",
		"ram_size":          "8GB",
		"storage_size":      "256GB",
		"display_size":      "6.2 inch",
		"battery_capacity":  "4000mAh",
		"operating_system":  "Android 14",
		"camera_features":   []any{"50MP main", "OIS"},
		"charging_features": []any{"25W wired"},
		"stock_quantity":    float64(12),
	}
}

func TestBuildForAgentShop(t *testing.T) {
	t.Parallel()

	infos, executor := BuildForAgent(contractx.AgentTypeShop, Deps{Bridge: &stubCaller{}})
	if len(infos) != 11 {
		t.Fatalf("expected 11 tool infos, got %d", len(infos))
	}
	if infos[0].Name != ToolPhonePrice {
		t.Fatalf("unexpected first tool: %s", infos[0].Name)
	}
	if executor == nil {
		t.Fatal("executor must not be nil")
	}
}

func TestBuildForAgentWeather(t *testing.T) {
	t.Parallel()

	infos, _ := BuildForAgent(contractx.AgentTypeWeather, Deps{})
	if len(infos) != 2 {
		t.Fatalf("expected 2 tool infos, got %d", len(infos))
	}
	if infos[0].Name != ToolGetWeather || infos[1].Name != ToolCurrentTime {
		t.Fatalf("unexpected weather tools: %s, %s", infos[0].Name, infos[1].Name)
	}
}

func TestDefaultExecutorUnavailableMessage(t *testing.T) {
	t.Parallel()

	executor := DefaultExecutor(contractx.AgentTypeShop)
	out, err := executor(context.Background(), "unknown_tool", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Error == "" {
		t.Fatal("expected non-empty error message")
	}
}

func TestExecutePhonePrice(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"get_phone_details": galaxyDetails(),
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolPhonePrice, map[string]any{"phone_name": "Galaxy S24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, ok := out.Result.(string)
	if !ok {
		t.Fatalf("unexpected result type: %T", out.Result)
	}
	if text != "The price of Galaxy S24 is $799.99." {
		t.Fatalf("unexpected price message: %s", text)
	}
}

func TestExecutePhonePriceNotFound(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"get_phone_details": {"error": "phone \"Nokia 3310\" not found"},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolPhonePrice, map[string]any{"phone_name": "Nokia 3310"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.Result.(string)
	if !strings.Contains(text, "couldn't find a phone") {
		t.Fatalf("unexpected message: %s", text)
	}
	if !strings.Contains(text, "support team") {
		t.Fatalf("message does not suggest contacting support: %s", text)
	}
}

func TestExecutePhoneSpecs(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"get_phone_details": galaxyDetails(),
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolPhoneSpecs, map[string]any{"phone_name": "Galaxy S24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.Result.(string)
	for _, want := range []string{"Galaxy S24 (2024)", "Chipset: Snapdragon 8 Gen 3", "Camera: 50MP main, OIS", "Stock: 12 units available"} {
		if !strings.Contains(text, want) {
			t.Errorf("specs missing %q:\n%s", want, text)
		}
	}
}

func TestExecuteListPhones(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"search_phones": {
			"results": []any{
				map[string]any{"model_name": "Galaxy S24"},
				map[string]any{"model_name": "Pixel 8"},
			},
			"count": float64(2),
		},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolListPhones, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result.(string); got != "Available phones: Galaxy S24, Pixel 8" {
		t.Fatalf("unexpected list: %s", got)
	}
}

func TestExecuteComparePhones(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"compare_phones": {
			"comparison": map[string]any{
				"phone1": map[string]any{"model_name": "Pixel 8", "price": 599.99, "year": float64(2023)},
				"phone2": map[string]any{"model_name": "Galaxy S24", "price": 799.99, "year": float64(2024)},
			},
			"summary": map[string]any{
				"price_difference": 200.0,
				"newer_phone":      "Galaxy S24",
				"better_value":     "Pixel 8",
			},
		},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolComparePhones, map[string]any{"phone1": "Pixel 8", "phone2": "Galaxy S24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.Result.(string)
	for _, want := range []string{"Comparison between Pixel 8 and Galaxy S24", "Galaxy S24 is $200.00 more expensive", "Newer model: Galaxy S24", "Better value: Pixel 8"} {
		if !strings.Contains(text, want) {
			t.Errorf("comparison missing %q:\n%s", want, text)
		}
	}
}

func TestExecuteSearchPhonesNoResults(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"search_phones": {"results": []any{}, "count": float64(0)},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolSearchPhones, map[string]any{"query": "foldable"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result.(string); got != "No phones found matching your criteria." {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestExecuteSearchPhonesForwardsFilters(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"search_phones": {"results": []any{}, "count": float64(0)},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	_, err := executor(context.Background(), ToolSearchPhones, map[string]any{
		"query":     "galaxy",
		"min_price": 500.0,
		"year":      float64(2024),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(caller.calls) != 1 {
		t.Fatalf("expected 1 bridge call, got %d", len(caller.calls))
	}
	args := caller.calls[0].Args
	if args["min_price"] != 500.0 {
		t.Errorf("min_price not forwarded: %v", args)
	}
	if _, ok := args["max_price"]; ok {
		t.Errorf("absent max_price forwarded: %v", args)
	}
}

func TestExecuteCheckAvailability(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"check_inventory": {
			"inventory": []any{
				map[string]any{
					"model_name":        "Galaxy S24",
					"price":             799.99,
					"stock_quantity":    float64(10),
					"reserved_quantity": float64(10),
				},
			},
			"count": float64(1),
		},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolCheckAvailability, map[string]any{"phone_name": "Galaxy S24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.Result.(string)
	if !strings.Contains(text, "Not available") {
		t.Fatalf("fully reserved stock not reported as unavailable:\n%s", text)
	}
}

func TestExecuteCurrentOffersEmpty(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{
		"get_phone_offers": {"offers": []any{}, "count": float64(0)},
	}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller})

	out, err := executor(context.Background(), ToolCurrentOffers, map[string]any{"phone_name": "Galaxy S24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result.(string); got != "No current offers for 'Galaxy S24'." {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestExecutorBridgeFailureNeverRaw(t *testing.T) {
	t.Parallel()

	caller := &stubCaller{responses: map[string]map[string]any{}}
	executor := NewExecutor(contractx.AgentTypeShop, Deps{Bridge: caller, Now: func() time.Time { return time.Unix(0, 0) }})

	for _, tool := range []string{ToolPhoneSpecs, ToolComparePhones, ToolCheckAvailability} {
		out, err := executor(context.Background(), tool, map[string]any{
			"phone_name": "X", "phone1": "X", "phone2": "Y",
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tool, err)
		}
		text, ok := out.Result.(string)
		if !ok {
			t.Fatalf("%s: unexpected result type: %T", tool, out.Result)
		}
		if strings.Contains(text, "unknown tool") {
			t.Errorf("%s: raw bridge error leaked: %s", tool, text)
		}
		if !strings.Contains(text, "support team") {
			t.Errorf("%s: no support suggestion: %s", tool, text)
		}
	}
}
