package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
	openmeteox "github.com/shoplite/phone-shop-agent/pkg/openmeteo"
	ragx "github.com/shoplite/phone-shop-agent/rag"
)

// Tool names exposed to the chat model.
const (
	ToolPhonePrice        = "get_phone_price"
	ToolPhoneSpecs        = "get_phone_specs"
	ToolListPhones        = "list_available_phones"
	ToolComparePhones     = "compare_phones"
	ToolSearchPhones      = "search_phones_by_criteria"
	ToolCurrentOffers     = "get_current_offers"
	ToolCheckAvailability = "check_phone_availability"

	ToolWarrantyInfo    = "get_warranty_information"
	ToolReplacementInfo = "get_replacement_information"
	ToolSupportInfo     = "get_customer_support_information"
	ToolPolicySearch    = "search_phone_shop_policies"

	ToolGetWeather  = "get_weather"
	ToolCurrentTime = "get_current_time"
)

// Deps carries the backends the tool executors talk to. Nil fields disable
// the corresponding tools.
type Deps struct {
	Bridge   contractx.ToolCaller
	Policies *ragx.Store
	Weather  *openmeteox.Client
	Now      func() time.Time
}

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

func BuildForAgent(agentType contractx.AgentType, deps Deps) ([]*schema.ToolInfo, Executor) {
	return infosForAgent(agentType), NewExecutor(agentType, deps)
}

func NewExecutor(agentType contractx.AgentType, deps Deps) Executor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	fallback := DefaultExecutor(agentType)

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolPhonePrice:
			return executePhonePrice(ctx, deps, args)
		case ToolPhoneSpecs:
			return executePhoneSpecs(ctx, deps, args)
		case ToolListPhones:
			return executeListPhones(ctx, deps)
		case ToolComparePhones:
			return executeComparePhones(ctx, deps, args)
		case ToolSearchPhones:
			return executeSearchPhones(ctx, deps, args)
		case ToolCurrentOffers:
			return executeCurrentOffers(ctx, deps, args)
		case ToolCheckAvailability:
			return executeCheckAvailability(ctx, deps, args)
		case ToolWarrantyInfo:
			return executePolicySearch(ctx, deps, tool, args, ragx.TypeWarranty)
		case ToolReplacementInfo:
			return executePolicySearch(ctx, deps, tool, args, ragx.TypeReplacement)
		case ToolSupportInfo:
			return executePolicySearch(ctx, deps, tool, args, ragx.TypeCustomerSupport)
		case ToolPolicySearch:
			return executePolicySearch(ctx, deps, tool, args, "")
		case ToolGetWeather:
			return executeWeather(ctx, deps, args)
		case ToolCurrentTime:
			return executeCurrentTime(ctx, deps, args)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func DefaultExecutor(agentType contractx.AgentType) Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", tool, agentType),
		}, nil
	}
}

func infosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	switch agentType {
	case contractx.AgentTypeShop:
		return shopToolInfos()
	case contractx.AgentTypeWeather:
		return weatherToolInfos()
	default:
		return nil
	}
}

func shopToolInfos() []*schema.ToolInfo {
	phoneNameParam := map[string]*schema.ParameterInfo{
		"phone_name": {Type: schema.String, Desc: "Phone model name, e.g. 'Samsung Galaxy S23'", Required: true},
	}
	optionalPhoneNameParam := map[string]*schema.ParameterInfo{
		"phone_name": {Type: schema.String, Desc: "Optional phone model name to narrow the answer"},
	}
	queryParam := map[string]*schema.ParameterInfo{
		"query": {Type: schema.String, Desc: "Free text policy question", Required: true},
	}

	return []*schema.ToolInfo{
		{
			Name:        ToolPhonePrice,
			Desc:        "Get the price of a phone by its model name.",
			ParamsOneOf: schema.NewParamsOneOfByParams(phoneNameParam),
		},
		{
			Name:        ToolPhoneSpecs,
			Desc:        "Get the full specifications of a phone by its model name.",
			ParamsOneOf: schema.NewParamsOneOfByParams(phoneNameParam),
		},
		{
			Name:        ToolListPhones,
			Desc:        "List all phones available in the shop.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolComparePhones,
			Desc: "Compare specifications and value between two phone models.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"phone1": {Type: schema.String, Desc: "First phone model name", Required: true},
				"phone2": {Type: schema.String, Desc: "Second phone model name", Required: true},
			}),
		},
		{
			Name: ToolSearchPhones,
			Desc: "Search phones by name, price range, or release year.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":     {Type: schema.String, Desc: "Phone name, brand, or feature"},
				"min_price": {Type: schema.Number, Desc: "Minimum price filter"},
				"max_price": {Type: schema.Number, Desc: "Maximum price filter"},
				"year":      {Type: schema.Integer, Desc: "Release year filter"},
			}),
		},
		{
			Name:        ToolCurrentOffers,
			Desc:        "Get current promotions, optionally for one phone model.",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionalPhoneNameParam),
		},
		{
			Name:        ToolCheckAvailability,
			Desc:        "Check stock availability, optionally for one phone model.",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionalPhoneNameParam),
		},
		{
			Name:        ToolWarrantyInfo,
			Desc:        "Look up warranty policies and procedures.",
			ParamsOneOf: schema.NewParamsOneOfByParams(queryParam),
		},
		{
			Name:        ToolReplacementInfo,
			Desc:        "Look up replacement and return policies.",
			ParamsOneOf: schema.NewParamsOneOfByParams(queryParam),
		},
		{
			Name:        ToolSupportInfo,
			Desc:        "Look up customer support contacts and procedures.",
			ParamsOneOf: schema.NewParamsOneOfByParams(queryParam),
		},
		{
			Name:        ToolPolicySearch,
			Desc:        "Search all phone shop policy documents.",
			ParamsOneOf: schema.NewParamsOneOfByParams(queryParam),
		},
	}
}

func weatherToolInfos() []*schema.ToolInfo {
	cityParam := map[string]*schema.ParameterInfo{
		"city": {Type: schema.String, Desc: "City name", Required: true},
	}

	return []*schema.ToolInfo{
		{
			Name:        ToolGetWeather,
			Desc:        "Retrieve the current weather report for a city.",
			ParamsOneOf: schema.NewParamsOneOfByParams(cityParam),
		},
		{
			Name:        ToolCurrentTime,
			Desc:        "Report the current local time in a city.",
			ParamsOneOf: schema.NewParamsOneOfByParams(cityParam),
		},
	}
}
