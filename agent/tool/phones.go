package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
)

// Every failure is surfaced to the model as an apologetic suggestion, never
// as a raw error string.
const supportSuggestion = "Please contact our support team for further assistance."

func executePhonePrice(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	name, ok := stringArg(args, "phone_name")
	if !ok {
		return contractx.ToolResult{Tool: ToolPhonePrice, Error: "phone_name is required"}, nil
	}

	result := deps.Bridge.Call(ctx, "get_phone_details", map[string]any{"phone_name": name})
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolPhonePrice,
			Result: fmt.Sprintf("Sorry, I couldn't find a phone with the model name '%s'. %s", name, supportSuggestion),
		}, nil
	}

	model := mapString(result, "model_name")
	price := mapFloat(result, "price")
	if model == "" {
		return contractx.ToolResult{
			Tool:   ToolPhonePrice,
			Result: fmt.Sprintf("Price information is not available for '%s'.", name),
		}, nil
	}

	return contractx.ToolResult{
		Tool:   ToolPhonePrice,
		Result: fmt.Sprintf("The price of %s is $%.2f.", model, price),
	}, nil
}

func executePhoneSpecs(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	name, ok := stringArg(args, "phone_name")
	if !ok {
		return contractx.ToolResult{Tool: ToolPhoneSpecs, Error: "phone_name is required"}, nil
	}

	result := deps.Bridge.Call(ctx, "get_phone_details", map[string]any{"phone_name": name})
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolPhoneSpecs,
			Result: fmt.Sprintf("Sorry, I couldn't find specifications for '%s'. %s", name, supportSuggestion),
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%v)\n", mapString(result, "model_name"), mapInt(result, "year"))
	fmt.Fprintf(&b, "Price: $%.2f\n", mapFloat(result, "price"))
	fmt.Fprintf(&b, "Chipset: %s\n", mapString(result, "chipset_name"))
	fmt.Fprintf(&b, "RAM: %s\n", mapString(result, "ram_size"))
	fmt.Fprintf(&b, "Storage: %s\n", mapString(result, "storage_size"))
	fmt.Fprintf(&b, "Display: %s\n", mapString(result, "display_size"))
	fmt.Fprintf(&b, "Battery: %s\n", mapString(result, "battery_capacity"))
	fmt.Fprintf(&b, "OS: %s\n", mapString(result, "operating_system"))

	if camera := mapStrings(result, "camera_features"); len(camera) > 0 {
		fmt.Fprintf(&b, "Camera: %s\n", strings.Join(camera, ", "))
	}
	if charging := mapStrings(result, "charging_features"); len(charging) > 0 {
		fmt.Fprintf(&b, "Charging: %s\n", strings.Join(charging, ", "))
	}

	if stock, ok := mapIntOK(result, "stock_quantity"); ok {
		if stock > 0 {
			fmt.Fprintf(&b, "Stock: %d units available\n", stock)
		} else {
			b.WriteString("Stock: out of stock\n")
		}
	}

	if offers := mapSlice(result, "active_offers"); len(offers) > 0 {
		b.WriteString("\nCurrent offers:\n")
		for _, raw := range offers {
			offer, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s", mapString(offer, "title"), discountText(offer))
			if end := mapString(offer, "end_date"); end != "" {
				fmt.Fprintf(&b, " (until %s)", end)
			}
			b.WriteByte('\n')
		}
	}

	return contractx.ToolResult{Tool: ToolPhoneSpecs, Result: strings.TrimSpace(b.String())}, nil
}

func executeListPhones(ctx context.Context, deps Deps) (contractx.ToolResult, error) {
	result := deps.Bridge.Call(ctx, "search_phones", map[string]any{"query": ""})
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolListPhones,
			Result: "Sorry, I couldn't retrieve the phone list right now. " + supportSuggestion,
		}, nil
	}

	phones := mapSlice(result, "results")
	if len(phones) == 0 {
		return contractx.ToolResult{Tool: ToolListPhones, Result: "No phones are currently available."}, nil
	}

	names := make([]string, 0, len(phones))
	for _, raw := range phones {
		if phone, ok := raw.(map[string]any); ok {
			names = append(names, mapString(phone, "model_name"))
		}
	}
	return contractx.ToolResult{
		Tool:   ToolListPhones,
		Result: "Available phones: " + strings.Join(names, ", "),
	}, nil
}

func executeComparePhones(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	phone1, ok1 := stringArg(args, "phone1")
	phone2, ok2 := stringArg(args, "phone2")
	if !ok1 || !ok2 {
		return contractx.ToolResult{Tool: ToolComparePhones, Error: "phone1 and phone2 are required"}, nil
	}

	result := deps.Bridge.Call(ctx, "compare_phones", map[string]any{"phone1": phone1, "phone2": phone2})
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolComparePhones,
			Result: "Sorry, one or both phones could not be found. " + supportSuggestion,
		}, nil
	}

	comparison := mapMap(result, "comparison")
	p1 := mapMap(comparison, "phone1")
	p2 := mapMap(comparison, "phone2")
	if len(p1) == 0 || len(p2) == 0 {
		return contractx.ToolResult{
			Tool:   ToolComparePhones,
			Result: "Sorry, I was unable to compare those phones. " + supportSuggestion,
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comparison between %s and %s:\n\n", mapString(p1, "model_name"), mapString(p2, "model_name"))
	fmt.Fprintf(&b, "Price: $%.2f vs $%.2f\n", mapFloat(p1, "price"), mapFloat(p2, "price"))
	fmt.Fprintf(&b, "Year: %d vs %d\n", mapInt(p1, "year"), mapInt(p2, "year"))
	fmt.Fprintf(&b, "Chipset: %s vs %s\n", mapString(p1, "chipset_name"), mapString(p2, "chipset_name"))
	fmt.Fprintf(&b, "RAM: %s vs %s\n", mapString(p1, "ram_size"), mapString(p2, "ram_size"))
	fmt.Fprintf(&b, "Storage: %s vs %s\n", mapString(p1, "storage_size"), mapString(p2, "storage_size"))
	fmt.Fprintf(&b, "Battery: %s vs %s\n", mapString(p1, "battery_capacity"), mapString(p2, "battery_capacity"))

	if summary := mapMap(result, "summary"); len(summary) > 0 {
		b.WriteString("\nSummary:\n")
		if diff, ok := mapFloatOK(summary, "price_difference"); ok && diff != 0 {
			if diff > 0 {
				fmt.Fprintf(&b, "- %s is $%.2f more expensive\n", mapString(p2, "model_name"), diff)
			} else {
				fmt.Fprintf(&b, "- %s is $%.2f more expensive\n", mapString(p1, "model_name"), -diff)
			}
		}
		if newer := mapString(summary, "newer_phone"); newer != "" {
			fmt.Fprintf(&b, "- Newer model: %s\n", newer)
		}
		if value := mapString(summary, "better_value"); value != "" {
			fmt.Fprintf(&b, "- Better value: %s\n", value)
		}
	}

	return contractx.ToolResult{Tool: ToolComparePhones, Result: strings.TrimSpace(b.String())}, nil
}

func executeSearchPhones(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	query, _ := stringArg(args, "query")
	callArgs := map[string]any{"query": query}
	for _, key := range []string{"min_price", "max_price", "year"} {
		if v, ok := args[key]; ok && v != nil {
			callArgs[key] = v
		}
	}

	result := deps.Bridge.Call(ctx, "search_phones", callArgs)
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolSearchPhones,
			Result: "Sorry, the phone search is unavailable right now. " + supportSuggestion,
		}, nil
	}

	phones := mapSlice(result, "results")
	if len(phones) == 0 {
		return contractx.ToolResult{Tool: ToolSearchPhones, Result: "No phones found matching your criteria."}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d phone(s):\n\n", len(phones))
	for _, raw := range phones {
		phone, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s (%d)\n", mapString(phone, "model_name"), mapInt(phone, "year"))
		fmt.Fprintf(&b, "  Price: $%.2f\n", mapFloat(phone, "price"))
		fmt.Fprintf(&b, "  Chipset: %s\n", mapString(phone, "chipset_name"))
		fmt.Fprintf(&b, "  RAM: %s | Storage: %s\n", mapString(phone, "ram_size"), mapString(phone, "storage_size"))
		fmt.Fprintf(&b, "  Display: %s\n", mapString(phone, "display_size"))
		fmt.Fprintf(&b, "  Battery: %s\n\n", mapString(phone, "battery_capacity"))
	}

	return contractx.ToolResult{Tool: ToolSearchPhones, Result: strings.TrimSpace(b.String())}, nil
}

func executeCurrentOffers(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	callArgs := map[string]any{}
	name, hasName := stringArg(args, "phone_name")
	if hasName {
		callArgs["phone_name"] = name
	}

	result := deps.Bridge.Call(ctx, "get_phone_offers", callArgs)
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolCurrentOffers,
			Result: "Sorry, I couldn't retrieve the current offers. " + supportSuggestion,
		}, nil
	}

	offers := mapSlice(result, "offers")
	if len(offers) == 0 {
		msg := "No current offers available."
		if hasName {
			msg = fmt.Sprintf("No current offers for '%s'.", name)
		}
		return contractx.ToolResult{Tool: ToolCurrentOffers, Result: msg}, nil
	}

	var b strings.Builder
	b.WriteString("Current offers:\n\n")
	for _, raw := range offers {
		offer, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s\n", mapString(offer, "title"))
		if model := mapString(offer, "model_name"); model != "" {
			fmt.Fprintf(&b, "  Phone: %s\n", model)
		}
		if desc := mapString(offer, "description"); desc != "" {
			fmt.Fprintf(&b, "  %s\n", desc)
		}
		if text := discountText(offer); text != "" {
			fmt.Fprintf(&b, "  Discount: %s\n", text)
		}
		if end := mapString(offer, "end_date"); end != "" {
			fmt.Fprintf(&b, "  Valid until: %s\n", end)
		}
		b.WriteByte('\n')
	}

	return contractx.ToolResult{Tool: ToolCurrentOffers, Result: strings.TrimSpace(b.String())}, nil
}

func executeCheckAvailability(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	callArgs := map[string]any{}
	name, hasName := stringArg(args, "phone_name")
	if hasName {
		callArgs["phone_name"] = name
	}

	result := deps.Bridge.Call(ctx, "check_inventory", callArgs)
	if hasError(result) {
		return contractx.ToolResult{
			Tool:   ToolCheckAvailability,
			Result: "Sorry, I couldn't check the inventory right now. " + supportSuggestion,
		}, nil
	}

	inventory := mapSlice(result, "inventory")
	if len(inventory) == 0 {
		msg := "No inventory information available."
		if hasName {
			msg = fmt.Sprintf("No inventory information found for '%s'.", name)
		}
		return contractx.ToolResult{Tool: ToolCheckAvailability, Result: msg}, nil
	}

	var b strings.Builder
	b.WriteString("Inventory status:\n\n")
	for _, raw := range inventory {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s\n", mapString(item, "model_name"))
		fmt.Fprintf(&b, "  Price: $%.2f\n", mapFloat(item, "price"))
		fmt.Fprintf(&b, "  In stock: %d units\n", mapInt(item, "stock_quantity"))
		if reserved := mapInt(item, "reserved_quantity"); reserved > 0 {
			fmt.Fprintf(&b, "  Reserved: %d units\n", reserved)
		}
		available := mapInt(item, "stock_quantity") - mapInt(item, "reserved_quantity")
		if available > 0 {
			fmt.Fprintf(&b, "  Available: %d units\n", available)
		} else {
			b.WriteString("  Not available\n")
		}
		b.WriteByte('\n')
	}

	return contractx.ToolResult{Tool: ToolCheckAvailability, Result: strings.TrimSpace(b.String())}, nil
}

func discountText(offer map[string]any) string {
	if pct, ok := mapFloatOK(offer, "discount_percentage"); ok && pct > 0 {
		return fmt.Sprintf("%.0f%% off", pct)
	}
	if amt, ok := mapFloatOK(offer, "discount_amount"); ok && amt > 0 {
		return fmt.Sprintf("$%.2f off", amt)
	}
	return ""
}

func hasError(result map[string]any) bool {
	v, ok := result["error"]
	if !ok || v == nil {
		return false
	}
	s, isString := v.(string)
	return !isString || s != ""
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func mapString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func mapFloat(m map[string]any, key string) float64 {
	v, _ := mapFloatOK(m, key)
	return v
}

func mapFloatOK(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func mapInt(m map[string]any, key string) int {
	v, _ := mapIntOK(m, key)
	return v
}

func mapIntOK(m map[string]any, key string) (int, bool) {
	f, ok := mapFloatOK(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func mapSlice(m map[string]any, key string) []any {
	if s, ok := m[key].([]any); ok {
		return s
	}
	return nil
}

func mapStrings(m map[string]any, key string) []string {
	var out []string
	for _, v := range mapSlice(m, key) {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func mapMap(m map[string]any, key string) map[string]any {
	if inner, ok := m[key].(map[string]any); ok {
		return inner
	}
	return nil
}
