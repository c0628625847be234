package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/shop.txt
	shopRaw string

	//go:embed template/weather.txt
	weatherRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Shop    string
	Weather string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Shop:    strings.TrimSpace(shopRaw),
		Weather: strings.TrimSpace(weatherRaw),
	}
}
