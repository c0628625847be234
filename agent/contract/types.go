package contract

type AgentType string

const (
	AgentTypeShop    AgentType = "shop"
	AgentTypeWeather AgentType = "weather"
)

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
