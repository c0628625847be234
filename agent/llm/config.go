package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
	openrouterx "github.com/shoplite/phone-shop-agent/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ShopModel          string  `envconfig:"SHOP_MODEL" split_words:"true"`
	WeatherModel       string  `envconfig:"WEATHER_MODEL" split_words:"true"`
	ShopTemperature    float32 `envconfig:"SHOP_TEMPERATURE" split_words:"true" default:"-1"`
	WeatherTemperature float32 `envconfig:"WEATHER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) *openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeShop:
		if v := strings.TrimSpace(c.ShopModel); v != "" {
			modelName = v
		}
		if c.ShopTemperature >= 0 {
			temp = c.ShopTemperature
		}
	case contractx.AgentTypeWeather:
		if v := strings.TrimSpace(c.WeatherModel); v != "" {
			modelName = v
		}
		if c.WeatherTemperature >= 0 {
			temp = c.WeatherTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return &openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
