// Command weatheragent answers weather and local time questions through the
// Open-Meteo APIs.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shoplite/phone-shop-agent/agent/agents/assistant"
	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
	llmx "github.com/shoplite/phone-shop-agent/agent/llm"
	promptx "github.com/shoplite/phone-shop-agent/agent/prompt"
	toolx "github.com/shoplite/phone-shop-agent/agent/tool"
	configx "github.com/shoplite/phone-shop-agent/pkg/config"
	_ "github.com/shoplite/phone-shop-agent/pkg/logger/autoload"
	openmeteox "github.com/shoplite/phone-shop-agent/pkg/openmeteo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	meteoCfg := configx.MustNew[openmeteox.Config]("OPENMETEO")
	weather := openmeteox.MustNew(*meteoCfg)

	chatModel, err := llmCfg.OpenRouterFor(contractx.AgentTypeWeather).New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	infos, executor := toolx.BuildForAgent(contractx.AgentTypeWeather, toolx.Deps{
		Weather: weather,
	})

	svc, err := assistant.New(ctx, contractx.AgentTypeWeather, chatModel, promptx.LoadPromptSet().Weather, infos, executor)
	if err != nil {
		log.Fatal().Err(err).Msg("create weather assistant")
	}

	sessionID := uuid.NewString()
	log.Info().Str("session_id", sessionID).Msg("weather agent ready")
	fmt.Println("Weather agent ready. Ask about the weather or time in a city, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	var history []contractx.Turn

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return
		}

		resp, err := svc.Answer(ctx, contractx.AssistantRequest{
			UserMessage: line,
			History:     history,
			SessionID:   sessionID,
		})
		if err != nil {
			log.Error().Err(err).Msg("answer failed")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}

		fmt.Println(resp.Message)
		history = append(history,
			contractx.Turn{Role: "user", Content: line},
			contractx.Turn{Role: "assistant", Content: resp.Message},
		)
	}
}
