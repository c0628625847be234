// Command shopagent is the interactive phone shop assistant. It talks to the
// shopmcp server for database answers and to the local policy index for
// warranty, replacement, and support questions.
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
	"github.com/shoplite/phone-shop-agent/mcpbridge"
	configx "github.com/shoplite/phone-shop-agent/pkg/config"
	_ "github.com/shoplite/phone-shop-agent/pkg/logger/autoload"
	openrouterx "github.com/shoplite/phone-shop-agent/pkg/openrouter"
	ragx "github.com/shoplite/phone-shop-agent/rag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	bridgeCfg := configx.MustNew[mcpbridge.Config]("MCP")
	bridge := mcpbridge.New(*bridgeCfg)
	defer bridge.Close()

	ragCfg := configx.MustNew[ragx.Config]("RAG")
	policies, err := ragx.NewStore(*ragCfg, policyEmbedding(*llmCfg, *ragCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("open policy store")
	}
	if policies.Count() == 0 {
		if err := policies.IndexDir(ctx, ragCfg.DocsDir); err != nil {
			log.Warn().Err(err).Str("dir", ragCfg.DocsDir).Msg("policy documents not indexed")
		}
	}

	chatModel, err := llmCfg.OpenRouterFor(contractx.AgentTypeShop).New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	infos, executor := toolx.BuildForAgent(contractx.AgentTypeShop, toolx.Deps{
		Bridge:   bridge,
		Policies: policies,
	})

	svc, err := assistant.New(ctx, contractx.AgentTypeShop, chatModel, promptx.LoadPromptSet().Shop, infos, executor)
	if err != nil {
		log.Fatal().Err(err).Msg("create shop assistant")
	}

	runChat(ctx, svc, "phone shop assistant")
}

func policyEmbedding(llmCfg llmx.Config, ragCfg ragx.Config) func(ctx context.Context, text string) ([]float32, error) {
	if llmCfg.APIKey == "" {
		return ragx.NewHashEmbedding()
	}
	client := openrouterx.NewClient(*llmCfg.OpenRouterFor(contractx.AgentTypeShop))
	return ragx.NewOpenAIEmbedding(client, ragCfg.EmbeddingModel)
}

func runChat(ctx context.Context, svc contractx.Assistant, banner string) {
	sessionID := uuid.NewString()
	log.Info().Str("session_id", sessionID).Msgf("%s ready", banner)
	fmt.Printf("%s ready. Type your question, or 'exit' to quit.\n", banner)

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
