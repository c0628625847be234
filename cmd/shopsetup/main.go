// Command shopsetup provisions the local stores: it creates the SQLite
// schema, seeds the phone catalog, and indexes the policy documents.
package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	configx "github.com/shoplite/phone-shop-agent/pkg/config"
	_ "github.com/shoplite/phone-shop-agent/pkg/logger/autoload"
	openrouterx "github.com/shoplite/phone-shop-agent/pkg/openrouter"
	ragx "github.com/shoplite/phone-shop-agent/rag"
	"github.com/shoplite/phone-shop-agent/shopdb"
)

func main() {
	catalogPath := flag.String("catalog", "data/phones.json", "path to the phone catalog JSON file")
	reindex := flag.Bool("reindex", false, "drop and rebuild the policy index")

	ctx := context.Background()
	dbCfg := configx.MustNew[shopdb.Config]("SHOPDB")
	ragCfg := configx.MustNew[ragx.Config]("RAG")

	db, err := shopdb.Open(dbCfg.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbCfg.Path).Msg("open database")
	}
	defer db.Close()

	if err := shopdb.CreateSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}
	if err := shopdb.SeedFromFile(ctx, db, *catalogPath); err != nil {
		log.Fatal().Err(err).Str("catalog", *catalogPath).Msg("seed catalog")
	}

	count, err := shopdb.NewStore(db).CountPhones(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count phones")
	}
	log.Info().Int("phones", count).Str("db", dbCfg.Path).Msg("database ready")

	store, err := ragx.NewStore(*ragCfg, embedding(*ragCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("open vector store")
	}

	if *reindex {
		docs, err := ragx.LoadDir(ragCfg.DocsDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", ragCfg.DocsDir).Msg("load policy documents")
		}
		if err := store.Reindex(ctx, docs); err != nil {
			log.Fatal().Err(err).Msg("reindex policy documents")
		}
	} else if err := store.IndexDir(ctx, ragCfg.DocsDir); err != nil {
		log.Fatal().Err(err).Str("dir", ragCfg.DocsDir).Msg("index policy documents")
	}

	log.Info().Int("chunks", store.Count()).Str("dir", ragCfg.DocsDir).Msg("policy index ready")
}

// embedding picks the remote embedder when OpenRouter credentials are set
// and falls back to the deterministic local one otherwise.
func embedding(ragCfg ragx.Config) func(ctx context.Context, text string) ([]float32, error) {
	orCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
	if err != nil || orCfg.APIKey == "" {
		log.Warn().Msg("no OpenRouter credentials, using local hash embeddings")
		return ragx.NewHashEmbedding()
	}
	return ragx.NewOpenAIEmbedding(openrouterx.NewClient(*orCfg), ragCfg.EmbeddingModel)
}
