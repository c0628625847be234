// Command shopmcp serves the phone shop database as MCP tools over stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/shoplite/phone-shop-agent/mcpserver"
	configx "github.com/shoplite/phone-shop-agent/pkg/config"
	_ "github.com/shoplite/phone-shop-agent/pkg/logger/autoload"
	"github.com/shoplite/phone-shop-agent/shopdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := configx.MustNew[shopdb.Config]("SHOPDB")
	db, err := shopdb.Open(dbCfg.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbCfg.Path).Msg("open database")
	}
	defer db.Close()

	if err := shopdb.CreateSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}

	server := mcpserver.NewServer(shopdb.NewStore(db))
	log.Info().Str("db", dbCfg.Path).Msg("phone shop MCP server listening on stdio")

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("mcp server stopped")
	}
}
