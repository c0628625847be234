// Package shopdb owns the phone catalog: a SQLite file holding phones,
// their feature lists, promotional offers, and inventory counters. All
// access from the agent side goes through the MCP tool server; this package
// only exposes the fixed query set the server needs.
package shopdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type Config struct {
	Path string `split_words:"true" default:"phone_shop.db"`
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?cache=shared&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite handles one writer; funnel everything through a single conn.
	sqldb.SetMaxOpenConns(1)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateSchema creates all tables and indexes if they do not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Phone)(nil),
		(*CameraFeature)(nil),
		(*ChargingFeature)(nil),
		(*Offer)(nil),
		(*InventoryRecord)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*Phone)(nil), "idx_phones_model", []string{"model_name"}},
		{(*Phone)(nil), "idx_phones_price", []string{"price"}},
		{(*Offer)(nil), "idx_offers_active", []string{"is_active"}},
		{(*Offer)(nil), "idx_offers_dates", []string{"start_date", "end_date"}},
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			IfNotExists()
		for _, col := range idx.columns {
			q = q.Column(col)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	return nil
}
