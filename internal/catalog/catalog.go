// Package catalog builds the price table from the SQLite price sheet at start-up.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/scrapvalue/internal/db"
	"github.com/Simplici0/scrapvalue/internal/migrations"
	"github.com/Simplici0/scrapvalue/internal/pricing"
	"github.com/Simplici0/scrapvalue/internal/seed"
)

// Load reads every metal price ordered by position.
func Load(ctx context.Context, database *sql.DB) (*pricing.Table, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT metal, price_per_lb
		FROM metal_prices
		ORDER BY position ASC, metal ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query metal prices: %w", err)
	}
	defer rows.Close()

	entries := make([]pricing.Entry, 0)
	for rows.Next() {
		var metal, rawPrice string
		if err := rows.Scan(&metal, &rawPrice); err != nil {
			return nil, fmt.Errorf("scan metal price: %w", err)
		}
		price, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return nil, fmt.Errorf("parse price for %q: %w", metal, err)
		}
		entries = append(entries, pricing.Entry{Metal: pricing.Metal(metal), PricePerLb: price})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metal prices: %w", err)
	}

	table, err := pricing.NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("build price table: %w", err)
	}
	return table, nil
}

// Open prepares the price sheet at path and returns the table it holds.
// Missing defaults are seeded first; the database is closed before returning
// because the table never changes afterwards.
func Open(ctx context.Context, path string) (*pricing.Table, seed.Stats, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return nil, seed.Stats{}, err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return nil, seed.Stats{}, err
	}

	stats, err := seed.Run(database, pricing.DefaultEntries())
	if err != nil {
		return nil, seed.Stats{}, err
	}

	table, err := Load(ctx, database)
	if err != nil {
		return nil, seed.Stats{}, err
	}
	return table, stats, nil
}
