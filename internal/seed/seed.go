package seed

import (
	"database/sql"
	"fmt"

	"github.com/Simplici0/scrapvalue/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run inserts every entry missing from metal_prices, in one transaction.
// Rows that already exist are left untouched so an operator-provided sheet
// always wins over the built-in defaults.
func Run(db *sql.DB, entries []pricing.Entry) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	next, err := nextPosition(tx)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	for _, e := range entries {
		inserted, err := ensureMetalPrice(tx, e, next)
		if err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		if inserted {
			stats.Inserts++
			next++
			continue
		}
		stats.Skipped++
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func nextPosition(tx *sql.Tx) (int, error) {
	var next int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM metal_prices`).Scan(&next); err != nil {
		return 0, fmt.Errorf("query next price position: %w", err)
	}
	return next, nil
}

func ensureMetalPrice(tx *sql.Tx, e pricing.Entry, position int) (bool, error) {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM metal_prices WHERE metal = ? LIMIT 1)`, string(e.Metal)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check metal price existence: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(`
		INSERT INTO metal_prices (metal, price_per_lb, position)
		VALUES (?, ?, ?)
	`, string(e.Metal), e.PricePerLb.String(), position); err != nil {
		return false, fmt.Errorf("insert metal price %q: %w", e.Metal, err)
	}
	return true, nil
}
