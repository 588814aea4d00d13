package migrations

import (
	"context"
	"testing"

	"github.com/Simplici0/scrapvalue/internal/db"
)

func TestUp_CreatesMetalPricesAndIsRepeatable(t *testing.T) {
	database, err := db.Open(context.Background(), db.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(database); err != nil {
			t.Fatalf("Up (run=%d): %v", i, err)
		}
	}

	var name string
	err = database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'metal_prices'`).Scan(&name)
	if err != nil {
		t.Fatalf("metal_prices table missing: %v", err)
	}
}
