package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no inventory migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (quantity >= 0)",
		"CREATE TABLE IF NOT EXISTS inventory_logs",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_items_product_id",
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_product_id",
	}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Errorf("inventory migration missing %q", want)
		}
	}
}
