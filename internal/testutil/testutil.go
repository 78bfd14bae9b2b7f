// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"ranktracker/internal/db"
	"ranktracker/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Tests are skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database.Pool)

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool db.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM rank_comparisons")
	pool.Exec(ctx, "DELETE FROM rank_records")
	pool.Exec(ctx, "DELETE FROM keyword_tasks")
	pool.Exec(ctx, "DELETE FROM projects")
}

// CreateTestProject stores an active project tracking mainDomain and the
// given competitors, with one keyword per entry in keywords.
func CreateTestProject(t *testing.T, database *db.DB, id, mainDomain string, competitors []string, keywords ...string) *models.Project {
	t.Helper()

	metas := make([]models.KeywordMeta, 0, len(keywords))
	for _, kw := range keywords {
		metas = append(metas, models.KeywordMeta{Keyword: kw, Category: "test", Volume: 10})
	}
	p := &models.Project{
		ID:          id,
		Name:        "Test " + id,
		MainDomain:  mainDomain,
		Competitors: competitors,
		Language:    "Spanish",
		Country:     "Colombia",
		Coordinates: "4.6097,-74.0817",
		Keywords:    metas,
		Status:      models.ProjectActive,
		Owner:       "test@example.com",
	}
	if err := database.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return p
}
