package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	catalog "github.com/fluxstack/catalog"
	"github.com/fluxstack/catalog/models"
)

// setupTestDB connects to the database named by CATALOG_TEST_DATABASE_URL and
// skips the test when it is unset. Each test works with its own row ids, so
// tests can share one database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := New(Config{DSN: dsn})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func integrationTool(name string) models.Tool {
	return models.Tool{
		ID:          "tool-" + uuid.New().String(),
		Name:        name,
		URL:         "https://example.com/" + name,
		Category:    "Writing",
		Description: "Integration test listing",
		Tags:        []string{"integration"},
		CreatedAt:   time.Now().UTC(),
	}
}

func integrationSubmission(name string) models.Submission {
	return models.Submission{
		ID:          uuid.New().String(),
		Name:        name,
		URL:         "https://example.com/" + name,
		Category:    "Writing",
		Description: "Integration test submission",
		Tags:        []string{"integration"},
		SubmittedAt: time.Now().UTC(),
	}
}

func TestToolRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tool := integrationTool("roundtrip")
	tool.ThumbnailURL = "https://cdn.example.com/thumb.png"
	if err := db.InsertTool(ctx, tool); err != nil {
		t.Fatalf("Failed to insert tool: %v", err)
	}
	defer db.DeleteTool(ctx, tool.ID)

	got, err := db.GetTool(ctx, tool.ID)
	if err != nil {
		t.Fatalf("Failed to get tool: %v", err)
	}
	if got.Name != tool.Name {
		t.Errorf("Name = %q, expected %q", got.Name, tool.Name)
	}
	if got.ThumbnailURL != tool.ThumbnailURL {
		t.Errorf("ThumbnailURL = %q, expected %q", got.ThumbnailURL, tool.ThumbnailURL)
	}
	if got.DemoVideoURL != "" {
		t.Errorf("DemoVideoURL = %q, expected empty for NULL column", got.DemoVideoURL)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "integration" {
		t.Errorf("Tags = %v, expected [integration]", got.Tags)
	}

	if err := db.InsertTool(ctx, tool); err != catalog.ErrDuplicateID {
		t.Errorf("Duplicate insert error = %v, expected ErrDuplicateID", err)
	}
}

func TestGetToolNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetTool(context.Background(), "tool-"+uuid.New().String())
	if !catalog.IsNotFound(err) {
		t.Errorf("GetTool on missing id = %v, expected not-found", err)
	}
}

func TestIncrementVoteAtomic(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tool := integrationTool("votes")
	tool.Votes = 5
	if err := db.InsertTool(ctx, tool); err != nil {
		t.Fatalf("Failed to insert tool: %v", err)
	}
	defer db.DeleteTool(ctx, tool.ID)

	votes, err := db.IncrementVote(ctx, tool.ID)
	if err != nil {
		t.Fatalf("Failed to increment vote: %v", err)
	}
	if votes != 6 {
		t.Errorf("IncrementVote = %d, expected 6", votes)
	}

	if _, err := db.IncrementVote(ctx, "tool-"+uuid.New().String()); !catalog.IsNotFound(err) {
		t.Errorf("IncrementVote on missing id = %v, expected not-found", err)
	}
}

func TestUpdateTool(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tool := integrationTool("update")
	if err := db.InsertTool(ctx, tool); err != nil {
		t.Fatalf("Failed to insert tool: %v", err)
	}
	defer db.DeleteTool(ctx, tool.ID)

	tool.Name = "Updated Name"
	tool.Votes = 3
	tool.Tags = []string{"updated", "renamed"}
	if err := db.UpdateTool(ctx, tool); err != nil {
		t.Fatalf("Failed to update tool: %v", err)
	}

	got, err := db.GetTool(ctx, tool.ID)
	if err != nil {
		t.Fatalf("Failed to get tool: %v", err)
	}
	if got.Name != "Updated Name" || got.Votes != 3 {
		t.Errorf("Updated tool = %+v", got)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, expected 2 entries", got.Tags)
	}

	missing := integrationTool("missing")
	if err := db.UpdateTool(ctx, missing); !catalog.IsNotFound(err) {
		t.Errorf("UpdateTool on missing id = %v, expected not-found", err)
	}
}

func TestApproveSubmissionTransactional(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	sub := integrationSubmission("approve")
	sub.Votes = 2
	if err := db.InsertSubmission(ctx, sub); err != nil {
		t.Fatalf("Failed to insert submission: %v", err)
	}

	toolID := "tool-approve-" + uuid.New().String()
	tool, err := db.ApproveSubmission(ctx, sub.ID, toolID)
	if err != nil {
		t.Fatalf("Failed to approve submission: %v", err)
	}
	defer db.DeleteTool(ctx, tool.ID)

	if tool.ID != toolID {
		t.Errorf("Tool ID = %q, expected %q", tool.ID, toolID)
	}
	if tool.Votes != 2 {
		t.Errorf("Tool votes = %d, expected 2 carried from submission", tool.Votes)
	}

	if _, err := db.GetSubmission(ctx, sub.ID); !catalog.IsNotFound(err) {
		t.Errorf("Submission still present after approval: %v", err)
	}
	if _, err := db.GetTool(ctx, toolID); err != nil {
		t.Errorf("Approved tool not readable: %v", err)
	}

	// A second decision on the same submission finds nothing.
	if _, err := db.ApproveSubmission(ctx, sub.ID, "tool-again-"+uuid.New().String()); !catalog.IsNotFound(err) {
		t.Errorf("Second approval = %v, expected not-found", err)
	}
}

func TestApproveSubmissionDuplicateToolID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	existing := integrationTool("taken")
	if err := db.InsertTool(ctx, existing); err != nil {
		t.Fatalf("Failed to insert tool: %v", err)
	}
	defer db.DeleteTool(ctx, existing.ID)

	sub := integrationSubmission("collision")
	if err := db.InsertSubmission(ctx, sub); err != nil {
		t.Fatalf("Failed to insert submission: %v", err)
	}
	defer db.DeleteSubmission(ctx, sub.ID)

	_, err := db.ApproveSubmission(ctx, sub.ID, existing.ID)
	if err != catalog.ErrDuplicateID {
		t.Fatalf("Approval with taken id = %v, expected ErrDuplicateID", err)
	}

	// The transaction rolled back, so the submission survived.
	if _, err := db.GetSubmission(ctx, sub.ID); err != nil {
		t.Errorf("Submission lost after failed approval: %v", err)
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	sub := integrationSubmission("pending")
	if err := db.InsertSubmission(ctx, sub); err != nil {
		t.Fatalf("Failed to insert submission: %v", err)
	}

	got, err := db.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Failed to get submission: %v", err)
	}
	if got.Name != sub.Name {
		t.Errorf("Name = %q, expected %q", got.Name, sub.Name)
	}

	if err := db.DeleteSubmission(ctx, sub.ID); err != nil {
		t.Fatalf("Failed to delete submission: %v", err)
	}
	if err := db.DeleteSubmission(ctx, sub.ID); !catalog.IsNotFound(err) {
		t.Errorf("Second delete = %v, expected not-found", err)
	}
}
