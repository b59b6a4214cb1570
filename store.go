package catalog

import (
	"context"

	"github.com/fluxstack/catalog/models"
)

// Store defines the persistence operations the catalog needs. Implementations
// exist for PostgreSQL (db package) and a flat JSON file (storage package);
// both must make every operation atomic per record.
//
// Methods that target a record by id return a NotFoundError when it does not
// exist. Inserts return ErrDuplicateID on identifier collision.
type Store interface {
	// ListTools returns all published tools, newest first.
	ListTools(ctx context.Context) ([]models.Tool, error)

	// GetTool returns a single tool by id.
	GetTool(ctx context.Context, id string) (*models.Tool, error)

	// InsertTool publishes a new tool.
	InsertTool(ctx context.Context, tool models.Tool) error

	// UpdateTool replaces an existing tool record by tool.ID.
	UpdateTool(ctx context.Context, tool models.Tool) error

	// DeleteTool removes a tool by id.
	DeleteTool(ctx context.Context, id string) error

	// IncrementVote atomically adds one vote to a tool and returns the new
	// count. It never creates a missing record.
	IncrementVote(ctx context.Context, id string) (int, error)

	// ListSubmissions returns all pending submissions, newest first.
	ListSubmissions(ctx context.Context) ([]models.Submission, error)

	// GetSubmission returns a single pending submission by id.
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)

	// InsertSubmission stores a new pending submission.
	InsertSubmission(ctx context.Context, sub models.Submission) error

	// DeleteSubmission removes a submission by id (rejection path).
	DeleteSubmission(ctx context.Context, id string) error

	// ApproveSubmission atomically removes the submission and publishes it as
	// a tool under toolID, carrying over all listing fields and votes. Exactly
	// one of two concurrent approve/reject calls can win the delete; the loser
	// gets a NotFoundError.
	ApproveSubmission(ctx context.Context, id, toolID string) (*models.Tool, error)

	// Close releases the backend connection.
	Close() error
}
