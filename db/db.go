package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	catalog "github.com/fluxstack/catalog"
	"github.com/fluxstack/catalog/models"
)

// DB wraps the PostgreSQL connection and implements catalog.Store.
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New creates a new database connection and runs pending migrations.
func New(config Config) (*DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying database connection for metrics collection
func (db *DB) DB() *sql.DB {
	return db.conn
}

const toolColumns = "id, name, url, category, description, tags, votes, thumbnail_url, demo_video_url, created_at"
const submissionColumns = "id, name, url, category, description, tags, votes, thumbnail_url, demo_video_url, submitted_at"

// ListTools returns all published tools, newest first.
func (db *DB) ListTools(ctx context.Context) ([]models.Tool, error) {
	query := "SELECT " + toolColumns + " FROM tools ORDER BY created_at DESC"
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools: %w", err)
	}
	defer rows.Close()

	tools := []models.Tool{}
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tools, nil
}

// GetTool retrieves a tool by ID.
func (db *DB) GetTool(ctx context.Context, id string) (*models.Tool, error) {
	query := "SELECT " + toolColumns + " FROM tools WHERE id = $1"
	tool, err := scanTool(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &catalog.NotFoundError{Kind: "tool", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return tool, nil
}

// InsertTool publishes a new tool.
func (db *DB) InsertTool(ctx context.Context, tool models.Tool) error {
	tagsJSON, err := json.Marshal(tool.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO tools (` + toolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = db.conn.ExecContext(ctx, query,
		tool.ID,
		tool.Name,
		tool.URL,
		tool.Category,
		tool.Description,
		string(tagsJSON),
		tool.Votes,
		nullable(tool.ThumbnailURL),
		nullable(tool.DemoVideoURL),
		tool.CreatedAt,
	)
	if isUniqueViolation(err) {
		return catalog.ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("failed to insert tool: %w", err)
	}
	return nil
}

// UpdateTool replaces the mutable fields of an existing tool.
func (db *DB) UpdateTool(ctx context.Context, tool models.Tool) error {
	tagsJSON, err := json.Marshal(tool.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		UPDATE tools
		SET name = $2, url = $3, category = $4, description = $5, tags = $6,
		    votes = $7, thumbnail_url = $8, demo_video_url = $9
		WHERE id = $1
	`
	result, err := db.conn.ExecContext(ctx, query,
		tool.ID,
		tool.Name,
		tool.URL,
		tool.Category,
		tool.Description,
		string(tagsJSON),
		tool.Votes,
		nullable(tool.ThumbnailURL),
		nullable(tool.DemoVideoURL),
	)
	if err != nil {
		return fmt.Errorf("failed to update tool: %w", err)
	}
	return requireRow(result, &catalog.NotFoundError{Kind: "tool", ID: tool.ID})
}

// DeleteTool deletes a tool by ID.
func (db *DB) DeleteTool(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM tools WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	return requireRow(result, &catalog.NotFoundError{Kind: "tool", ID: id})
}

// IncrementVote adds one vote to a tool as a single atomic update and returns
// the new count.
func (db *DB) IncrementVote(ctx context.Context, id string) (int, error) {
	var votes int
	err := db.conn.QueryRowContext(ctx,
		"UPDATE tools SET votes = votes + 1 WHERE id = $1 RETURNING votes", id,
	).Scan(&votes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &catalog.NotFoundError{Kind: "tool", ID: id}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment vote: %w", err)
	}
	return votes, nil
}

// ListSubmissions returns all pending submissions, newest first.
func (db *DB) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions ORDER BY submitted_at DESC"
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return subs, nil
}

// GetSubmission retrieves a pending submission by ID.
func (db *DB) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE id = $1"
	sub, err := scanSubmission(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &catalog.NotFoundError{Kind: "submission", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// InsertSubmission stores a new pending submission.
func (db *DB) InsertSubmission(ctx context.Context, sub models.Submission) error {
	tagsJSON, err := json.Marshal(sub.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = db.conn.ExecContext(ctx, query,
		sub.ID,
		sub.Name,
		sub.URL,
		sub.Category,
		sub.Description,
		string(tagsJSON),
		sub.Votes,
		nullable(sub.ThumbnailURL),
		nullable(sub.DemoVideoURL),
		sub.SubmittedAt,
	)
	if isUniqueViolation(err) {
		return catalog.ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// DeleteSubmission removes a submission by ID.
func (db *DB) DeleteSubmission(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM submissions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return requireRow(result, &catalog.NotFoundError{Kind: "submission", ID: id})
}

// ApproveSubmission moves a submission into the tools table in one
// transaction: the delete and the insert either both happen or neither does.
// Of two concurrent decisions on the same submission the first delete wins;
// the second sees a NotFoundError.
func (db *DB) ApproveSubmission(ctx context.Context, id, toolID string) (*models.Tool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		sub      models.Submission
		tagsJSON string
		thumb    sql.NullString
		video    sql.NullString
	)
	err = tx.QueryRowContext(ctx, `
		DELETE FROM submissions WHERE id = $1
		RETURNING name, url, category, description, tags, votes, thumbnail_url, demo_video_url
	`, id).Scan(&sub.Name, &sub.URL, &sub.Category, &sub.Description, &tagsJSON, &sub.Votes, &thumb, &video)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &catalog.NotFoundError{Kind: "submission", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove submission: %w", err)
	}

	tool := models.Tool{
		ID:           toolID,
		Name:         sub.Name,
		URL:          sub.URL,
		Category:     sub.Category,
		Description:  sub.Description,
		Votes:        sub.Votes,
		ThumbnailURL: thumb.String,
		DemoVideoURL: video.String,
		CreatedAt:    time.Now().UTC(),
	}
	if err := json.Unmarshal([]byte(tagsJSON), &tool.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tools (`+toolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		tool.ID,
		tool.Name,
		tool.URL,
		tool.Category,
		tool.Description,
		tagsJSON,
		tool.Votes,
		nullable(tool.ThumbnailURL),
		nullable(tool.DemoVideoURL),
		tool.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, catalog.ErrDuplicateID
	}
	if err != nil {
		return nil, fmt.Errorf("failed to publish tool: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &tool, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTool(row rowScanner) (*models.Tool, error) {
	var (
		tool     models.Tool
		tagsJSON string
		thumb    sql.NullString
		video    sql.NullString
	)
	err := row.Scan(&tool.ID, &tool.Name, &tool.URL, &tool.Category, &tool.Description,
		&tagsJSON, &tool.Votes, &thumb, &video, &tool.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tool: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &tool.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	tool.ThumbnailURL = thumb.String
	tool.DemoVideoURL = video.String
	return &tool, nil
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		sub      models.Submission
		tagsJSON string
		thumb    sql.NullString
		video    sql.NullString
	)
	err := row.Scan(&sub.ID, &sub.Name, &sub.URL, &sub.Category, &sub.Description,
		&tagsJSON, &sub.Votes, &thumb, &video, &sub.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &sub.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	sub.ThumbnailURL = thumb.String
	sub.DemoVideoURL = video.String
	return &sub, nil
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
