// Package storage implements catalog.Store on a single JSON file. It is the
// flat-file counterpart to the PostgreSQL backend in the db package and is
// intended for local development and small deployments.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	catalog "github.com/fluxstack/catalog"
	"github.com/fluxstack/catalog/models"
)

// Config contains storage configuration
type Config struct {
	Path string // Path of the JSON database file
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/db.json",
	}
}

// Store persists both collections in one JSON document. A single mutex
// serializes mutations, so every operation is atomic with respect to the
// others; writes go through a temp file and rename so a crash never leaves a
// torn file behind.
type Store struct {
	path string
	mu   sync.Mutex
}

type database struct {
	Tools       []models.Tool       `json:"tools"`
	Submissions []models.Submission `json:"submissions"`
}

// New creates a file-backed store, initializing an empty database file if
// none exists yet.
func New(config Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{path: config.Path}
	if _, err := os.Stat(config.Path); os.IsNotExist(err) {
		if err := s.save(&database{Tools: []models.Tool{}, Submissions: []models.Submission{}}); err != nil {
			return nil, fmt.Errorf("failed to initialize database file: %w", err)
		}
	}
	return s, nil
}

// Close is a no-op; the file is only open during individual operations.
func (s *Store) Close() error {
	return nil
}

// ListTools returns all published tools, newest first.
func (s *Store) ListTools(ctx context.Context) ([]models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	return db.Tools, nil
}

// GetTool returns a tool by id.
func (s *Store) GetTool(ctx context.Context, id string) (*models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range db.Tools {
		if db.Tools[i].ID == id {
			tool := db.Tools[i]
			return &tool, nil
		}
	}
	return nil, &catalog.NotFoundError{Kind: "tool", ID: id}
}

// InsertTool publishes a new tool at the head of the collection.
func (s *Store) InsertTool(ctx context.Context, tool models.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	for i := range db.Tools {
		if db.Tools[i].ID == tool.ID {
			return catalog.ErrDuplicateID
		}
	}
	db.Tools = append([]models.Tool{tool}, db.Tools...)
	return s.save(db)
}

// UpdateTool replaces an existing tool record in place.
func (s *Store) UpdateTool(ctx context.Context, tool models.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	for i := range db.Tools {
		if db.Tools[i].ID == tool.ID {
			db.Tools[i] = tool
			return s.save(db)
		}
	}
	return &catalog.NotFoundError{Kind: "tool", ID: tool.ID}
}

// DeleteTool removes a tool by id.
func (s *Store) DeleteTool(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	for i := range db.Tools {
		if db.Tools[i].ID == id {
			db.Tools = append(db.Tools[:i], db.Tools[i+1:]...)
			return s.save(db)
		}
	}
	return &catalog.NotFoundError{Kind: "tool", ID: id}
}

// IncrementVote adds one vote to a tool and returns the new count. The store
// mutex makes the read-modify-write atomic within this process.
func (s *Store) IncrementVote(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return 0, err
	}
	for i := range db.Tools {
		if db.Tools[i].ID == id {
			db.Tools[i].Votes++
			if err := s.save(db); err != nil {
				return 0, err
			}
			return db.Tools[i].Votes, nil
		}
	}
	return 0, &catalog.NotFoundError{Kind: "tool", ID: id}
}

// ListSubmissions returns all pending submissions, newest first.
func (s *Store) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	return db.Submissions, nil
}

// GetSubmission returns a pending submission by id.
func (s *Store) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range db.Submissions {
		if db.Submissions[i].ID == id {
			sub := db.Submissions[i]
			return &sub, nil
		}
	}
	return nil, &catalog.NotFoundError{Kind: "submission", ID: id}
}

// InsertSubmission stores a new pending submission at the head of the queue.
func (s *Store) InsertSubmission(ctx context.Context, sub models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	for i := range db.Submissions {
		if db.Submissions[i].ID == sub.ID {
			return catalog.ErrDuplicateID
		}
	}
	db.Submissions = append([]models.Submission{sub}, db.Submissions...)
	return s.save(db)
}

// DeleteSubmission removes a submission by id.
func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	for i := range db.Submissions {
		if db.Submissions[i].ID == id {
			db.Submissions = append(db.Submissions[:i], db.Submissions[i+1:]...)
			return s.save(db)
		}
	}
	return &catalog.NotFoundError{Kind: "submission", ID: id}
}

// ApproveSubmission removes the submission and publishes it as a tool under
// toolID in one locked mutation, so no reader ever observes both or neither.
func (s *Store) ApproveSubmission(ctx context.Context, id, toolID string) (*models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range db.Submissions {
		if db.Submissions[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, &catalog.NotFoundError{Kind: "submission", ID: id}
	}
	for i := range db.Tools {
		if db.Tools[i].ID == toolID {
			return nil, catalog.ErrDuplicateID
		}
	}

	sub := db.Submissions[index]
	db.Submissions = append(db.Submissions[:index], db.Submissions[index+1:]...)

	tool := models.Tool{
		ID:           toolID,
		Name:         sub.Name,
		URL:          sub.URL,
		Category:     sub.Category,
		Description:  sub.Description,
		Tags:         sub.Tags,
		Votes:        sub.Votes,
		ThumbnailURL: sub.ThumbnailURL,
		DemoVideoURL: sub.DemoVideoURL,
		CreatedAt:    time.Now().UTC(),
	}
	db.Tools = append([]models.Tool{tool}, db.Tools...)

	if err := s.save(db); err != nil {
		return nil, err
	}
	return &tool, nil
}

func (s *Store) load() (*database, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	var db database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("failed to parse database file: %w", err)
	}
	return &db, nil
}

func (s *Store) save(db *database) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal database: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write database file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace database file: %w", err)
	}
	return nil
}
