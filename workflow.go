package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fluxstack/catalog/models"
	"github.com/fluxstack/catalog/slug"
)

// maxIDAttempts bounds the retry loop on tool id collisions. The random
// suffix makes collisions statistically negligible, but a duplicate-key
// response from the store is retried rather than surfaced.
const maxIDAttempts = 3

const recommendationCount = 3

// Service coordinates browsing, voting, and the moderation workflow on top of
// a Store. It holds no state of its own; every operation re-reads the current
// collections.
type Service struct {
	store Store
}

// NewService creates a catalog service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Browse returns the ranked tools for a query and category filter, the
// category list for the full collection, and the inferred category. A
// positive limit truncates results after ranking, clamped to MaxResults.
func (s *Service) Browse(ctx context.Context, query, category string, limit int) (*models.RankedList, error) {
	if strings.TrimSpace(category) == "" {
		category = "All"
	}

	tools, err := s.store.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	ranked := Limit(Rank(tools, query, category), limit)
	return &models.RankedList{
		Tools:            ranked,
		Categories:       Categories(tools),
		InferredCategory: inferredPtr(query),
	}, nil
}

// Recommend returns the top ranked tools for a free-text request, filtered to
// the inferred category when one matched.
func (s *Service) Recommend(ctx context.Context, query string) (*models.Recommendations, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "q", Reason: "is required"}
	}

	tools, err := s.store.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	category := "All"
	intro := "I found these tools based on your use case."
	inferred, ok := InferCategory(query)
	if ok {
		category = inferred
		intro = fmt.Sprintf("Based on your request, %s tools fit best.", strings.ToLower(inferred))
	}

	ranked := Rank(tools, query, category)
	if len(ranked) > recommendationCount {
		ranked = ranked[:recommendationCount]
	}

	return &models.Recommendations{
		Intro:            intro,
		InferredCategory: inferredPtr(query),
		Recommendations:  ranked,
	}, nil
}

// Submit validates a public submission and stores it as pending. Tags are
// derived from the description; votes start at zero.
func (s *Service) Submit(ctx context.Context, input models.ToolInput) (*models.Submission, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	sub := models.Submission{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		URL:          strings.TrimSpace(input.URL),
		Category:     input.Category,
		Description:  strings.TrimSpace(input.Description),
		Tags:         DeriveTags(input.Description),
		Votes:        0,
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		DemoVideoURL: strings.TrimSpace(input.DemoVideoURL),
		SubmittedAt:  time.Now().UTC(),
	}

	if err := s.store.InsertSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	return &sub, nil
}

// ListSubmissions returns the pending moderation queue, newest first.
func (s *Service) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	return s.store.ListSubmissions(ctx)
}

// Approve converts a pending submission into a published tool with a freshly
// generated id, removing the submission in the same atomic operation. A
// concurrent approve or reject that already removed the submission surfaces
// as a NotFoundError.
func (s *Service) Approve(ctx context.Context, id string) (*models.Tool, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		tool, err := s.store.ApproveSubmission(ctx, id, slug.NewToolID(sub.Name))
		if err == nil {
			return tool, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to generate a unique tool id: %w", lastErr)
}

// Reject deletes a pending submission outright. No audit trail is kept.
func (s *Service) Reject(ctx context.Context, id string) error {
	return s.store.DeleteSubmission(ctx, id)
}

// Vote adds exactly one vote to an existing tool and returns the new count.
func (s *Service) Vote(ctx context.Context, id string) (int, error) {
	return s.store.IncrementVote(ctx, id)
}

// Publish validates and inserts a tool directly, bypassing moderation. Admin
// only at the transport layer.
func (s *Service) Publish(ctx context.Context, input models.ToolInput) (*models.Tool, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	tool := models.Tool{
		Name:         strings.TrimSpace(input.Name),
		URL:          strings.TrimSpace(input.URL),
		Category:     input.Category,
		Description:  strings.TrimSpace(input.Description),
		Tags:         DeriveTags(input.Description),
		Votes:        0,
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		DemoVideoURL: strings.TrimSpace(input.DemoVideoURL),
		CreatedAt:    time.Now().UTC(),
	}

	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		tool.ID = slug.NewToolID(tool.Name)
		err := s.store.InsertTool(ctx, tool)
		if err == nil {
			return &tool, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return nil, fmt.Errorf("failed to store tool: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to generate a unique tool id: %w", lastErr)
}

// Edit replaces the mutable fields of an existing tool, re-validating exactly
// as creation and re-deriving tags from the new description. A non-nil votes
// pointer overrides the counter; negative overrides are rejected. ID and
// creation time are immutable.
func (s *Service) Edit(ctx context.Context, id string, input models.ToolInput, votes *int) (*models.Tool, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}
	if votes != nil && *votes < 0 {
		return nil, &ValidationError{Field: "votes", Reason: "must be a non-negative integer"}
	}

	existing, err := s.store.GetTool(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.URL = strings.TrimSpace(input.URL)
	updated.Category = input.Category
	updated.Description = strings.TrimSpace(input.Description)
	updated.Tags = DeriveTags(input.Description)
	updated.ThumbnailURL = strings.TrimSpace(input.ThumbnailURL)
	updated.DemoVideoURL = strings.TrimSpace(input.DemoVideoURL)
	if votes != nil {
		updated.Votes = *votes
	}

	if err := s.store.UpdateTool(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a published tool.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteTool(ctx, id)
}

// Counts returns the sizes of both collections, for health reporting and
// metrics.
func (s *Service) Counts(ctx context.Context) (tools, submissions int, err error) {
	allTools, err := s.store.ListTools(ctx)
	if err != nil {
		return 0, 0, err
	}
	allSubs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(allTools), len(allSubs), nil
}

func inferredPtr(query string) *string {
	inferred, ok := InferCategory(query)
	if !ok {
		return nil
	}
	return &inferred
}
