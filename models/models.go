package models

import "time"

// Tool represents a published catalog entry visible to all users.
type Tool struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Votes        int       `json:"votes"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	DemoVideoURL string    `json:"demoVideoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Submission represents an unreviewed candidate tool awaiting an admin
// decision. It carries the same listing fields as a Tool but keeps its own
// identifier and only exists until it is approved or rejected.
type Submission struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Votes        int       `json:"votes"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	DemoVideoURL string    `json:"demoVideoUrl,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// ToolInput carries the client-supplied mutable fields of a listing. It is the
// payload shape for submission creation, admin direct publish, and admin edit.
type ToolInput struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	DemoVideoURL string `json:"demoVideoUrl,omitempty"`
}

// RankedList is the tool search response: ranked results, the category filter
// list derived from the full collection, and the category the classifier
// inferred from the query (null when no keyword matched).
type RankedList struct {
	Tools            []Tool   `json:"tools"`
	Categories       []string `json:"categories"`
	InferredCategory *string  `json:"inferredCategory"`
}

// Recommendations is the assistant response: a short intro sentence and the
// top ranked tools for a free-text request.
type Recommendations struct {
	Intro            string  `json:"intro"`
	InferredCategory *string `json:"inferredCategory"`
	Recommendations  []Tool  `json:"recommendations"`
}

// Enrichment is the best-effort metadata record used to pre-fill a submission
// form. Source is "open-graph" when any page metadata was found and
// "fallback" when the record degraded to hostname/favicon derivation only.
type Enrichment struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	DemoVideoURL string `json:"demoVideoUrl,omitempty"`
	Source       string `json:"source"`
}
