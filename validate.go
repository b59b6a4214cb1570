package catalog

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/fluxstack/catalog/models"
)

// MaxDescriptionLength is the longest accepted listing description.
const MaxDescriptionLength = 400

const maxTags = 3
const minTagLength = 5

var tagSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ValidateInput checks the client-supplied fields of a listing. It applies to
// submission creation, admin direct publish, and admin edit alike. The first
// violation is returned as a ValidationError naming the offending field.
func ValidateInput(input models.ToolInput) error {
	required := []struct {
		field string
		value string
	}{
		{"name", input.Name},
		{"url", input.URL},
		{"category", input.Category},
		{"description", input.Description},
	}
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			return &ValidationError{Field: entry.field, Reason: "must be a non-empty string"}
		}
	}

	if !isHTTPURL(input.URL) {
		return &ValidationError{Field: "url", Reason: "must be an absolute http or https URL"}
	}
	if len(input.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: "is too long"}
	}
	if strings.TrimSpace(input.ThumbnailURL) != "" && !isHTTPURL(input.ThumbnailURL) {
		return &ValidationError{Field: "thumbnailUrl", Reason: "must be an absolute http or https URL"}
	}
	if strings.TrimSpace(input.DemoVideoURL) != "" && !isHTTPURL(input.DemoVideoURL) {
		return &ValidationError{Field: "demoVideoUrl", Reason: "must be an absolute http or https URL"}
	}

	return nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// DeriveTags derives up to three tags from a listing description: lowercase
// the text, split on runs of non-alphanumeric characters, keep tokens longer
// than four characters, take the first three in order. Deterministic and pure;
// tags are computed at creation or edit, never recomputed on read.
func DeriveTags(description string) []string {
	tokens := tagSplitPattern.Split(strings.ToLower(description), -1)
	tags := make([]string, 0, maxTags)
	for _, token := range tokens {
		if len(token) < minTagLength {
			continue
		}
		tags = append(tags, token)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
