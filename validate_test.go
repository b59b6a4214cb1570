package catalog

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fluxstack/catalog/models"
)

func validInput() models.ToolInput {
	return models.ToolInput{
		Name:        "Draftly",
		URL:         "https://draftly.example.com",
		Category:    "Writing",
		Description: "Drafts blog posts from an outline",
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.ToolInput)
		wantField  string
		wantReason string
	}{
		{
			name:   "valid input",
			mutate: func(in *models.ToolInput) {},
		},
		{
			name:       "missing name",
			mutate:     func(in *models.ToolInput) { in.Name = "" },
			wantField:  "name",
			wantReason: "must be a non-empty string",
		},
		{
			name:       "whitespace-only name",
			mutate:     func(in *models.ToolInput) { in.Name = "   " },
			wantField:  "name",
			wantReason: "must be a non-empty string",
		},
		{
			name:       "missing url",
			mutate:     func(in *models.ToolInput) { in.URL = "" },
			wantField:  "url",
			wantReason: "must be a non-empty string",
		},
		{
			name:       "missing category",
			mutate:     func(in *models.ToolInput) { in.Category = "" },
			wantField:  "category",
			wantReason: "must be a non-empty string",
		},
		{
			name:       "missing description",
			mutate:     func(in *models.ToolInput) { in.Description = "" },
			wantField:  "description",
			wantReason: "must be a non-empty string",
		},
		{
			name:       "non-http scheme",
			mutate:     func(in *models.ToolInput) { in.URL = "ftp://example.com/tool" },
			wantField:  "url",
			wantReason: "must be an absolute http or https URL",
		},
		{
			name:       "relative url",
			mutate:     func(in *models.ToolInput) { in.URL = "/just/a/path" },
			wantField:  "url",
			wantReason: "must be an absolute http or https URL",
		},
		{
			name:       "scheme without host",
			mutate:     func(in *models.ToolInput) { in.URL = "https://" },
			wantField:  "url",
			wantReason: "must be an absolute http or https URL",
		},
		{
			name: "description too long",
			mutate: func(in *models.ToolInput) {
				in.Description = strings.Repeat("a", MaxDescriptionLength+1)
			},
			wantField:  "description",
			wantReason: "is too long",
		},
		{
			name: "description at the boundary",
			mutate: func(in *models.ToolInput) {
				in.Description = strings.Repeat("a", MaxDescriptionLength)
			},
		},
		{
			name:       "invalid optional thumbnail url",
			mutate:     func(in *models.ToolInput) { in.ThumbnailURL = "not-a-url" },
			wantField:  "thumbnailUrl",
			wantReason: "must be an absolute http or https URL",
		},
		{
			name:       "invalid optional demo video url",
			mutate:     func(in *models.ToolInput) { in.DemoVideoURL = "file:///tmp/demo.mp4" },
			wantField:  "demoVideoUrl",
			wantReason: "must be an absolute http or https URL",
		},
		{
			name: "valid optional urls",
			mutate: func(in *models.ToolInput) {
				in.ThumbnailURL = "https://cdn.example.com/thumb.png"
				in.DemoVideoURL = "http://videos.example.com/demo"
			},
		},
		{
			name:       "missing name reported before bad url",
			mutate:     func(in *models.ToolInput) { in.Name = ""; in.URL = "ftp://x" },
			wantField:  "name",
			wantReason: "must be a non-empty string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			err := ValidateInput(input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateInput() = %v, expected nil", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateInput() = %v, expected *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, expected %q", ve.Field, tt.wantField)
			}
			if ve.Reason != tt.wantReason {
				t.Errorf("ValidationError.Reason = %q, expected %q", ve.Reason, tt.wantReason)
			}
		})
	}
}

func TestDeriveTags(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    []string
	}{
		{
			name:        "first three long tokens",
			description: "I built an automated workflow generator for creators",
			expected:    []string{"built", "automated", "workflow"},
		},
		{
			name:        "short tokens are skipped",
			description: "a big red dog ran fast",
			expected:    []string{},
		},
		{
			name:        "punctuation splits tokens",
			description: "top-of-the-line summarization, really precise",
			expected:    []string{"summarization", "really", "precise"},
		},
		{
			name:        "lowercased output",
			description: "GENERATES Thumbnails QUICKLY",
			expected:    []string{"generates", "thumbnails", "quickly"},
		},
		{
			name:        "empty description",
			description: "",
			expected:    []string{},
		},
		{
			name:        "fewer than three qualifying tokens",
			description: "swift notes app",
			expected:    []string{"swift", "notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTags(tt.description)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("DeriveTags(%q) = %v, expected %v", tt.description, got, tt.expected)
			}
		})
	}
}
