package catalog

import (
	"sort"
	"strings"

	"github.com/fluxstack/catalog/models"
)

// MaxResults is the hard cap on the number of ranked tools a caller may
// request. Limits are applied after ranking, never before.
const MaxResults = 100

const categoryBonus = 20
const nameMatchBonus = 20

// Rank filters tools by category and query and orders them by score.
//
// The category filter is an exact match unless it is "All". Each whitespace
// word of the lowercased query must appear somewhere in the tool's corpus
// (name, description, tags, category). A tool scores its vote count, plus a
// bonus when its category equals the one inferred from the query, plus a bonus
// when its name contains the whole query. Ties keep input order; the internal
// score never leaves this function.
func Rank(tools []models.Tool, query, category string) []models.Tool {
	cleanQuery := strings.ToLower(strings.TrimSpace(query))
	words := strings.Fields(cleanQuery)
	inferred, hasInferred := InferCategory(cleanQuery)

	type scoredTool struct {
		tool  models.Tool
		score int
	}

	kept := []scoredTool{}
	for _, tool := range tools {
		if category != "All" && tool.Category != category {
			continue
		}
		if len(words) > 0 && !corpusContainsAll(tool, words) {
			continue
		}

		score := tool.Votes
		if hasInferred && inferred == tool.Category {
			score += categoryBonus
		}
		if cleanQuery != "" && strings.Contains(strings.ToLower(tool.Name), cleanQuery) {
			score += nameMatchBonus
		}
		kept = append(kept, scoredTool{tool: tool, score: score})
	}

	// Stable sort so equal scores preserve the collection's original order.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	result := make([]models.Tool, len(kept))
	for i, entry := range kept {
		result[i] = entry.tool
	}
	return result
}

func corpusContainsAll(tool models.Tool, words []string) bool {
	corpus := strings.ToLower(tool.Name + " " + tool.Description + " " +
		strings.Join(tool.Tags, " ") + " " + tool.Category)
	for _, word := range words {
		if !strings.Contains(corpus, word) {
			return false
		}
	}
	return true
}

// Limit truncates ranked results to the requested size, clamped to
// MaxResults. A non-positive limit leaves the results untouched.
func Limit(tools []models.Tool, limit int) []models.Tool {
	if limit <= 0 {
		return tools
	}
	if limit > MaxResults {
		limit = MaxResults
	}
	if len(tools) > limit {
		return tools[:limit]
	}
	return tools
}

// Categories returns the distinct categories present in the full collection,
// sorted, always prefixed with "All". It is computed per request from the
// current snapshot rather than cached.
func Categories(tools []models.Tool) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, tool := range tools {
		if tool.Category == "" || seen[tool.Category] {
			continue
		}
		seen[tool.Category] = true
		categories = append(categories, tool.Category)
	}
	sort.Strings(categories)
	return append([]string{"All"}, categories...)
}
