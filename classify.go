package catalog

import "strings"

// categoryKeywords maps each known category to its representative keywords.
// Declaration order matters: when two categories score the same keyword count,
// the earlier one keeps the win.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Writing", []string{"write", "copy", "content", "email", "blog", "script"}},
	{"Research", []string{"research", "study", "learn", "compare", "analysis", "citation"}},
	{"Image", []string{"image", "photo", "logo", "design", "art", "thumbnail"}},
	{"Video", []string{"video", "reel", "youtube", "edit", "motion", "clips"}},
	{"Audio", []string{"voice", "audio", "podcast", "speech", "music", "narration"}},
	{"Coding", []string{"code", "developer", "debug", "build", "app", "program"}},
	{"Productivity", []string{"notes", "task", "workflow", "organize", "meeting", "plan"}},
}

// InferCategory guesses a category for free-text input by counting how many of
// each category's keywords appear as substrings of the lowercased input. The
// strictly highest count wins. The boolean is false when nothing matched; the
// result is a heuristic signal, not an authoritative classification.
func InferCategory(text string) (string, bool) {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return "", false
	}

	best := ""
	bestScore := 0
	for _, entry := range categoryKeywords {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(query, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = entry.category
			bestScore = score
		}
	}

	return best, bestScore > 0
}
