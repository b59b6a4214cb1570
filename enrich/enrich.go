// Package enrich derives best-effort listing metadata from a target URL to
// pre-fill the submission form. Fetching and parsing failures always degrade
// to a usable fallback record; enrichment never blocks a submission.
package enrich

import (
	"net/url"
	"strings"

	"github.com/fluxstack/catalog/models"
)

// Enrichment source markers, surfaced so callers can show fidelity.
const (
	SourceOpenGraph = "open-graph"
	SourceFallback  = "fallback"
)

// Metadata holds the raw candidate fields pulled out of a fetched page. Every
// field may be absent.
type Metadata struct {
	OGTitle            string
	TwitterTitle       string
	PageTitle          string
	OGDescription      string
	MetaDescription    string
	TwitterDescription string
	OGImage            string
	TwitterImage       string
	OGVideo            string
	TwitterPlayer      string
}

func (m Metadata) empty() bool {
	return m == Metadata{}
}

// Normalize produces the pre-fill record for a page's extracted metadata.
// It is a pure transform: per field it takes the first present candidate, then
// falls back to derivations from the target URL (hostname title, video-host
// thumbnail, origin favicon). Relative URLs are resolved against the page URL.
func Normalize(meta Metadata, pageURL string) models.Enrichment {
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		base = nil
	}

	result := models.Enrichment{Source: SourceFallback}
	if !meta.empty() {
		result.Source = SourceOpenGraph
	}

	result.Title = firstNonEmpty(meta.OGTitle, meta.TwitterTitle, meta.PageTitle)
	if result.Title == "" {
		result.Title = hostnameTitle(base)
	}

	result.Description = firstNonEmpty(meta.OGDescription, meta.MetaDescription, meta.TwitterDescription)

	video := resolveAgainst(base, firstNonEmpty(meta.OGVideo, meta.TwitterPlayer))
	result.DemoVideoURL = video

	thumbnail := resolveAgainst(base, firstNonEmpty(meta.OGImage, meta.TwitterImage))
	if thumbnail == "" {
		thumbnail = videoThumbnail(firstNonEmpty(video, pageURL))
	}
	if thumbnail == "" {
		thumbnail = faviconURL(base)
	}
	result.ThumbnailURL = thumbnail

	return result
}

// Fallback returns the degraded record used when the page could not be
// fetched at all: hostname title, derived thumbnail, nothing else.
func Fallback(pageURL string) models.Enrichment {
	return Normalize(Metadata{}, pageURL)
}

// videoThumbnail derives a thumbnail from known video-host URL conventions.
// Unrecognized hosts yield "".
func videoThumbnail(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := parsed.Query().Get("v"); id != "" {
			return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
		}
	case "youtu.be":
		if id := lastPathSegment(parsed); id != "" {
			return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
		}
	case "vimeo.com", "player.vimeo.com":
		if id := lastPathSegment(parsed); id != "" {
			return "https://vumbnail.com/" + id + ".jpg"
		}
	}
	return ""
}

func lastPathSegment(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func hostnameTitle(base *url.URL) string {
	if base == nil || base.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(base.Hostname(), "www.")
}

func faviconURL(base *url.URL) string {
	if base == nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return ""
	}
	return base.Scheme + "://" + base.Host + "/favicon.ico"
}

// resolveAgainst resolves a possibly relative metadata URL against the page
// URL and keeps only http(s) results.
func resolveAgainst(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
