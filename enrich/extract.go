package enrich

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractMetadata walks a parsed HTML document and collects the candidate
// metadata fields used by Normalize. For each field only the first occurrence
// is kept, matching how browsers treat duplicated meta tags.
func ExtractMetadata(doc *html.Node) Metadata {
	var meta Metadata

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				var property, name, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "property":
						property = strings.ToLower(attr.Val)
					case "name":
						name = strings.ToLower(attr.Val)
					case "content":
						content = attr.Val
					}
				}
				if strings.TrimSpace(content) == "" {
					break
				}
				switch {
				case property == "og:title":
					if meta.OGTitle == "" {
						meta.OGTitle = content
					}
				case name == "twitter:title":
					if meta.TwitterTitle == "" {
						meta.TwitterTitle = content
					}
				case property == "og:description":
					if meta.OGDescription == "" {
						meta.OGDescription = content
					}
				case name == "description":
					if meta.MetaDescription == "" {
						meta.MetaDescription = content
					}
				case name == "twitter:description":
					if meta.TwitterDescription == "" {
						meta.TwitterDescription = content
					}
				case property == "og:image":
					if meta.OGImage == "" {
						meta.OGImage = content
					}
				case name == "twitter:image":
					if meta.TwitterImage == "" {
						meta.TwitterImage = content
					}
				case property == "og:video" || property == "og:video:url":
					if meta.OGVideo == "" {
						meta.OGVideo = content
					}
				case name == "twitter:player":
					if meta.TwitterPlayer == "" {
						meta.TwitterPlayer = content
					}
				}
			case "title":
				if meta.PageTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					meta.PageTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return meta
}
