package enrich

import (
	"strings"

	"golang.org/x/net/html"
)

// Metadata holds the fields extractable from a page. Fields that could
// not be extracted are nil, never the empty string.
type Metadata struct {
	Title       *string
	Description *string
}

// Changes renders the extracted fields as a link update, containing only
// the fields that were actually found.
func (m Metadata) Changes() map[string]any {
	changes := make(map[string]any)
	if m.Title != nil {
		changes["title"] = *m.Title
	}
	if m.Description != nil {
		changes["description"] = *m.Description
	}
	return changes
}

// ExtractMetadata pulls the <title> text and a description out of raw
// HTML. The Open Graph description is preferred over the standard meta
// description tag. Values are trimmed of surrounding whitespace.
func ExtractMetadata(htmlText string) Metadata {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return Metadata{}
	}

	var title, ogDescription, metaDescription string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = n.FirstChild.Data
				}
			case "meta":
				var name, property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name":
						name = attr.Val
					case "property":
						property = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if property == "og:description" && ogDescription == "" {
					ogDescription = content
				}
				if name == "description" && metaDescription == "" {
					metaDescription = content
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	description := ogDescription
	if description == "" {
		description = metaDescription
	}

	return Metadata{
		Title:       nonEmpty(title),
		Description: nonEmpty(description),
	}
}

// nonEmpty trims the value and maps an empty result to nil.
func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
