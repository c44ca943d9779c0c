package blog

import (
	"github.com/dmitrymomot/blogfusion/pkg/sanitizer"
	"github.com/dmitrymomot/blogfusion/pkg/validator"
)

// ManualPostInput is the payload for a manually written post.
type ManualPostInput struct {
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Content         string `json:"content"` // HTML from the editor
	Category        string `json:"category"`
	CoverImage      string `json:"cover_image"`
}

// AutomatedPostInput is the payload for publishing an AI-drafted post.
// Content is the markdown draft; keywords pair with urls by index for
// link embedding.
type AutomatedPostInput struct {
	Title       string   `json:"title,omitempty"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	CoverImage  string   `json:"cover_image"`
	Keywords    []string `json:"keywords,omitempty"`
	URLs        []string `json:"urls,omitempty"`
	AIScore     int      `json:"ai_score,omitempty"`
	IsHumanized bool     `json:"is_humanized,omitempty"`
}

var urlSchemes = []string{"http", "https"}

// validateManual checks a manual post one defect at a time, in the
// order the editor walks the author through them. SEO drives the hard
// title and meta description length windows.
func validateManual(in ManualPostInput) error {
	plainText := sanitizer.Trim(sanitizer.StripHTML(in.Content))

	return validator.First(
		validator.Required("title", in.Title),
		validator.LenBetween("title", sanitizer.Trim(in.Title), 50, 60),
		validator.Required("meta_description", in.MetaDescription),
		validator.LenBetween("meta_description", sanitizer.Trim(in.MetaDescription), 150, 160),
		validator.OneOf("category", in.Category, Categories),
		validator.Required("content", plainText),
		validator.MinLen("content", plainText, 100),
		validator.Required("cover_image", in.CoverImage),
		validator.ValidURLWithScheme("cover_image", in.CoverImage, urlSchemes),
	)
}

// validateAutomated checks an AI-drafted post before publication.
func validateAutomated(in AutomatedPostInput) error {
	rules := []validator.Rule{
		validator.Required("content", in.Content),
		validator.OneOf("category", in.Category, Categories),
		validator.Required("cover_image", in.CoverImage),
		validator.ValidURLWithScheme("cover_image", in.CoverImage, urlSchemes),
	}
	for _, u := range in.URLs {
		if u != "" {
			rules = append(rules, validator.ValidURLWithScheme("urls", u, urlSchemes))
		}
	}
	return validator.First(rules...)
}
