package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify derives a post ID from its title: lowercased, every run of
// whitespace collapsed to a single hyphen. Nothing else is removed.
func Slugify(title string) string {
	lower := cases.Lower(language.Und).String(title)
	return whitespaceRun.ReplaceAllString(lower, "-")
}

// ParseTags splits a comma separated tag list, trimming entries and
// dropping empty ones.
func ParseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title cannot be blank")
	}
	// "." and ".." are cleaned away by the router and could never be served.
	if p.ID != "" && strings.Trim(p.ID, ".") == "" {
		return errors.New("title cannot consist only of dots")
	}
	if p.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// BeforeCreate fills in the fields owned by the system on first save.
func (p *Post) BeforeCreate(author string, now time.Time) {
	if p.ID == "" {
		p.ID = Slugify(p.Title)
	}
	if p.Date.IsZero() {
		p.Date = now.UTC()
	}
	p.Author = author
}

// PrimaryTag returns the category badge of the post, or "" when untagged.
func (p *Post) PrimaryTag() string {
	if len(p.Tags) == 0 {
		return ""
	}
	return p.Tags[0]
}

// TagList renders the tags back into the comma separated form used by forms.
func (p *Post) TagList() string {
	return strings.Join(p.Tags, ", ")
}
